package commands

import (
	"context"
	"fmt"
)

// GreetCommand is the name the presentation layer invokes.
const GreetCommand = "greet"

// RuntimeName is reported in greetings. The front end matches on the exact
// text, so it is kept as shipped.
const RuntimeName = "Rust"

// Greet returns the greeting for name. Any string, including "", is valid.
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from %s!", name, RuntimeName)
}

func greetHandler(_ context.Context, args Args) (any, error) {
	name, err := args.String("name")
	if err != nil {
		return nil, err
	}
	return Greet(name), nil
}

// RegisterDefaults installs the application's own commands.
func RegisterDefaults(reg *Registry) error {
	return reg.Register(GreetCommand, greetHandler)
}
