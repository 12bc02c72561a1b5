package gui

import (
	"context"
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pentamind/internal/commands"
	"pentamind/internal/logger"
	"pentamind/internal/plugins/opener"
)

type invocation struct {
	name string
	args commands.Args
}

type fakeInvoker struct {
	calls []invocation
	err   error
}

func (f *fakeInvoker) Invoke(_ context.Context, name string, args commands.Args) (any, error) {
	f.calls = append(f.calls, invocation{name: name, args: args})
	if f.err != nil {
		return nil, f.err
	}
	if name == commands.GreetCommand {
		s, _ := args.String("name")
		return commands.Greet(s), nil
	}
	return nil, nil
}

func TestGreetView_GreetButton(t *testing.T) {
	test.NewTempApp(t)
	inv := &fakeInvoker{}
	v := NewGreetView(inv, "Pentamind", "", logger.NoOpLogger{})
	w := test.NewWindow(v.Content())
	defer w.Close()

	test.Type(v.NameEntry, "World")
	test.Tap(v.GreetButton)

	assert.Equal(t, "Hello, World! You've been greeted from Rust!", v.Result.Text)
	require.Len(t, inv.calls, 1)
	assert.Equal(t, commands.GreetCommand, inv.calls[0].name)
	assert.Nil(t, v.Homepage)
}

func TestGreetView_EmptyName(t *testing.T) {
	test.NewTempApp(t)
	v := NewGreetView(&fakeInvoker{}, "Pentamind", "", logger.NoOpLogger{})

	test.Tap(v.GreetButton)

	assert.Equal(t, "Hello, ! You've been greeted from Rust!", v.Result.Text)
}

func TestGreetView_ShowsInvokeError(t *testing.T) {
	test.NewTempApp(t)
	v := NewGreetView(&fakeInvoker{err: errors.New("bridge down")}, "Pentamind", "", logger.NoOpLogger{})

	test.Tap(v.GreetButton)

	assert.Equal(t, "Error: bridge down", v.Result.Text)
}

func TestGreetView_HomepageUsesOpenerCommand(t *testing.T) {
	test.NewTempApp(t)
	inv := &fakeInvoker{}
	v := NewGreetView(inv, "Pentamind", "https://example.com", logger.NoOpLogger{})
	require.NotNil(t, v.Homepage)

	test.Tap(v.Homepage)

	require.Len(t, inv.calls, 1)
	assert.Equal(t, opener.OpenURLCommand, inv.calls[0].name)
	assert.Equal(t, "https://example.com", inv.calls[0].args["url"])
}
