package lifecycle

// Event is a notification delivered by the host runtime.
type Event interface {
	Kind() string
}

// Ready fires once the event loop has started.
type Ready struct{}

// Reopen fires when the user reactivates the running app, typically from the dock.
type Reopen struct {
	HasVisibleWindows bool
}

// Resumed fires when the app returns to the foreground outside of a reopen.
type Resumed struct{}

// Suspended fires when the app leaves the foreground.
type Suspended struct{}

// ExitRequested fires before the event loop is asked to stop.
type ExitRequested struct{}

// Exit fires after the event loop has stopped.
type Exit struct{}

func (Ready) Kind() string         { return "ready" }
func (Reopen) Kind() string        { return "reopen" }
func (Resumed) Kind() string       { return "resumed" }
func (Suspended) Kind() string     { return "suspended" }
func (ExitRequested) Kind() string { return "exit_requested" }
func (Exit) Kind() string          { return "exit" }
