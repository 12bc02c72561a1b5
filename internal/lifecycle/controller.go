// Package lifecycle drives the application through its states and reacts
// to the events the host runtime delivers while the event loop runs.
package lifecycle

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"pentamind/internal/logger"
	"pentamind/internal/windows"
)

type State int

const (
	Uninitialized State = iota
	Built
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Built:
		return "built"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// WindowLookup resolves windows by label at the time of each event.
type WindowLookup interface {
	Get(label string) (windows.Window, bool)
	AnyVisible() bool
}

// ReopenSupported reports whether this build reacts to dock reopen events.
func ReopenSupported() bool { return reopenSupported }

type Controller struct {
	mu      sync.Mutex
	state   State
	windows WindowLookup
	reopen  bool
	logger  logger.Logger
}

type Option func(*Controller)

func WithLogger(log logger.Logger) Option {
	return func(c *Controller) { c.logger = log }
}

// WithReopenSupport overrides the build's platform capability.
func WithReopenSupport(enabled bool) Option {
	return func(c *Controller) { c.reopen = enabled }
}

func NewController(w WindowLookup, opts ...Option) *Controller {
	c := &Controller{
		state:   Uninitialized,
		windows: w,
		reopen:  reopenSupported,
		logger:  logger.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReopenEnabled reports whether this controller acts on reopen events.
func (c *Controller) ReopenEnabled() bool { return c.reopen }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// MarkBuilt records that the application has been assembled.
func (c *Controller) MarkBuilt() error {
	return c.transition(Built, Uninitialized)
}

// MarkRunning records that the event loop is about to take over.
func (c *Controller) MarkRunning() error {
	return c.transition(Running, Built)
}

// MarkTerminated records that the event loop has stopped. A built app that
// never ran may also terminate.
func (c *Controller) MarkTerminated() error {
	return c.transition(Terminated, Running, Built)
}

func (c *Controller) transition(to State, from ...State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.state
	if !slices.Contains(from, prev) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, to)
	}
	c.state = to
	c.logger.Debug("Lifecycle", "state changed", map[string]interface{}{
		"from": prev.String(),
		"to":   to.String(),
	})
	return nil
}

// HandleEvent reacts to ev. Only a reopen without visible windows has an
// effect; everything else is a no-op apart from Exit ending a built or
// running lifecycle.
func (c *Controller) HandleEvent(ev Event) {
	c.logger.Debug("Lifecycle", "event received", map[string]interface{}{
		"kind": ev.Kind(),
	})

	switch e := ev.(type) {
	case Reopen:
		c.handleReopen(e)
	case Exit:
		if err := c.MarkTerminated(); err != nil {
			c.logger.Warning("Lifecycle", "exit ignored", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func (c *Controller) handleReopen(e Reopen) {
	if !c.reopen || e.HasVisibleWindows {
		return
	}

	w, ok := c.windows.Get(windows.MainLabel)
	if !ok {
		return
	}

	w.Show()
	w.RequestFocus()
	c.logger.Info("Lifecycle", "main window restored", nil)
}
