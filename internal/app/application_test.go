package app

import (
	"context"
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pentamind/internal/commands"
	"pentamind/internal/config"
	"pentamind/internal/dock"
	"pentamind/internal/lifecycle"
	"pentamind/internal/plugins/opener"
	"pentamind/internal/windows"
)

func mustDefault(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...lifecycle.Option) *Application {
	t.Helper()
	if cfg == nil {
		cfg = mustDefault(t)
	}
	a, err := New(Options{
		Config:           cfg,
		FyneApp:          test.NewTempApp(t),
		LifecycleOptions: opts,
	})
	require.NoError(t, err)
	return a
}

func TestNew_BuildsFromDefaultContext(t *testing.T) {
	a := newTestApp(t, nil)

	assert.Equal(t, lifecycle.Built, a.Controller().State())
	assert.Equal(t, []string{commands.GreetCommand, opener.OpenURLCommand}, a.Commands().Names())
	assert.Equal(t, []string{windows.MainLabel}, a.Windows().Labels())
	assert.NotNil(t, a.View().Homepage)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(Options{FyneApp: test.NewTempApp(t)})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg := &config.Config{
		Identifier: "id",
		Windows:    []config.WindowConfig{{Label: "settings"}},
	}
	_, err = New(Options{Config: cfg, FyneApp: test.NewTempApp(t)})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestApplication_GreetEndToEnd(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	got, err := a.Invoke(ctx, commands.GreetCommand, commands.Args{"name": "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, World! You've been greeted from Rust!", got)

	got, err = a.Invoke(ctx, commands.GreetCommand, commands.Args{"name": ""})
	require.NoError(t, err)
	assert.Equal(t, "Hello, ! You've been greeted from Rust!", got)

	test.Type(a.View().NameEntry, "World")
	test.Tap(a.View().GreetButton)
	assert.Equal(t, "Hello, World! You've been greeted from Rust!", a.View().Result.Text)
}

// lifecycleHooks exposes the callbacks registered on Fyne's lifecycle so the
// event loop can be simulated.
type lifecycleHooks interface {
	OnStarted() func()
	OnEnteredForeground() func()
	OnExitedForeground() func()
	OnStopped() func()
}

func hooksOf(t *testing.T, a *Application) lifecycleHooks {
	t.Helper()
	hooks, ok := a.fyneApp.Lifecycle().(lifecycleHooks)
	require.True(t, ok, "lifecycle %T does not expose its hooks", a.fyneApp.Lifecycle())
	return hooks
}

type fakeDock struct {
	callback dock.ReopenCallback
	installs int
	stopped  bool
	err      error
}

func (f *fakeDock) observe(cb dock.ReopenCallback) (func(), error) {
	f.installs++
	if f.err != nil {
		return nil, f.err
	}
	f.callback = cb
	return func() { f.stopped = true }, nil
}

func newReopenApp(t *testing.T, d *fakeDock) *Application {
	t.Helper()
	cfg := &config.Config{
		Identifier:  "ai.pentamind.test",
		ProductName: "Pentamind",
		Windows: []config.WindowConfig{
			{Label: windows.MainLabel, Visible: true, HideOnClose: true},
			{Label: "settings"},
		},
	}
	a, err := New(Options{
		Config:           cfg,
		FyneApp:          test.NewTempApp(t),
		LifecycleOptions: []lifecycle.Option{lifecycle.WithReopenSupport(true)},
		ReopenSource:     d.observe,
	})
	require.NoError(t, err)
	return a
}

func TestApplication_DockReopenRestoresHiddenMainWindow(t *testing.T) {
	d := &fakeDock{}
	a := newReopenApp(t, d)

	hooksOf(t, a).OnStarted()()
	require.Equal(t, 1, d.installs)
	require.NotNil(t, d.callback)

	main, ok := a.Windows().Get(windows.MainLabel)
	require.True(t, ok)
	settings, ok := a.Windows().Get("settings")
	require.True(t, ok)

	main.Show()
	main.Hide()
	require.False(t, a.Windows().AnyVisible())

	d.callback(false)
	assert.True(t, main.Visible())
	assert.False(t, settings.Visible())
}

func TestApplication_DockReopenWithVisibleWindowIsNoOp(t *testing.T) {
	d := &fakeDock{}
	a := newReopenApp(t, d)
	hooksOf(t, a).OnStarted()()

	settings, _ := a.Windows().Get("settings")
	main, _ := a.Windows().Get(windows.MainLabel)
	settings.Show()

	d.callback(true)
	assert.False(t, main.Visible())
}

func TestApplication_ForegroundDoesNotRestoreMainWindow(t *testing.T) {
	d := &fakeDock{}
	a := newReopenApp(t, d)
	hooks := hooksOf(t, a)
	hooks.OnStarted()()

	main, _ := a.Windows().Get(windows.MainLabel)
	hooks.OnEnteredForeground()()
	hooks.OnExitedForeground()()

	assert.False(t, main.Visible())
}

func TestApplication_DockObserverFailureIsNotFatal(t *testing.T) {
	d := &fakeDock{err: errors.New("no delegate")}
	a := newReopenApp(t, d)

	assert.NotPanics(t, hooksOf(t, a).OnStarted())
	assert.NotPanics(t, hooksOf(t, a).OnStopped())
	assert.Equal(t, lifecycle.Terminated, a.Controller().State())
}

func TestApplication_DockObserverSkippedWithoutReopenSupport(t *testing.T) {
	d := &fakeDock{}
	a, err := New(Options{
		Config:           mustDefault(t),
		FyneApp:          test.NewTempApp(t),
		LifecycleOptions: []lifecycle.Option{lifecycle.WithReopenSupport(false)},
		ReopenSource:     d.observe,
	})
	require.NoError(t, err)

	hooksOf(t, a).OnStarted()()
	assert.Zero(t, d.installs)
}

func TestApplication_StoppedHookTerminates(t *testing.T) {
	d := &fakeDock{}
	a := newReopenApp(t, d)
	hooks := hooksOf(t, a)
	hooks.OnStarted()()

	hooks.OnStopped()()

	assert.Equal(t, lifecycle.Terminated, a.Controller().State())
	assert.True(t, d.stopped)
}

func TestApplication_RunWithCancelledContext(t *testing.T) {
	a := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, a.Run(ctx))
	assert.Equal(t, lifecycle.Terminated, a.Controller().State())

	assert.ErrorIs(t, a.Run(context.Background()), lifecycle.ErrInvalidTransition)
	assert.NotPanics(t, a.Quit)
}

func TestApplication_RunShowsVisibleWindowsAndTerminates(t *testing.T) {
	d := &fakeDock{}
	a := newReopenApp(t, d)

	require.NoError(t, a.Run(context.Background()))

	main, _ := a.Windows().Get(windows.MainLabel)
	settings, _ := a.Windows().Get("settings")
	assert.True(t, main.Visible())
	assert.False(t, settings.Visible())
	assert.Equal(t, lifecycle.Terminated, a.Controller().State())
}

func TestApplication_QuitIsIdempotent(t *testing.T) {
	a := newTestApp(t, nil)

	a.Quit()
	a.Shutdown()

	assert.Equal(t, lifecycle.Built, a.Controller().State())
}

func TestApplication_OpenerRejectsDisallowedScheme(t *testing.T) {
	a := newTestApp(t, nil)

	_, err := a.Invoke(context.Background(), opener.OpenURLCommand, commands.Args{"url": "file:///tmp/x"})
	assert.ErrorIs(t, err, opener.ErrSchemeNotAllowed)
}

func TestApplication_UnknownCommand(t *testing.T) {
	a := newTestApp(t, nil)

	_, err := a.Invoke(context.Background(), "delete_everything", nil)
	assert.ErrorIs(t, err, commands.ErrUnknownCommand)
}
