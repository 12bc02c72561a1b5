package app

import (
	"context"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"pentamind/internal/commands"
	"pentamind/internal/config"
	"pentamind/internal/dock"
	"pentamind/internal/gui"
	"pentamind/internal/lifecycle"
	"pentamind/internal/logger"
	"pentamind/internal/plugins/opener"
	"pentamind/internal/windows"
)

// Options is assembled once by the caller and handed to New.
type Options struct {
	Config         *config.Config
	Logger         logger.Logger
	TracerProvider trace.TracerProvider

	// FyneApp is created from the config identifier when nil.
	FyneApp fyne.App

	LifecycleOptions []lifecycle.Option

	// ReopenSource delivers dock reopen events; dock.ObserveReopen when nil.
	ReopenSource func(dock.ReopenCallback) (func(), error)
}

type Application struct {
	fyneApp    fyne.App
	cfg        *config.Config
	logger     logger.Logger
	commands   *commands.Registry
	windows    *windows.Registry
	controller *lifecycle.Controller
	opener     *opener.Plugin
	view       *gui.GreetView
	quitOnce   sync.Once

	reopenSource func(dock.ReopenCallback) (func(), error)
	stopReopen   func()
}

// New builds the application: windows, the opener plugin and the command
// handler. The result is ready for Run.
func New(opts Options) (*Application, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.NoOpLogger{}
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	fa := opts.FyneApp
	if fa == nil {
		fa = fyneapp.NewWithID(opts.Config.Identifier)
	}

	winReg := windows.NewRegistry()
	lcOpts := append([]lifecycle.Option{lifecycle.WithLogger(log)}, opts.LifecycleOptions...)

	a := &Application{
		fyneApp:    fa,
		cfg:        opts.Config,
		logger:     log,
		commands:   commands.NewRegistry(commands.WithLogger(log), commands.WithTracerProvider(tp)),
		windows:    winReg,
		controller: lifecycle.NewController(winReg, lcOpts...),

		reopenSource: opts.ReopenSource,
		stopReopen:   func() {},
	}
	if a.reopenSource == nil {
		a.reopenSource = dock.ObserveReopen
	}

	a.opener = opener.Init(opts.Config.Plugins.Opener, fa, log)
	if err := a.opener.Register(a.commands); err != nil {
		return nil, fmt.Errorf("register %s plugin: %w", a.opener.Name(), err)
	}
	if err := commands.RegisterDefaults(a.commands); err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}

	a.view = gui.NewGreetView(a.commands, opts.Config.ProductName, opts.Config.HomepageURL, log)
	if err := a.buildWindows(); err != nil {
		return nil, err
	}
	a.setupLifecycleEvents()

	if err := a.controller.MarkBuilt(); err != nil {
		return nil, err
	}

	log.Info("Application", "built", map[string]interface{}{
		"identifier": opts.Config.Identifier,
		"version":    opts.Config.Version,
		"windows":    winReg.Labels(),
		"commands":   a.commands.Names(),
		"reopen":     a.controller.ReopenEnabled(),
	})
	return a, nil
}

func (a *Application) buildWindows() error {
	for _, wc := range a.cfg.Windows {
		title := wc.Title
		if title == "" {
			title = a.cfg.ProductName
		}

		w := a.fyneApp.NewWindow(title)
		if wc.Width > 0 && wc.Height > 0 {
			w.Resize(fyne.NewSize(wc.Width, wc.Height))
		}
		if wc.Center {
			w.CenterOnScreen()
		}

		fw := windows.NewFyneWindow(wc.Label, w)
		if wc.Label == windows.MainLabel {
			w.SetMaster()
			w.SetContent(a.view.Content())
		}
		if wc.HideOnClose && a.controller.ReopenEnabled() {
			w.SetCloseIntercept(fw.Hide)
		}

		if err := a.windows.Add(fw); err != nil {
			return err
		}
	}
	return nil
}

// setupLifecycleEvents forwards Fyne's lifecycle hooks to the controller.
// Fyne has no reopen hook, so reopen events come from the dock observer,
// installed once the event loop has created the application delegate.
func (a *Application) setupLifecycleEvents() {
	lc := a.fyneApp.Lifecycle()
	lc.SetOnStarted(func() {
		a.controller.HandleEvent(lifecycle.Ready{})
		a.observeReopen()
	})
	lc.SetOnEnteredForeground(func() {
		a.controller.HandleEvent(lifecycle.Resumed{})
	})
	lc.SetOnExitedForeground(func() {
		a.controller.HandleEvent(lifecycle.Suspended{})
	})
	lc.SetOnStopped(func() {
		a.stopReopen()
		a.controller.HandleEvent(lifecycle.Exit{})
	})
}

func (a *Application) observeReopen() {
	if !a.controller.ReopenEnabled() {
		return
	}

	stop, err := a.reopenSource(func(hasVisibleWindows bool) {
		fyne.Do(func() {
			a.controller.HandleEvent(lifecycle.Reopen{HasVisibleWindows: hasVisibleWindows})
		})
	})
	if err != nil {
		a.logger.Warning("Application", "dock reopen unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	a.stopReopen = stop
}

// Run shows the declared windows and blocks in the event loop until the
// application quits or ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.controller.MarkRunning(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		a.logger.Info("Application", "context cancelled before start", nil)
		a.controller.HandleEvent(lifecycle.Exit{})
		return nil
	}

	for _, wc := range a.cfg.Windows {
		if !wc.Visible {
			continue
		}
		if w, ok := a.windows.Get(wc.Label); ok {
			w.Show()
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			a.logger.Info("Application", "context cancelled, quitting", nil)
			a.Quit()
		case <-stop:
		}
	}()

	a.logger.Info("Application", "event loop starting", nil)
	a.fyneApp.Run()

	if a.controller.State() != lifecycle.Terminated {
		a.controller.HandleEvent(lifecycle.Exit{})
	}
	a.logger.Info("Application", "event loop stopped", nil)
	return nil
}

// Quit asks the event loop to stop. Safe to call from any goroutine; a no-op
// once the loop has exited.
func (a *Application) Quit() {
	if a.controller.State() == lifecycle.Terminated {
		return
	}
	a.quitOnce.Do(func() {
		a.controller.HandleEvent(lifecycle.ExitRequested{})
		fyne.Do(a.fyneApp.Quit)
	})
}

// Shutdown satisfies shutdown.Shutdownable.
func (a *Application) Shutdown() { a.Quit() }

// Invoke runs a command the same way the presentation layer does.
func (a *Application) Invoke(ctx context.Context, name string, args commands.Args) (any, error) {
	return a.commands.Invoke(ctx, name, args)
}

func (a *Application) Commands() *commands.Registry      { return a.commands }
func (a *Application) Windows() *windows.Registry        { return a.windows }
func (a *Application) Controller() *lifecycle.Controller { return a.controller }
func (a *Application) View() *gui.GreetView              { return a.view }
