// Package opener lets the presentation layer open external links with the
// system handler.
package opener

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"pentamind/internal/commands"
	"pentamind/internal/config"
	"pentamind/internal/logger"
)

const (
	Name = "opener"

	// OpenURLCommand is the namespaced command the plugin contributes.
	OpenURLCommand = "plugin:" + Name + "|open_url"
)

var (
	ErrInvalidURL       = errors.New("invalid url")
	ErrSchemeNotAllowed = errors.New("url scheme not allowed")
)

var defaultSchemes = []string{"http", "https", "mailto"}

// Launcher hands a URL to the operating system. fyne.App satisfies it.
type Launcher interface {
	OpenURL(u *url.URL) error
}

type Plugin struct {
	launcher Launcher
	allowed  map[string]bool
	logger   logger.Logger
}

// Init builds the plugin. An empty scheme list selects the defaults.
func Init(cfg config.OpenerConfig, launcher Launcher, log logger.Logger) *Plugin {
	schemes := cfg.AllowedSchemes
	if len(schemes) == 0 {
		schemes = defaultSchemes
	}

	allowed := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		allowed[strings.ToLower(s)] = true
	}

	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Plugin{launcher: launcher, allowed: allowed, logger: log}
}

func (p *Plugin) Name() string { return Name }

// Open validates raw and passes it to the launcher.
func (p *Plugin) Open(ctx context.Context, raw string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("%w: %q has no scheme", ErrInvalidURL, raw)
	}
	if !p.allowed[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("%w: %s", ErrSchemeNotAllowed, u.Scheme)
	}

	if err := p.launcher.OpenURL(u); err != nil {
		return fmt.Errorf("open %s: %w", u.Redacted(), err)
	}

	p.logger.Debug("Opener", "url opened", map[string]interface{}{
		"scheme": u.Scheme,
		"host":   u.Host,
	})
	return nil
}

// Register exposes the plugin's command on reg.
func (p *Plugin) Register(reg *commands.Registry) error {
	return reg.Register(OpenURLCommand, func(ctx context.Context, args commands.Args) (any, error) {
		raw, err := args.String("url")
		if err != nil {
			return nil, err
		}
		return nil, p.Open(ctx, raw)
	})
}
