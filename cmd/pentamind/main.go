package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"pentamind/internal/app"
	"pentamind/internal/config"
	"pentamind/internal/logger"
	"pentamind/internal/shutdown"
	"pentamind/internal/telemetry"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cmd := &cli.Command{
		Name:    "pentamind",
		Usage:   "Pentamind desktop shell",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:    "json-logs",
				Usage:   "emit logs as JSON instead of console text",
				Sources: cli.EnvVars("PENTAMIND_JSON_LOGS"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a context file merged over the built-in one",
				Sources: cli.EnvVars("PENTAMIND_CONFIG"),
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Start the desktop application (default)",
				Action: run,
			},
			{
				Name:  "context",
				Usage: "Print the resolved build-time context",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					out, err := cfg.YAML()
					if err != nil {
						return err
					}
					_, err = os.Stdout.Write(out)
					return err
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("error while running pentamind")
	}
}

func run(ctx context.Context, c *cli.Command) error {
	level, err := logger.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	appLogger := logger.New(level, c.Bool("json-logs"))

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load context: %w", err)
	}

	appLogger.Info("Main", "starting", map[string]interface{}{
		"version":    build(),
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
	})

	tp, cleanupTracing, err := telemetry.NewTracerProvider(cfg.Telemetry, cfg.Version, os.Stderr, appLogger)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	application, err := app.New(app.Options{
		Config:         cfg,
		Logger:         appLogger,
		TracerProvider: tp,
	})
	if err != nil {
		cleanupTracing()
		return fmt.Errorf("build application: %w", err)
	}

	sm := shutdown.NewManager(appLogger)
	sm.Register("telemetry", shutdown.Func(cleanupTracing))
	sm.Register("application", application)
	sm.Listen()

	runErr := application.Run(sm.Context())
	sm.Shutdown()
	return runErr
}
