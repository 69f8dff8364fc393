package main

import (
	"context"
	"os"

	"github.com/desertthunder/sbx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	err := newApp(runner).Run(context.Background(), os.Args)
	runner.Close()

	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sbx",
		Usage:   "Play, upload and organize sounds on a soundboard server",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("SBX_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Soundboard base URL (overrides server.base_url)",
				Sources: cli.EnvVars("SBX_SERVER"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before:   r.Before,
		Action:   r.TUI,
		Commands: r.register(),
	}
}
