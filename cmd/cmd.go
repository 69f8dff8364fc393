// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

// setupCommand prepares local state: the config file and the play history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file or initialize the history database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the file (default: --config path)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the history database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "status",
						Usage: "List migrations and whether they are applied",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// soundsCommand lists the catalog.
func soundsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sounds",
		Aliases: []string{"ls"},
		Usage:   "List sounds grouped by folder",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (json, csv, markdown, text)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the export to this file instead of stdout",
			},
		},
		Action: r.Sounds,
	}
}

func foldersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "folders",
		Usage: "List folders sounds can be uploaded or moved to",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Folders,
	}
}

// playCommand plays one sound on the server, this machine or both.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a sound by its full path",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "Play on the server (default: playback.remote)",
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Play on this machine (default: playback.local)",
			},
		},
		Action: r.Play,
	}
}

func stopCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stop",
		Usage:  "Stop the sound currently playing on the server",
		Action: r.Stop,
	}
}

func stopAllCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stopall",
		Usage:  "Stop every sound playing on the server",
		Action: r.StopAll,
	}
}

// uploadCommand uploads files or directories of audio files.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload audio files or directories",
		ArgsUsage: "<file|dir>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "folder",
				Usage: "Destination folder",
				Value: "Main",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent uploads (default: upload.workers)",
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Uploads started per second (default: upload.rate_limit)",
			},
		},
		Action: r.Upload,
	}
}

func moveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "move",
		Usage: "Move a sound to another folder",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
			&cli.StringArg{
				Name: "folder",
			},
		},
		Action: r.Move,
	}
}

// categoryCommand manages folders on the server.
func categoryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "category",
		Aliases: []string{"cat"},
		Usage:   "Create and remove categories",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an empty category",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.CategoryCreate,
			},
			{
				Name:  "empty",
				Usage: "List categories with no sounds",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CategoryEmpty,
			},
			{
				Name:      "remove",
				Usage:     "Remove empty categories",
				ArgsUsage: "<name>...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Remove every empty category",
					},
				},
				Action: r.CategoryRemove,
			},
		},
	}
}

// watchCommand uploads files dropped into a directory.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch a directory and upload new audio files",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "dir",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "folder",
				Usage: "Destination for files at the top of the directory",
				Value: "Main",
			},
			&cli.DurationFlag{
				Name:  "settle",
				Usage: "Quiet period after the last write before uploading",
				Value: 2 * time.Second,
			},
		},
		Action: r.Watch,
	}
}

// historyCommand reports the local play history.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recently played sounds",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "top",
				Usage: "Rank sounds by play count instead",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Delete the play history",
				Action: r.HistoryClear,
			},
		},
	}
}

func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "open",
		Usage:  "Open the soundboard web page in a browser",
		Action: r.Open,
	}
}

// tuiCommand returns the top-level TUI command; it is also the default action.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive soundboard",
		Action:  r.TUI,
	}
}
