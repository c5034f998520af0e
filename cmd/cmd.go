// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, generateCommand, artistCommand, setlistCommand, trackCommand, cacheCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// setupCommand handles first-run initialization
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration, database, and cache directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// generateCommand runs the full resolution pipeline
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate a playlist from artists' recent setlists",
		ArgsUsage: "ARTIST [ARTIST...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Setlists to aggregate per artist (1-5)",
				Value:   3,
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "Export format: csv, markdown, or text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path or directory for exports",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the run to the local database",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the full result as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Generate,
	}
}

// artistCommand handles artist identity operations
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Artist identity operations",
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "Resolve a free-text name to a canonical artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ArtistResolve,
			},
		},
	}
}

// setlistCommand handles setlist aggregation operations
func setlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setlist",
		Usage: "Setlist aggregation operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the aggregated recent repertoire for an artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Setlists to aggregate (1-5)",
						Value:   3,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SetlistShow,
			},
		},
	}
}

// trackCommand handles catalog track operations
func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Catalog track operations",
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "Match a song title by an artist to a catalog track",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "artist",
						Aliases:  []string{"a"},
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Song title",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TrackResolve,
			},
			{
				Name:  "search",
				Usage: "Free-query catalog search",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum results (1-50)",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TrackSearch,
			},
		},
	}
}

// cacheCommand handles cache diagnostics; mutating operations are refused in production mode
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Cache diagnostics and administration",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show entry counts and disk usage for both tiers",
				Action: r.CacheStats,
			},
			{
				Name:  "get",
				Usage: "Print a raw cache entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
				},
				Action: r.CacheGet,
			},
			{
				Name:  "clear",
				Usage: "Remove cache entries by key prefix",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "prefix",
						Aliases:  []string{"p"},
						Usage:    "Key prefix to clear (e.g. artist:resolve:)",
						Required: true,
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}

// historyCommand handles persisted run history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"runs"},
		Usage:   "Persisted generation run history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum runs to list",
						Value:   20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show a stored run",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "export",
						Aliases: []string{"e"},
						Usage:   "Export format: csv, markdown, or text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path or directory for exports",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a stored run",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Usage:     "Interactive playlist generation",
		ArgsUsage: "ARTIST [ARTIST...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Setlists to aggregate per artist (1-5)",
				Value:   3,
			},
		},
		Action: r.TUI,
	}
}
