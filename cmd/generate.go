package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/encore/internal/formatter"
	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/repositories"
	"github.com/desertthunder/encore/internal/shared"
	"github.com/desertthunder/encore/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Generate runs the full pipeline for the requested artists and prints a summary.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one artist name is required", shared.ErrMissingArgument)
	}
	limit := int(cmd.Int("limit"))

	if err := r.requireEngine(ctx); err != nil {
		return err
	}

	r.logger.Info("starting generation", "artists", names, "limit", limit)
	r.writePlain("Generating playlist for: %v\n\n", names)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.consumeProgress(progressCh)

	result, err := r.engine.Generate(ctx, names, limit, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.printResultSummary(result)

	if cmd.Bool("save") {
		if err := r.saveRun(result); err != nil {
			return err
		}
		r.writePlain("Saved run %s\n", result.ID)
	}

	if format := cmd.String("export"); format != "" {
		return r.exportResult(result, format, cmd.String("output"))
	}

	return nil
}

// consumeProgress prints pipeline progress updates as they arrive. The
// returned channel closes once the updates channel is drained, so the caller
// can wait for the last update to print before writing the summary.
func (r *Runner) consumeProgress(updates <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			switch update.State {
			case tasks.StateResolvingArtist:
				r.writePlain("🔎 %s\n", update.Message)
			case tasks.StateAggregating:
				r.writePlain("   %s\n", update.Message)
			case tasks.StateResolvingTracks:
				r.writePlain("   %s\n", update.Message)
			case tasks.StateFallbackSearch:
				r.writePlain("   %s\n", update.Message)
			case tasks.StateMerged:
				r.writePlain("✓  %s\n\n", update.Message)
			}
		}
	}()
	return done
}

func (r *Runner) printResultSummary(result *models.GenerationResult) {
	r.writePlainHeader("Generation Complete")
	r.writePlain("Status: %s\n", result.Status)
	r.writePlain("Matched: %d/%d songs\n\n", result.Stats.Matched, result.Stats.Matched+result.Stats.Missing)

	for _, group := range result.Groups {
		label := ""
		if group.FromPopular {
			label = " (popular tracks, no recent setlists)"
		}
		r.writePlain("%s: %d tracks%s\n", group.Artist.Name, len(group.Tracks), label)
		for i, track := range group.Tracks {
			r.writePlain("  %d. %s - %s\n", i+1, track.Artist, track.Title)
		}
	}

	if len(result.Missing) > 0 {
		r.writePlain("\nNot found (%d):\n", len(result.Missing))
		for _, missing := range result.Missing {
			r.writePlain("  - %s - %s\n", missing.Artist, missing.Title)
		}
	}

	if len(result.MissingSetlists) > 0 {
		r.writePlain("\nNo results for: %v\n", result.MissingSetlists)
	}
}

func (r *Runner) saveRun(result *models.GenerationResult) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewRunRepository(db).Create(result); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (r *Runner) exportResult(result *models.GenerationResult, format, output string) error {
	switch format {
	case "csv":
		written, err := formatter.WriteCSVExport(result, output)
		if err != nil {
			return err
		}
		r.writePlain("Exported %s and %s\n", written.TracksFile, written.MetadataFile)
	case "markdown", "md":
		file, err := formatter.WriteMarkdownExport(result, output)
		if err != nil {
			return err
		}
		r.writePlain("Exported %s\n", file)
	case "text", "txt":
		file, err := formatter.WriteTextExport(result, output)
		if err != nil {
			return err
		}
		r.writePlain("Exported %s\n", file)
	default:
		return fmt.Errorf("%w: unknown export format '%s' (csv, markdown, or text)", shared.ErrInvalidFlag, format)
	}
	return nil
}
