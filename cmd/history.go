package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/encore/internal/repositories"
	"github.com/desertthunder/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints summaries of recent stored runs.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	summaries, err := repositories.NewRunRepository(db).List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summaries, true)
	}

	if len(summaries) == 0 {
		r.writePlain("No stored runs. Use 'encore generate --save' to keep one.\n")
		return nil
	}

	for _, summary := range summaries {
		r.writePlain("%s  %s  %-7s  %s (%d/%d matched)\n",
			summary.ID,
			summary.CreatedAt.Format("2006-01-02 15:04"),
			summary.Status,
			strings.Join(summary.Artists, ", "),
			summary.Stats.Matched,
			summary.Stats.Matched+summary.Stats.Missing,
		)
	}

	return nil
}

// HistoryShow prints or exports a single stored run.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run id is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := repositories.NewRunRepository(db).Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	if format := cmd.String("export"); format != "" {
		return r.exportResult(result, format, cmd.String("output"))
	}

	r.printResultSummary(result)
	return nil
}

// HistoryDelete removes a stored run.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run id is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewRunRepository(db).Delete(id); err != nil {
		return err
	}

	r.logger.Info("deleted run", "id", id)
	r.writePlain("Deleted run %s\n", id)
	return nil
}
