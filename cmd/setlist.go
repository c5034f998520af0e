package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetlistShow resolves an artist and prints their aggregated recent repertoire.
func (r *Runner) SetlistShow(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name is required", shared.ErrMissingArgument)
	}
	limit := int(cmd.Int("limit"))

	if r.artists == nil || r.aggregator == nil {
		return fmt.Errorf("%w: setlist.fm client not configured", shared.ErrServiceUnavailable)
	}

	resolution, err := r.artists.Resolve(ctx, name)
	if err != nil {
		return err
	}
	if resolution.Best == nil {
		r.writePlain("No artist found for %q\n", name)
		return nil
	}

	setlist, err := r.aggregator.Aggregate(ctx, *resolution.Best, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(setlist, true)
	}

	r.writePlainHeader(fmt.Sprintf("Recent repertoire: %s", setlist.Artist.Name))
	r.writePlain("Setlists used: %d (scanned %d, skipped %d empty, %d old)\n\n",
		setlist.Stats.Used, setlist.Stats.Scanned, setlist.Stats.SkippedEmpty, setlist.Stats.SkippedOld)

	if setlist.Empty() {
		r.writePlain("No recent setlists with songs found.\n")
		return nil
	}

	for _, source := range setlist.Sources {
		r.writePlain("• %s at %s (%d songs)\n", source.EventDate, source.Venue, source.SongCount)
	}
	r.writePlain("\n")

	for i, song := range setlist.Songs {
		r.writePlain("%d. %s\n", i+1, song)
	}

	return nil
}
