package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// TrackResolve matches a single song title by an artist to a catalog track.
func (r *Runner) TrackResolve(ctx context.Context, cmd *cli.Command) error {
	artist := cmd.String("artist")
	title := cmd.String("title")

	if err := r.requireTracks(ctx); err != nil {
		return err
	}

	r.logger.Info("resolving track", "artist", artist, "title", title)

	track, err := r.tracks.Resolve(ctx, artist, title)
	if err != nil {
		return err
	}

	if track == nil {
		if cmd.Bool("json") {
			return r.writeJSON(nil, false)
		}
		r.writePlain("No match for %s - %s\n", artist, title)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, true)
	}

	r.writePlain("%s - %s\n", track.Artist, track.Title)
	r.writePlain("  %s (%s match, confidence %.2f)\n", track.URL, track.MatchMode, track.Confidence)

	return nil
}

// TrackSearch runs a free-query catalog search and prints the hits in upstream order.
func (r *Runner) TrackSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}
	limit := int(cmd.Int("limit"))

	if err := r.requireTracks(ctx); err != nil {
		return err
	}

	summaries, err := r.tracks.Search(ctx, query, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summaries, true)
	}

	if len(summaries) == 0 {
		r.writePlain("No results for %q\n", query)
		return nil
	}

	for i, summary := range summaries {
		r.writePlain("%d. %s - %s [%s] (popularity %d)\n",
			i+1, strings.Join(summary.Artists, ", "), summary.Name,
			shared.FormatDuration(summary.DurationMS), summary.Popularity)
	}

	return nil
}
