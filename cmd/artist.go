package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// ArtistResolve resolves a free-text artist name and prints the pick with candidates.
func (r *Runner) ArtistResolve(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name is required", shared.ErrMissingArgument)
	}

	if r.artists == nil {
		return fmt.Errorf("%w: setlist.fm client not configured", shared.ErrServiceUnavailable)
	}

	r.logger.Info("resolving artist", "name", name)

	resolution, err := r.artists.Resolve(ctx, name)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(resolution, true)
	}

	if resolution.Best == nil {
		r.writePlain("No artist found for %q\n", name)
		return nil
	}

	r.writePlain("%s (%s)\n", resolution.Best.Name, resolution.Best.CanonicalID)

	if resolution.NeedsChoice {
		r.writePlain("\nAmbiguous match; other candidates:\n")
		for _, candidate := range resolution.Candidates {
			if candidate.CanonicalID == resolution.Best.CanonicalID {
				continue
			}
			r.writePlain("  - %s (%s)\n", candidate.Name, candidate.CanonicalID)
		}
	}

	return nil
}
