package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/shared"
)

const popularTargetCount = 10

// Engine sequences the pipeline per requested artist: resolve identity,
// aggregate recent setlists, resolve tracks (or fall back to popular tracks),
// then merge everything into one GenerationResult. Artists are processed
// sequentially in input order; a failure for one song or one artist never
// aborts the run.
type Engine struct {
	artists  *ArtistResolver
	setlists *SetlistAggregator
	tracks   *TrackResolver
	logger   *log.Logger

	state RunState
}

// NewEngine creates an Engine over the three pipeline components.
func NewEngine(artists *ArtistResolver, setlists *SetlistAggregator, tracks *TrackResolver, logger *log.Logger) *Engine {
	return &Engine{
		artists:  artists,
		setlists: setlists,
		tracks:   tracks,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the engine's current run state.
func (e *Engine) State() RunState {
	return e.state
}

func (e *Engine) transition(to RunState) {
	if !CanTransition(e.state, to) {
		e.logger.Warn("illegal run state transition", "from", e.state.String(), "to", to.String())
	}
	e.state = to
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Generate runs the full pipeline for the requested artists. limit bounds the
// number of qualifying performances aggregated per artist (1..5). Partial
// results are the norm: unresolvable artists land in MissingSetlists,
// unresolvable songs in Missing, and the run status is derived purely from
// the matched/missing counts.
func (e *Engine) Generate(ctx context.Context, names []string, limit int, progress chan<- ProgressUpdate) (*models.GenerationResult, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no artists requested", shared.ErrMissingArgument)
	}

	result := &models.GenerationResult{
		ID:              shared.GenerateID(),
		CreatedAt:       time.Now(),
		Artists:         names,
		Groups:          []models.ArtistPlaylistGroup{},
		Missing:         []models.MissingTrack{},
		MissingSetlists: []string{},
	}

	// Global dedup by catalog id: first occurrence wins across the run.
	seen := make(map[string]struct{})

	for i, name := range names {
		e.transition(StateResolvingArtist)
		e.sendProgress(progress, resolvingArtistUpdate(i+1, len(names), name))

		resolution, err := e.artists.Resolve(ctx, name)
		if err != nil || resolution.Best == nil {
			if err != nil {
				e.logger.Warn("artist resolution failed", "artist", name, "err", err)
			}
			result.MissingSetlists = append(result.MissingSetlists, name)
			continue
		}
		artist := *resolution.Best

		e.transition(StateAggregating)
		e.sendProgress(progress, aggregatingUpdate(artist))

		setlist, err := e.setlists.Aggregate(ctx, artist, limit)
		if err != nil {
			e.logger.Warn("setlist aggregation failed", "artist", artist.Name, "err", err)
			result.MissingSetlists = append(result.MissingSetlists, name)
			continue
		}
		e.sendProgress(progress, aggregatedUpdate(setlist))

		group := models.ArtistPlaylistGroup{
			Artist:            artist,
			Tracks:            []models.ResolvedTrack{},
			OriginalSongCount: len(setlist.Songs),
			Sources:           setlist.Sources,
		}

		if setlist.Empty() {
			e.transition(StateFallbackSearch)
			e.sendProgress(progress, fallbackSearchUpdate(artist.Name))

			popular, err := e.popularTracks(ctx, artist)
			if err != nil {
				e.logger.Warn("popular tracks fallback failed", "artist", artist.Name, "err", err)
			}

			group.FromPopular = true
			for _, track := range popular {
				if _, dup := seen[track.CatalogID]; dup {
					continue
				}
				seen[track.CatalogID] = struct{}{}
				group.Tracks = append(group.Tracks, track)
				result.Stats.Matched++
			}
		} else {
			e.transition(StateResolvingTracks)

			for j, song := range setlist.Songs {
				e.sendProgress(progress, resolvingTrackUpdate(j+1, len(setlist.Songs), artist.Name, song))
				result.Stats.TotalSongs++

				track, err := e.tracks.Resolve(ctx, artist.Name, song)
				if err != nil {
					e.logger.Warn("track resolution failed", "artist", artist.Name, "title", song, "err", err)
					track = nil
				}
				if track == nil {
					result.Missing = append(result.Missing, models.MissingTrack{Artist: artist.Name, Title: song})
					continue
				}

				if _, dup := seen[track.CatalogID]; dup {
					continue
				}
				seen[track.CatalogID] = struct{}{}
				group.Tracks = append(group.Tracks, *track)
				result.Stats.Matched++
			}
		}

		e.transition(StateMerged)
		e.sendProgress(progress, mergedUpdate(group))
		result.Groups = append(result.Groups, group)
	}

	e.transition(StateIdle)

	result.Stats.Missing = len(result.Missing)
	result.Status = models.StatusFor(result.Stats)

	return result, nil
}

// popularTracks implements the fallback path for artists with no recent
// setlists: a quoted free search restricted to the artist (unquoted retry if
// empty), filtered to candidates whose artist name overlaps the target, then
// widened to a larger limit when too few survive.
func (e *Engine) popularTracks(ctx context.Context, artist models.ResolvedArtist) ([]models.ResolvedTrack, error) {
	query := fmt.Sprintf("artist:%q", artist.Name)
	summaries, err := e.tracks.Search(ctx, query, fallbackSearchLimit)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		query = "artist:" + artist.Name
		if summaries, err = e.tracks.Search(ctx, query, fallbackSearchLimit); err != nil {
			return nil, err
		}
	}

	matches := filterByArtist(summaries, artist.Name)

	if len(matches) < popularTargetCount {
		// Widen the query that actually produced results. Re-issuing the
		// quoted form after it came back empty would widen nothing.
		wider, err := e.tracks.Search(ctx, query, 50)
		if err == nil {
			byID := make(map[string]struct{}, len(matches))
			for _, m := range matches {
				byID[m.ID] = struct{}{}
			}
			for _, candidate := range filterByArtist(wider, artist.Name) {
				if _, dup := byID[candidate.ID]; dup {
					continue
				}
				byID[candidate.ID] = struct{}{}
				matches = append(matches, candidate)
			}
		}
	}

	tracks := make([]models.ResolvedTrack, 0, len(matches))
	for _, summary := range matches {
		tracks = append(tracks, models.ResolvedTrack{
			Artist:     artist.Name,
			Title:      summary.Name,
			CatalogID:  summary.ID,
			URI:        summary.URI,
			URL:        summary.URL,
			DurationMS: summary.DurationMS,
			MatchMode:  models.MatchFallback,
			Confidence: float64(summary.Popularity) / 100,
			Source:     models.SourcePopular,
		})
	}

	return tracks, nil
}

// filterByArtist keeps summaries whose artist list overlaps the target name
// by bidirectional substring match on normalized names.
func filterByArtist(summaries []models.TrackSummary, name string) []models.TrackSummary {
	target := shared.NormalizeName(name)

	var matches []models.TrackSummary
	for _, summary := range summaries {
		for _, candidate := range summary.Artists {
			norm := shared.NormalizeName(candidate)
			if strings.Contains(norm, target) || strings.Contains(target, norm) {
				matches = append(matches, summary)
				break
			}
		}
	}
	return matches
}

// Retry re-attempts only the currently-missing tracks and merges any newly
// found ones into a fresh result, recomputing statistics. It never re-runs
// aggregation and never mutates prev: retry is a pure function from (result,
// missing set) to a new result.
func (e *Engine) Retry(ctx context.Context, prev *models.GenerationResult, progress chan<- ProgressUpdate) (*models.GenerationResult, error) {
	next := cloneResult(prev)

	if len(prev.Missing) == 0 {
		return next, nil
	}

	seen := make(map[string]struct{})
	for _, group := range next.Groups {
		for _, track := range group.Tracks {
			seen[track.CatalogID] = struct{}{}
		}
	}

	stillMissing := make([]models.MissingTrack, 0, len(prev.Missing))

	for i, missing := range prev.Missing {
		e.sendProgress(progress, retryUpdate(i+1, len(prev.Missing), missing))

		track, err := e.tracks.Resolve(ctx, missing.Artist, missing.Title)
		if err != nil {
			e.logger.Warn("retry resolution failed", "artist", missing.Artist, "title", missing.Title, "err", err)
			track = nil
		}
		if track == nil {
			stillMissing = append(stillMissing, missing)
			continue
		}

		if _, dup := seen[track.CatalogID]; dup {
			// Already present under another title; no longer missing.
			continue
		}
		seen[track.CatalogID] = struct{}{}

		if appendToGroup(next, missing.Artist, *track) {
			next.Stats.Matched++
		}
	}

	next.Missing = stillMissing
	next.Stats.Missing = len(stillMissing)
	next.Status = models.StatusFor(next.Stats)

	return next, nil
}

// appendToGroup adds track to the group whose artist matches name. Missing
// tracks always originate from an existing group.
func appendToGroup(result *models.GenerationResult, name string, track models.ResolvedTrack) bool {
	for i := range result.Groups {
		if result.Groups[i].Artist.Name == name {
			result.Groups[i].Tracks = append(result.Groups[i].Tracks, track)
			return true
		}
	}
	return false
}

// cloneResult deep-copies the slices the retry path appends to, so the
// previous result stays intact.
func cloneResult(prev *models.GenerationResult) *models.GenerationResult {
	next := *prev

	next.Groups = make([]models.ArtistPlaylistGroup, len(prev.Groups))
	for i, group := range prev.Groups {
		copied := group
		copied.Tracks = append([]models.ResolvedTrack(nil), group.Tracks...)
		copied.Sources = append([]models.SetlistSource(nil), group.Sources...)
		next.Groups[i] = copied
	}

	next.Missing = append([]models.MissingTrack(nil), prev.Missing...)
	next.MissingSetlists = append([]string(nil), prev.MissingSetlists...)
	next.Artists = append([]string(nil), prev.Artists...)

	return &next
}
