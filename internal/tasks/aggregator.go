package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/encore/internal/cache"
	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/services"
	"github.com/desertthunder/encore/internal/shared"
)

const (
	// SetlistCachePrefix is the cache key namespace for aggregated setlists.
	SetlistCachePrefix = "setlist:artist:"

	// Setlists change as new shows occur, so aggregates keep for a day.
	setlistCacheTTL = 24 * time.Hour

	// Safety bound: never walk more than this many pages per artist.
	maxSetlistPages = 5

	maxSetlistLimit = 5

	// setlist.fm formats event dates day-month-year.
	eventDateLayout = "02-01-2006"
)

// songStoplist holds structural markers that are not songs. They are excluded
// from per-performance counts and from the union.
var songStoplist = map[string]struct{}{
	"intro":     {},
	"outro":     {},
	"interlude": {},
	"tape":      {},
	"unknown":   {},
}

// SetlistAggregator unions an artist's recent live performances into one
// deduplicated song list with provenance.
type SetlistAggregator struct {
	setlists services.SetlistFetcher
	cache    *cache.Cache
	logger   *log.Logger

	now func() time.Time // injectable for recency-window tests
}

// NewSetlistAggregator creates a SetlistAggregator backed by the given
// performance-listing collaborator and cache instance.
func NewSetlistAggregator(setlists services.SetlistFetcher, c *cache.Cache, logger *log.Logger) *SetlistAggregator {
	return &SetlistAggregator{setlists: setlists, cache: c, logger: logger, now: time.Now}
}

// Aggregate collects up to limit qualifying performances for the artist,
// paginating from page 1 until the limit, the page bound, an empty page, or
// pagination exhaustion. A performance qualifies when it has at least one
// countable song and its event date falls in the current or previous calendar
// year. Zero qualifying performances yields a well-formed empty result, which
// is the signal for the popular-tracks fallback, not an error.
func (a *SetlistAggregator) Aggregate(ctx context.Context, artist models.ResolvedArtist, limit int) (*models.AggregatedSetlist, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxSetlistLimit {
		limit = maxSetlistLimit
	}

	key := fmt.Sprintf("%s%s:limit:%d", SetlistCachePrefix, artist.CanonicalID, limit)
	if cached, source, ok := cache.GetAs[models.AggregatedSetlist](a.cache, key); ok {
		a.logger.Debug("setlist cache hit", "artist", artist.Name, "source", source)
		return &cached, nil
	}

	result := models.AggregatedSetlist{
		Artist:  artist,
		Sources: []models.SetlistSource{},
		Songs:   []string{},
	}
	seen := make(map[string]struct{})

pagination:
	for page := 1; page <= maxSetlistPages; page++ {
		pg, err := a.setlists.ArtistSetlists(ctx, artist.CanonicalID, page)
		if err != nil {
			// A failed page is non-fatal; work with what we have.
			a.logger.Warn("setlist page fetch failed", "artist", artist.Name, "page", page, "err", err)
			break
		}

		if len(pg.Performances) == 0 {
			break
		}

		for _, perf := range pg.Performances {
			result.Stats.Scanned++

			songs := countableSongs(perf.SongNames)
			if len(songs) == 0 {
				result.Stats.SkippedEmpty++
				continue
			}

			if !a.isRecent(perf.EventDate) {
				result.Stats.SkippedOld++
				continue
			}

			result.Stats.Used++
			result.Sources = append(result.Sources, models.SetlistSource{
				ID:        perf.ID,
				EventDate: perf.EventDate,
				Venue:     perf.VenueName,
				Country:   perf.Country,
				SongCount: len(songs),
			})

			for _, song := range songs {
				dedupeKey := shared.TitleKey(song)
				if _, dup := seen[dedupeKey]; dup {
					continue
				}
				seen[dedupeKey] = struct{}{}
				result.Songs = append(result.Songs, shared.NormalizeTitle(song))
			}

			if result.Stats.Used >= limit {
				break pagination
			}
		}

		if pg.ItemsPerPage > 0 && page*pg.ItemsPerPage >= pg.Total {
			break
		}
	}

	if err := a.cache.Set(key, result, setlistCacheTTL); err != nil {
		a.logger.Warn("failed to cache aggregated setlist", "artist", artist.Name, "err", err)
	}

	return &result, nil
}

// countableSongs filters out empty names and stoplisted structural markers.
func countableSongs(names []string) []string {
	songs := make([]string, 0, len(names))
	for _, name := range names {
		key := shared.TitleKey(name)
		if key == "" {
			continue
		}
		if _, stop := songStoplist[key]; stop {
			continue
		}
		songs = append(songs, name)
	}
	return songs
}

// isRecent reports whether a day-month-year event date falls in the current
// or immediately preceding calendar year. Unparseable dates disqualify the
// performance rather than erroring.
func (a *SetlistAggregator) isRecent(eventDate string) bool {
	parsed, err := time.Parse(eventDateLayout, eventDate)
	if err != nil {
		return false
	}
	return parsed.Year() >= a.now().Year()-1
}
