package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/encore/internal/cache"
	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/services"
	"github.com/desertthunder/encore/internal/shared"
)

const (
	// TrackCachePrefix is the cache key namespace for resolved tracks.
	TrackCachePrefix = "track:resolve:"

	// SearchCachePrefix is the cache key namespace for free-query searches.
	SearchCachePrefix = "track:search:"

	// Catalog identity for a given title/artist is stable, so resolved
	// tracks keep for a month.
	trackCacheTTL = 30 * 24 * time.Hour

	strictSearchLimit   = 5
	fallbackSearchLimit = 10

	// A fallback candidate must score strictly above this to be accepted.
	fallbackThreshold = 0.5

	noisePenalty    = 0.4
	popularityBonus = 0.1
)

// noiseTerms mark titles that are probably not the canonical recording.
var noiseTerms = []string{"karaoke", "tribute", "instrumental", "remix", "cover"}

// TrackResolver matches (artist, song title) pairs to canonical catalog
// tracks via a two-phase strict/fallback algorithm, and exposes a pass-through
// free-query search for the popular-tracks path.
type TrackResolver struct {
	catalog services.CatalogSearcher
	cache   *cache.Cache
	logger  *log.Logger
}

// NewTrackResolver creates a TrackResolver backed by the given catalog-search
// collaborator and cache instance.
func NewTrackResolver(catalog services.CatalogSearcher, c *cache.Cache, logger *log.Logger) *TrackResolver {
	return &TrackResolver{catalog: catalog, cache: c, logger: logger}
}

// Resolve matches a song title by an artist to a catalog track.
//
// Phase 1 (strict) searches `track:<title> artist:<artist>` and accepts the
// first candidate whose artist list contains an exact normalized match:
// confidence 1.0. Phase 2 (fallback) searches by title alone and scores
// candidates by title similarity, noise penalty, and a small popularity
// bonus; the top candidate is accepted only above the threshold. A nil,nil
// return means no match, which callers record as missing, not as an error.
func (r *TrackResolver) Resolve(ctx context.Context, artist, title string) (*models.ResolvedTrack, error) {
	key := TrackCachePrefix + shared.NormalizeTrackKey(artist, title)
	if cached, source, ok := cache.GetAs[models.ResolvedTrack](r.cache, key); ok {
		r.logger.Debug("track resolution cache hit", "artist", artist, "title", title, "source", source)
		return &cached, nil
	}

	normArtist := shared.NormalizeName(artist)
	normTitle := shared.NormalizeName(title)

	strictQuery := fmt.Sprintf("track:%s artist:%s", normTitle, normArtist)
	candidates, err := r.catalog.SearchTracks(ctx, strictQuery, strictSearchLimit)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		if !artistListContains(candidate.Artists, normArtist) {
			continue
		}
		track := resolvedFrom(artist, candidate, models.MatchStrict, 1.0)
		r.cacheTrack(key, track)
		return &track, nil
	}

	candidates, err = r.catalog.SearchTracks(ctx, "track:"+normTitle, fallbackSearchLimit)
	if err != nil {
		return nil, err
	}

	var best *models.TrackSummary
	var bestScore float64
	for i := range candidates {
		score := fallbackScore(normTitle, candidates[i])
		// Strict inequality keeps upstream order on ties.
		if best == nil || score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}

	if best == nil || bestScore <= fallbackThreshold {
		return nil, nil
	}

	// The popularity bonus can push an exact title match past 1.0. Ranking
	// uses the raw score; the published confidence stays in [0, 1].
	confidence := bestScore
	if confidence > 1.0 {
		confidence = 1.0
	}

	track := resolvedFrom(artist, *best, models.MatchFallback, confidence)
	r.cacheTrack(key, track)
	return &track, nil
}

// Search is a pass-through free-query catalog search: no scoring, upstream
// order preserved. Used by the popular-tracks fallback path.
func (r *TrackResolver) Search(ctx context.Context, query string, limit int) ([]models.TrackSummary, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	key := fmt.Sprintf("%s%s:%d", SearchCachePrefix, query, limit)
	if cached, source, ok := cache.GetAs[[]models.TrackSummary](r.cache, key); ok {
		r.logger.Debug("track search cache hit", "query", query, "source", source)
		return cached, nil
	}

	summaries, err := r.catalog.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(key, summaries, trackCacheTTL); err != nil {
		r.logger.Warn("failed to cache track search", "query", query, "err", err)
	}

	return summaries, nil
}

func (r *TrackResolver) cacheTrack(key string, track models.ResolvedTrack) {
	if err := r.cache.Set(key, track, trackCacheTTL); err != nil {
		r.logger.Warn("failed to cache resolved track", "key", key, "err", err)
	}
}

func artistListContains(artists []string, normArtist string) bool {
	for _, a := range artists {
		if shared.NormalizeName(a) == normArtist {
			return true
		}
	}
	return false
}

// fallbackScore implements the phase 2 heuristic: 1.0 for an exact normalized
// title match, 0.8 when one title contains the other, else 0; minus a flat
// penalty when the candidate title carries a noise term; plus up to 0.1 of
// popularity as a tie-breaker.
func fallbackScore(normQuery string, candidate models.TrackSummary) float64 {
	candTitle := shared.NormalizeName(candidate.Name)

	var score float64
	switch {
	case candTitle == normQuery:
		score = 1.0
	case strings.Contains(candTitle, normQuery) || strings.Contains(normQuery, candTitle):
		score = 0.8
	}

	// Noise terms are checked against the raw title: normalization strips
	// parentheticals, which is exactly where "(Karaoke Version)" lives.
	rawTitle := strings.ToLower(candidate.Name)
	for _, term := range noiseTerms {
		if strings.Contains(rawTitle, term) {
			score -= noisePenalty
			break
		}
	}

	return score + float64(candidate.Popularity)/100*popularityBonus
}

func resolvedFrom(artist string, candidate models.TrackSummary, mode models.MatchMode, confidence float64) models.ResolvedTrack {
	return models.ResolvedTrack{
		Artist:     artist,
		Title:      candidate.Name,
		CatalogID:  candidate.ID,
		URI:        candidate.URI,
		URL:        candidate.URL,
		DurationMS: candidate.DurationMS,
		MatchMode:  mode,
		Confidence: confidence,
		Source:     models.SourceSetlist,
	}
}
