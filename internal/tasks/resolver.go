package tasks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/encore/internal/cache"
	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/services"
)

const (
	// ArtistCachePrefix is the cache key namespace for artist resolutions.
	ArtistCachePrefix = "artist:resolve:"

	// Artist identity upstream is stable, so resolutions keep for days.
	artistCacheTTL = 7 * 24 * time.Hour

	maxArtistCandidates = 10
)

// ArtistResolver maps a free-text artist name to a canonical upstream
// identity, with an ambiguity signal when the pick was heuristic.
type ArtistResolver struct {
	search services.ArtistSearcher
	cache  *cache.Cache
	logger *log.Logger
}

// NewArtistResolver creates an ArtistResolver backed by the given search
// collaborator and cache instance.
func NewArtistResolver(search services.ArtistSearcher, c *cache.Cache, logger *log.Logger) *ArtistResolver {
	return &ArtistResolver{search: search, cache: c, logger: logger}
}

// Resolve normalizes name, queries the artist-search upstream, and picks the
// best candidate: an exact case-insensitive name match wins outright; failing
// that, the shortest name wins (shorter names are less likely to be
// tribute/cover-band variants) and NeedsChoice is set whenever the pick was
// ambiguous. Upstream failures surface as errors and are never cached.
func (r *ArtistResolver) Resolve(ctx context.Context, name string) (*models.ArtistResolution, error) {
	trimmed := strings.TrimSpace(name)
	key := ArtistCachePrefix + strings.ToLower(trimmed)

	if resolution, source, ok := cache.GetAs[models.ArtistResolution](r.cache, key); ok {
		r.logger.Debug("artist resolution cache hit", "name", trimmed, "source", source)
		return &resolution, nil
	}

	candidates, err := r.search.SearchArtists(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	if len(candidates) > maxArtistCandidates {
		candidates = candidates[:maxArtistCandidates]
	}

	resolution := pickArtist(trimmed, candidates)

	if err := r.cache.Set(key, resolution, artistCacheTTL); err != nil {
		r.logger.Warn("failed to cache artist resolution", "name", trimmed, "err", err)
	}

	return &resolution, nil
}

// pickArtist applies the selection heuristic over candidates already filtered
// to those carrying a canonical identifier.
func pickArtist(name string, candidates []models.ResolvedArtist) models.ArtistResolution {
	resolution := models.ArtistResolution{Candidates: candidates}

	if len(candidates) == 0 {
		return resolution
	}

	for i := range candidates {
		if strings.EqualFold(candidates[i].Name, name) {
			resolution.Best = &candidates[i]
			return resolution
		}
	}

	sort.SliceStable(resolution.Candidates, func(i, j int) bool {
		return len(resolution.Candidates[i].Name) < len(resolution.Candidates[j].Name)
	})

	resolution.Best = &resolution.Candidates[0]
	resolution.NeedsChoice = len(resolution.Candidates) > 1

	return resolution
}
