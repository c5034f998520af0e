package tasks

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/encore/internal/cache"
	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/shared"
)

func testLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func testCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return c
}

// fakeArtistSearch is a test double for [services.ArtistSearcher].
type fakeArtistSearch struct {
	candidates []models.ResolvedArtist
	err        error
	calls      int
}

func (f *fakeArtistSearch) SearchArtists(ctx context.Context, name string) ([]models.ResolvedArtist, error) {
	f.calls++
	return f.candidates, f.err
}

// fakeSetlists is a test double for [services.SetlistFetcher]. Pages absent
// from the map come back empty.
type fakeSetlists struct {
	pages    map[int]*models.PerformancePage
	pageErrs map[int]error
	calls    []int
}

func (f *fakeSetlists) ArtistSetlists(ctx context.Context, artistID string, page int) (*models.PerformancePage, error) {
	f.calls = append(f.calls, page)
	if err := f.pageErrs[page]; err != nil {
		return nil, err
	}
	if pg, ok := f.pages[page]; ok {
		return pg, nil
	}
	return &models.PerformancePage{Page: page}, nil
}

// fakeCatalog is a test double for [services.CatalogSearcher], keyed by the
// exact query string.
type fakeCatalog struct {
	responses map[string][]models.TrackSummary
	err       error
	queries   []string
}

func (f *fakeCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.TrackSummary, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[query], nil
}

func summary(id, name string, popularity int, artists ...string) models.TrackSummary {
	return models.TrackSummary{
		ID:         id,
		Name:       name,
		Artists:    artists,
		URI:        "spotify:track:" + id,
		URL:        "https://open.spotify.com/track/" + id,
		DurationMS: 200000,
		Popularity: popularity,
	}
}
