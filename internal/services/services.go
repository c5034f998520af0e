package services

import (
	"context"

	"github.com/desertthunder/encore/internal/models"
)

// ArtistSearcher is the artist-search collaborator: free-text name in,
// ordered candidates with canonical identifiers out. Candidates without a
// canonical identifier are filtered before return.
type ArtistSearcher interface {
	SearchArtists(ctx context.Context, name string) ([]models.ResolvedArtist, error)
}

// SetlistFetcher is the performance-listing collaborator. Pages are numbered
// from 1; pagination metadata travels with each page.
type SetlistFetcher interface {
	ArtistSetlists(ctx context.Context, artistID string, page int) (*models.PerformancePage, error)
}

// CatalogSearcher is the catalog-search collaborator: a structured query
// string (track:, artist:, or free text) and a result limit in, track
// summaries in upstream order out.
type CatalogSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]models.TrackSummary, error)
}
