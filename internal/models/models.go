package models

import "time"

// ResolvedArtist maps a free-text artist name to a canonical upstream identity.
type ResolvedArtist struct {
	Name        string `json:"name"`
	CanonicalID string `json:"canonical_id"`
}

// ArtistResolution is the outcome of resolving a free-text artist name.
//
// Best is nil when no usable candidate was found. NeedsChoice signals that the
// pick was heuristic (no exact name match, multiple candidates) and a caller
// with a user in the loop may want to present Candidates instead.
type ArtistResolution struct {
	Best        *ResolvedArtist  `json:"best,omitempty"`
	NeedsChoice bool             `json:"needs_choice"`
	Candidates  []ResolvedArtist `json:"candidates"`
}

// Performance is one live event as reported by the performance-listing
// upstream. Immutable once fetched.
type Performance struct {
	ID        string   `json:"id"`
	EventDate string   `json:"event_date"` // day-month-year, e.g. "27-07-2025"
	VenueName string   `json:"venue_name"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	SongNames []string `json:"song_names"`
}

// PerformancePage is one page of the paginated performance listing.
type PerformancePage struct {
	Performances []Performance `json:"performances"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	ItemsPerPage int           `json:"items_per_page"`
}

// SetlistSource records the provenance of one qualifying performance that
// contributed songs to an aggregated setlist.
type SetlistSource struct {
	ID        string `json:"id"`
	EventDate string `json:"event_date"`
	Venue     string `json:"venue"`
	Country   string `json:"country"`
	SongCount int    `json:"song_count"`
}

// SetlistStats tallies what the aggregator visited and why performances were
// skipped.
type SetlistStats struct {
	Scanned      int `json:"scanned"`
	Used         int `json:"used"`
	SkippedEmpty int `json:"skipped_empty"`
	SkippedOld   int `json:"skipped_old"`
}

// AggregatedSetlist is the deduplicated union of songs across an artist's
// recent qualifying performances. Songs preserve first-seen order.
type AggregatedSetlist struct {
	Artist  ResolvedArtist  `json:"artist"`
	Sources []SetlistSource `json:"sources"`
	Songs   []string        `json:"songs"`
	Stats   SetlistStats    `json:"stats"`
}

// Empty reports whether aggregation found no qualifying songs. An empty
// setlist is a valid result, not an error; it triggers the popular-tracks
// fallback path.
func (a *AggregatedSetlist) Empty() bool {
	return len(a.Songs) == 0
}

// MatchMode distinguishes how a catalog track was matched.
type MatchMode string

const (
	MatchStrict   MatchMode = "strict"
	MatchFallback MatchMode = "fallback"
)

// TrackSource distinguishes where a resolved track came from.
type TrackSource string

const (
	SourceSetlist TrackSource = "setlist"
	SourcePopular TrackSource = "popular"
)

// TrackSummary is one catalog search hit in upstream order, unscored.
type TrackSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	URI        string   `json:"uri"`
	URL        string   `json:"url"`
	DurationMS int      `json:"duration_ms"`
	Popularity int      `json:"popularity"`
}

// ResolvedTrack is a catalog track matched to a setlist song (or pulled from
// the popular-tracks fallback). Confidence is 1.0 for strict matches and the
// computed score for fallback matches, capped at 1.0.
type ResolvedTrack struct {
	Artist     string      `json:"artist"`
	Title      string      `json:"title"`
	CatalogID  string      `json:"catalog_id"`
	URI        string      `json:"uri"`
	URL        string      `json:"url"`
	DurationMS int         `json:"duration_ms"`
	MatchMode  MatchMode   `json:"match_mode"`
	Confidence float64     `json:"confidence"`
	Source     TrackSource `json:"source"`
}

// MissingTrack records a setlist song that could not be resolved to a catalog
// track. Kept for diagnostics and for retry.
type MissingTrack struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// ArtistPlaylistGroup is the per-artist slice of a generation run: the
// resolved tracks in setlist order (or upstream order for popular fallback)
// plus provenance.
type ArtistPlaylistGroup struct {
	Artist            ResolvedArtist  `json:"artist"`
	Tracks            []ResolvedTrack `json:"tracks"`
	OriginalSongCount int             `json:"original_song_count"`
	Sources           []SetlistSource `json:"sources,omitempty"`
	FromPopular       bool            `json:"from_popular"`
}

// RunStatus is the overall outcome of a generation run, derived purely from
// matched/missing counts.
type RunStatus string

const (
	StatusSuccess RunStatus = "success"
	StatusPartial RunStatus = "partial"
	StatusError   RunStatus = "error"
)

// GenerationStats aggregates match counts across all artists in a run.
type GenerationStats struct {
	TotalSongs int `json:"total_songs"`
	Matched    int `json:"matched"`
	Missing    int `json:"missing"`
}

// GenerationResult is the full outcome of one generation run across the
// requested artists, in caller-supplied artist order.
type GenerationResult struct {
	ID              string                `json:"id"`
	CreatedAt       time.Time             `json:"created_at"`
	Artists         []string              `json:"artists"`
	Groups          []ArtistPlaylistGroup `json:"groups"`
	Missing         []MissingTrack        `json:"missing"`
	MissingSetlists []string              `json:"missing_setlists"`
	Stats           GenerationStats       `json:"stats"`
	Status          RunStatus             `json:"status"`
}

// StatusFor derives the run status from match counts: all matched → success,
// none matched → error, otherwise partial. A run with nothing to match counts
// as an error.
func StatusFor(stats GenerationStats) RunStatus {
	switch {
	case stats.Matched > 0 && stats.Missing == 0:
		return StatusSuccess
	case stats.Matched > 0:
		return StatusPartial
	default:
		return StatusError
	}
}
