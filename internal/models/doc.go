// package models defines the domain types flowing through the
// setlist-to-playlist pipeline: resolved artists, aggregated setlists,
// resolved catalog tracks, and generation run results.
//
// Upstream wire formats (setlist.fm, Spotify) are mapped onto these types at
// the service boundary; nothing downstream of internal/services inspects raw
// JSON shapes.
package models
