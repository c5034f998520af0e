// package services implements clients for the upstream collaborators:
// setlist.fm (artist search, paginated setlist listings) and the Spotify Web
// API (catalog track search).
//
// Each client validates required fields once at the boundary and maps wire
// shapes onto internal/models types, so the pipeline never inspects raw JSON.
// Upstream failures are returned as errors; deciding whether a failure is
// fatal or degrades to an empty result is the caller's business.
package services
