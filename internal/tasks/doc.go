// package tasks implements the resolution and aggregation pipeline.
//
// The core abstraction is Engine, which sequences artist resolution, setlist
// aggregation, and track resolution per requested artist, merging the results
// into a GenerationResult. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
//
// ArtistResolver, SetlistAggregator, and TrackResolver each consult the shared
// tiered cache under their own key namespace and TTL. Upstream failures
// degrade to empty results at the smallest possible scope; a failed page or
// song never aborts a run.
package tasks
