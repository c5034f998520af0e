// package cache implements the two-tier TTL cache backing the pipeline.
//
// The fast tier is an in-process map, cleared on restart. The durable tier is
// a directory of JSON records keyed by a content hash of the logical key, so
// keys of arbitrary length and charset map to fixed-length filenames. Reads
// check memory first and promote durable hits. Expiry is lazy: checked on
// read, never swept.
//
// Durable writes are fire-and-forget. A failed disk write degrades the cache
// to memory-only behavior for that entry without surfacing an error.
package cache
