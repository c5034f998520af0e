// Package repositories implements SQLite persistence for generation run history.
//
// Runs are stored relationally: one row per run, one row per resolved track,
// and one row per still-missing song. [RunRepository] reconstructs a
// [models.GenerationResult] from those rows on read, so past runs can be
// re-exported or retried after a restart.
package repositories
