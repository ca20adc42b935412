// Package repositories implements SQLite persistence for build state.
//
// Key Implementations:
//   - [SeedRepository] : resolved seed cache keyed by normalized "title|artist"
//   - [RunRepository] : build history with the accepted tracks of each run
//
// Sequence numbers provide stable, human-readable ordering (run #1, #2, ...) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
