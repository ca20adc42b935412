// Package tasks expands a set of seed tracks into a playlist with
// real-time progress reporting.
//
// # Build Phases
//
// [Pipeline.Run] drives the phases in order:
//
//  1. Resolve: every descriptor is searched once by [SeedResolver]. Misses
//     and failed searches are reported but never abort the run.
//  2. Cover: one single-seed recommendation call per seed; the first
//     candidate not seen yet is accepted so each seed contributes.
//  3. Fill: one batched call over all seeds (chunked at five) tops the list
//     up to the maximum length.
//  4. Name: artist genres of accepted tracks are counted by
//     [GenreAggregator] to suggest a playlist name.
//
// When a release-year window is configured, [YearFilter] narrows every
// recommendation batch before the accumulator sees it.
//
// [Pipeline.Publish] creates the playlist and adds tracks in chunks.
//
// # Failures
//
// Batched calls are paced by a [Pacer] and never retried. A failed batch is
// logged, recorded as a [ChunkFailure] and skipped. Only context
// cancellation stops a phase early.
//
// # Progress Reporting
//
// [ProgressUpdate] values are sent with select/default so a slow consumer
// never blocks a build.
package tasks
