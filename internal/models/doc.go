// Package models defines the data passed between the seedify pipeline stages.
//
// Extraction produces [Descriptor] values. Resolution pairs each with a catalog
// track ID in a [SeedResolution]. Recommendation produces [Candidate] values,
// optionally narrowed by a [Criteria] built through [CriteriaBuilder]. A [Run]
// records the outcome of one build for the history table.
package models
