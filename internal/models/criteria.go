package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Wire names of the recommendation parameters and the local year bounds.
const (
	KeyTargetValence      = "target_valence"
	KeyTargetPopularity   = "target_popularity"
	KeyMinTempo           = "min_tempo"
	KeyMaxTempo           = "max_tempo"
	KeyTargetEnergy       = "target_energy"
	KeyTargetDanceability = "target_danceability"
	KeyMinReleaseYear     = "min_release_year"
	KeyMaxReleaseYear     = "max_release_year"
)

var ErrInvalidCriterion = errors.New("invalid criterion")

// Criteria holds the optional recommendation constraints. A nil field is absent.
//
// The year bounds are never sent to the catalog; they drive the local
// release-year filter.
type Criteria struct {
	TargetValence      *float64
	TargetPopularity   *int
	MinTempo           *float64
	MaxTempo           *float64
	TargetEnergy       *float64
	TargetDanceability *float64
	MinReleaseYear     *int
	MaxReleaseYear     *int
}

// CriteriaField describes one criterion for prompting and flag help.
type CriteriaField struct {
	Key   string
	Label string
}

// CriteriaFields lists every criterion in prompt order.
var CriteriaFields = []CriteriaField{
	{KeyTargetValence, "Target valence (0.0 to 1.0)"},
	{KeyTargetPopularity, "Target popularity (0 to 100)"},
	{KeyMinTempo, "Minimum tempo (BPM)"},
	{KeyMaxTempo, "Maximum tempo (BPM)"},
	{KeyTargetEnergy, "Target energy (0.0 to 1.0)"},
	{KeyTargetDanceability, "Target danceability (0.0 to 1.0)"},
	{KeyMinReleaseYear, "Minimum release year"},
	{KeyMaxReleaseYear, "Maximum release year"},
}

// Params maps each present recommendation field to its wire value.
func (c Criteria) Params() map[string]string {
	p := make(map[string]string)
	putFloat := func(key string, v *float64) {
		if v != nil {
			p[key] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}
	putFloat(KeyTargetValence, c.TargetValence)
	if c.TargetPopularity != nil {
		p[KeyTargetPopularity] = strconv.Itoa(*c.TargetPopularity)
	}
	putFloat(KeyMinTempo, c.MinTempo)
	putFloat(KeyMaxTempo, c.MaxTempo)
	putFloat(KeyTargetEnergy, c.TargetEnergy)
	putFloat(KeyTargetDanceability, c.TargetDanceability)
	return p
}

// HasYearWindow reports whether either release-year bound is set.
func (c Criteria) HasYearWindow() bool {
	return c.MinReleaseYear != nil || c.MaxReleaseYear != nil
}

// CriteriaBuilder validates raw criterion values. Invalid values are dropped
// and recorded as problems; the remaining values still apply.
type CriteriaBuilder struct {
	c        Criteria
	problems []error
}

func NewCriteriaBuilder() *CriteriaBuilder {
	return &CriteriaBuilder{}
}

// Set parses raw for the criterion named key. Blank input leaves the field absent.
func (b *CriteriaBuilder) Set(key, raw string) *CriteriaBuilder {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return b
	}

	var err error
	switch key {
	case KeyTargetValence:
		b.c.TargetValence, err = parseUnit(raw)
	case KeyTargetEnergy:
		b.c.TargetEnergy, err = parseUnit(raw)
	case KeyTargetDanceability:
		b.c.TargetDanceability, err = parseUnit(raw)
	case KeyTargetPopularity:
		b.c.TargetPopularity, err = parseIntRange(raw, 0, 100)
	case KeyMinTempo:
		b.c.MinTempo, err = parseFloat(raw)
	case KeyMaxTempo:
		b.c.MaxTempo, err = parseFloat(raw)
	case KeyMinReleaseYear:
		b.c.MinReleaseYear, err = parseIntRange(raw, 1, 9999)
	case KeyMaxReleaseYear:
		b.c.MaxReleaseYear, err = parseIntRange(raw, 1, 9999)
	default:
		err = fmt.Errorf("unknown criterion")
	}
	if err != nil {
		b.problems = append(b.problems, fmt.Errorf("%w: %s=%q: %v", ErrInvalidCriterion, key, raw, err))
	}
	return b
}

// Build returns the validated criteria and every dropped value.
// A minimum year above the maximum drops both bounds.
func (b *CriteriaBuilder) Build() (Criteria, []error) {
	c := b.c
	problems := b.problems
	if c.MinReleaseYear != nil && c.MaxReleaseYear != nil && *c.MinReleaseYear > *c.MaxReleaseYear {
		problems = append(problems, fmt.Errorf("%w: %s %d is after %s %d", ErrInvalidCriterion,
			KeyMinReleaseYear, *c.MinReleaseYear, KeyMaxReleaseYear, *c.MaxReleaseYear))
		c.MinReleaseYear, c.MaxReleaseYear = nil, nil
	}
	return c, problems
}

func parseFloat(raw string) (*float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("not a number")
	}
	return &f, nil
}

func parseUnit(raw string) (*float64, error) {
	f, err := parseFloat(raw)
	if err != nil {
		return nil, err
	}
	if *f < 0 || *f > 1 {
		return nil, fmt.Errorf("must be between 0.0 and 1.0")
	}
	return f, nil
}

func parseIntRange(raw string, lo, hi int) (*int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("not an integer")
	}
	if n < lo || n > hi {
		return nil, fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return &n, nil
}
