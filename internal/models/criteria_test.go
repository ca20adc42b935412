package models

import (
	"errors"
	"testing"
)

func TestCriteriaBuilder(t *testing.T) {
	t.Run("valid values", func(t *testing.T) {
		c, problems := NewCriteriaBuilder().
			Set(KeyTargetValence, "0.8").
			Set(KeyTargetPopularity, "60").
			Set(KeyMinTempo, "90").
			Set(KeyMaxTempo, "140.5").
			Set(KeyTargetEnergy, "1").
			Set(KeyTargetDanceability, "0").
			Set(KeyMinReleaseYear, "2015").
			Set(KeyMaxReleaseYear, "2020").
			Build()

		if len(problems) != 0 {
			t.Fatalf("unexpected problems %v", problems)
		}
		if *c.TargetValence != 0.8 || *c.TargetPopularity != 60 || *c.MaxTempo != 140.5 {
			t.Errorf("unexpected criteria %+v", c)
		}
		if !c.HasYearWindow() {
			t.Error("expected year window")
		}
	})

	t.Run("blank values are absent", func(t *testing.T) {
		c, problems := NewCriteriaBuilder().Set(KeyTargetValence, "  ").Build()
		if len(problems) != 0 || c.TargetValence != nil {
			t.Errorf("expected absent field, got %+v %v", c, problems)
		}
		if len(c.Params()) != 0 {
			t.Errorf("expected no params, got %v", c.Params())
		}
	})

	t.Run("invalid values are dropped and the rest applies", func(t *testing.T) {
		tests := []struct {
			key string
			raw string
		}{
			{KeyTargetValence, "1.5"},
			{KeyTargetEnergy, "-0.1"},
			{KeyTargetDanceability, "lots"},
			{KeyTargetPopularity, "101"},
			{KeyTargetPopularity, "50.5"},
			{KeyMinTempo, "NaN"},
			{KeyMinReleaseYear, "twenty"},
			{KeyMaxReleaseYear, "0"},
			{"target_mood", "1"},
		}

		for _, tt := range tests {
			t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
				c, problems := NewCriteriaBuilder().
					Set(KeyMaxTempo, "120").
					Set(tt.key, tt.raw).
					Build()

				if len(problems) != 1 || !errors.Is(problems[0], ErrInvalidCriterion) {
					t.Fatalf("expected one ErrInvalidCriterion, got %v", problems)
				}
				params := c.Params()
				if len(params) != 1 || params[KeyMaxTempo] != "120" {
					t.Errorf("expected only max_tempo to survive, got %v", params)
				}
			})
		}
	})

	t.Run("year zero leaves the filter off", func(t *testing.T) {
		c, _ := NewCriteriaBuilder().Set(KeyMinReleaseYear, "0").Build()
		if c.HasYearWindow() {
			t.Error("expected no year window for year 0")
		}
	})

	t.Run("inverted year window drops both bounds", func(t *testing.T) {
		c, problems := NewCriteriaBuilder().
			Set(KeyMinReleaseYear, "2021").
			Set(KeyMaxReleaseYear, "2015").
			Build()

		if len(problems) != 1 {
			t.Fatalf("expected one problem, got %v", problems)
		}
		if c.HasYearWindow() {
			t.Error("expected year window to be cleared")
		}
	})
}

func TestCriteriaParams(t *testing.T) {
	valence, popularity, year := 0.25, 40, 2000
	c := Criteria{TargetValence: &valence, TargetPopularity: &popularity, MinReleaseYear: &year}

	params := c.Params()
	want := map[string]string{KeyTargetValence: "0.25", KeyTargetPopularity: "40"}
	if len(params) != len(want) {
		t.Fatalf("expected %d params, got %v", len(want), params)
	}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("params[%s] = %q, want %q", k, params[k], v)
		}
	}
	if _, ok := params[KeyMinReleaseYear]; ok {
		t.Error("year bounds must not be sent as recommendation params")
	}
}

func TestCriteriaFields(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range CriteriaFields {
		if seen[f.Key] {
			t.Errorf("duplicate field %s", f.Key)
		}
		seen[f.Key] = true
		if _, problems := NewCriteriaBuilder().Set(f.Key, "0").Build(); len(problems) != 0 {
			t.Errorf("field %s rejected a valid zero value: %v", f.Key, problems)
		}
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 fields, got %d", len(seen))
	}
}
