package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestValidUnit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"milligrams", UnitMG, true},
		{"micrograms", UnitMCG, true},
		{"grams", UnitG, true},
		{"international units", UnitIU, true},
		{"milliliters", UnitML, true},
		{"unknown", "oz", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidUnit(tt.value); got != tt.want {
				t.Fatalf("ValidUnit(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}

func TestElementalFraction(t *testing.T) {
	t.Parallel()

	pct := 21.0
	zinc := SupplementProfile{ElementalWeightPercent: &pct}
	if got := zinc.ElementalFraction(); got != 0.21 {
		t.Fatalf("ElementalFraction() = %v, want 0.21", got)
	}

	pure := SupplementProfile{}
	if got := pure.ElementalFraction(); got != 1 {
		t.Fatalf("ElementalFraction() with no percent = %v, want 1", got)
	}

	negative := -5.0
	broken := SupplementProfile{ElementalWeightPercent: &negative}
	if got := broken.ElementalFraction(); got != 1 {
		t.Fatalf("ElementalFraction() with negative percent = %v, want 1", got)
	}
}

func TestHasGoalOverlap(t *testing.T) {
	t.Parallel()

	profile := SupplementProfile{CommonGoals: datatypes.JSON(`["sleep","recovery"]`)}

	if !profile.HasGoalOverlap(nil) {
		t.Fatal("empty user goals should never filter")
	}
	if !profile.HasGoalOverlap([]string{"focus", "Sleep"}) {
		t.Fatal("expected case-insensitive overlap on sleep")
	}
	if profile.HasGoalOverlap([]string{"focus"}) {
		t.Fatal("expected no overlap for disjoint goals")
	}
}
