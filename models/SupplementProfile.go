package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Kinetics types supported by the concentration model.
const (
	KineticsFirstOrder      = "first_order"
	KineticsMichaelisMenten = "michaelis_menten"
)

// Optimal time-of-day buckets for dosing.
const (
	TimeMorning   = "morning"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
	TimeBedtime   = "bedtime"
	TimeWithMeals = "with_meals"
	TimeAny       = "any"
)

// SupplementProfile is the immutable catalog record describing one compound:
// its pharmacokinetics, elemental composition, and safety/timing metadata.
// Rows are created and updated by the catalog importer, never by the engine.
type SupplementProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"uniqueIndex;not null" json:"name"`

	// Pharmacokinetics. Vmax and Km are only meaningful for
	// michaelis_menten kinetics and stay nil otherwise.
	PeakMinutes     float64  `gorm:"not null;default:60" json:"peak_minutes"`
	HalfLifeMinutes float64  `gorm:"not null;default:240" json:"half_life_minutes"`
	KineticsType    string   `gorm:"type:varchar(32);not null;default:first_order" json:"kinetics_type"`
	Vmax            *float64 `json:"vmax,omitempty"`
	Km              *float64 `json:"km,omitempty"`

	RDAAmount              *float64 `json:"rda_amount,omitempty"`
	ElementalWeightPercent *float64 `json:"elemental_weight_percent,omitempty"`
	BioavailabilityPercent *float64 `json:"bioavailability_percent,omitempty"`

	SafetyCategory     *string `gorm:"index" json:"safety_category,omitempty"`
	OptimalTimeOfDay   string  `gorm:"type:varchar(16);not null;default:any" json:"optimal_time_of_day"`
	CommonGoals        datatypes.JSON `json:"common_goals,omitempty"`
	TimingRationaleKey *string `json:"timing_rationale_key,omitempty"`

	// Research chemicals have no established limits and bypass the
	// safety engine entirely.
	IsResearchChemical bool `gorm:"not null;default:false" json:"is_research_chemical"`
}

func (s *SupplementProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// ElementalFraction returns the elemental weight as a 0..1 fraction,
// defaulting to 1 (pure form) when the profile does not specify one.
func (s *SupplementProfile) ElementalFraction() float64 {
	if s.ElementalWeightPercent == nil || *s.ElementalWeightPercent <= 0 {
		return 1
	}
	return *s.ElementalWeightPercent / 100
}

// Goals decodes the CommonGoals JSON column into a slice of goal tags.
func (s *SupplementProfile) Goals() []string {
	if len(s.CommonGoals) == 0 {
		return nil
	}
	var goals []string
	if err := json.Unmarshal(s.CommonGoals, &goals); err != nil {
		return nil
	}
	return goals
}

// HasGoalOverlap reports whether the profile shares at least one goal tag
// with the provided set. An empty user set never filters.
func (s *SupplementProfile) HasGoalOverlap(userGoals []string) bool {
	if len(userGoals) == 0 {
		return true
	}
	for _, goal := range s.Goals() {
		for _, userGoal := range userGoals {
			if strings.EqualFold(goal, userGoal) {
				return true
			}
		}
	}
	return false
}
