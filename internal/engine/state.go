// Package engine is the biological state engine: it converts a history of
// discrete dosing events into continuous concentration curves, cross-checks
// them against interaction, timing, and ratio rules, and reduces the result
// to suggestions and a single bio-score. Every entry point is a pure read:
// fetch reference and history data, compute, return a value.
package engine

import (
	"time"

	"github.com/google/uuid"
)

// Compound phases over the concentration curve.
const (
	PhaseAbsorbing   = "absorbing"
	PhasePeak        = "peak"
	PhaseEliminating = "eliminating"
	PhaseCleared     = "cleared"
)

// Opportunity kinds emitted by the optimization engine.
const (
	OpportunityTiming        = "timing"
	OpportunitySynergy       = "synergy"
	OpportunityActiveSynergy = "active_synergy"
	OpportunityRatio         = "ratio"
)

// ActiveCompound is the request-scoped snapshot of one log entry inside the
// tracking window: how far along its curve it is and at what concentration.
type ActiveCompound struct {
	LogID          uuid.UUID `json:"log_id"`
	SupplementID   uuid.UUID `json:"supplement_id"`
	SupplementName string    `json:"supplement_name"`
	Dosage         float64   `json:"dosage"`
	Unit           string    `json:"unit"`
	LoggedAt       time.Time `json:"logged_at"`
	ElapsedMinutes float64   `json:"elapsed_minutes"`
	Concentration  float64   `json:"concentration"`
	Phase          string    `json:"phase"`
}

// ExclusionZone is an active timing conflict: the target supplement should
// not be taken until EndsAt.
type ExclusionZone struct {
	SourceID         uuid.UUID `json:"source_id"`
	TargetID         uuid.UUID `json:"target_id"`
	SourceName       string    `json:"source_name"`
	TargetName       string    `json:"target_name"`
	Reason           string    `json:"reason"`
	Severity         string    `json:"severity"`
	EndsAt           time.Time `json:"ends_at"`
	MinutesRemaining float64   `json:"minutes_remaining"`
}

// Opportunity is one actionable suggestion. Key is stable across requests so
// clients can dismiss a suggestion idempotently.
type Opportunity struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Detail      string `json:"detail,omitempty"`
	Caution     string `json:"caution,omitempty"`
	Priority    int    `json:"priority"`
	Dismissible bool   `json:"dismissible"`
}

// TimelinePoint is one instant on the discretized concentration chart:
// summed percent-of-peak per supplement name, capped at 150.
type TimelinePoint struct {
	Timestamp time.Time          `json:"timestamp"`
	Levels    map[string]float64 `json:"levels"`
}

// BiologicalState aggregates everything the engine knows about "right now".
type BiologicalState struct {
	GeneratedAt     time.Time        `json:"generated_at"`
	ActiveCompounds []ActiveCompound `json:"active_compounds"`
	ExclusionZones  []ExclusionZone  `json:"exclusion_zones"`
	Opportunities   []Opportunity    `json:"opportunities"`
	BioScore        int              `json:"bio_score"`
}
