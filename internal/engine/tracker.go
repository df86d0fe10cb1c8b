package engine

import (
	"math"
	"time"

	"github.com/google/uuid"

	"biostack/internal/kinetics"
	"biostack/models"
)

// TrackingWindow is how far back the tracker looks for relevant logs.
const TrackingWindow = 24 * time.Hour

// peakToleranceMinutes is the half-width of the "peak" phase band around Tmax.
const peakToleranceMinutes = 30.0

// TrackActiveCompounds computes one ActiveCompound per log entry inside the
// trailing 24-hour window. Entries are not deduplicated by supplement here;
// repeat doses each get their own snapshot. Logs whose supplement profile is
// missing are skipped.
func TrackActiveCompounds(now time.Time, logs []models.IntakeLog, profiles map[uuid.UUID]*models.SupplementProfile) []ActiveCompound {
	cutoff := now.Add(-TrackingWindow)
	compounds := make([]ActiveCompound, 0, len(logs))

	for _, log := range logs {
		if log.LoggedAt.Before(cutoff) || log.LoggedAt.After(now) {
			continue
		}

		profile := profiles[log.SupplementID]
		if profile == nil {
			continue
		}

		elapsed := now.Sub(log.LoggedAt).Minutes()
		params := kinetics.ParamsForProfile(profile, log.Dosage)
		concentration := kinetics.Concentration(params, elapsed)

		compounds = append(compounds, ActiveCompound{
			LogID:          log.ID,
			SupplementID:   log.SupplementID,
			SupplementName: profile.Name,
			Dosage:         log.Dosage,
			Unit:           log.Unit,
			LoggedAt:       log.LoggedAt,
			ElapsedMinutes: elapsed,
			Concentration:  concentration,
			Phase:          classifyPhase(concentration, elapsed, effectivePeak(params)),
		})
	}

	return compounds
}

func classifyPhase(concentration, elapsed, peak float64) string {
	switch {
	case concentration < 1:
		return PhaseCleared
	case elapsed < peak:
		return PhaseAbsorbing
	case math.Abs(elapsed-peak) <= peakToleranceMinutes:
		return PhasePeak
	default:
		return PhaseEliminating
	}
}

func effectivePeak(params kinetics.Params) float64 {
	switch p := params.(type) {
	case kinetics.FirstOrder:
		return p.PeakMinutes
	case kinetics.MichaelisMenten:
		return p.PeakMinutes
	default:
		return kinetics.DefaultPeakMinutes
	}
}
