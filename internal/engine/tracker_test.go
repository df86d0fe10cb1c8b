package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biostack/models"
)

func testProfile(name string, peak, halfLife float64) *models.SupplementProfile {
	return &models.SupplementProfile{
		ID:              uuid.New(),
		Name:            name,
		PeakMinutes:     peak,
		HalfLifeMinutes: halfLife,
		KineticsType:    models.KineticsFirstOrder,
		OptimalTimeOfDay: models.TimeAny,
	}
}

func intake(userID uuid.UUID, profile *models.SupplementProfile, dosage float64, unit string, loggedAt time.Time) models.IntakeLog {
	return models.IntakeLog{
		ID:           uuid.New(),
		UserID:       userID,
		SupplementID: profile.ID,
		Dosage:       dosage,
		Unit:         unit,
		LoggedAt:     loggedAt,
	}
}

func profileMap(profiles ...*models.SupplementProfile) map[uuid.UUID]*models.SupplementProfile {
	result := make(map[uuid.UUID]*models.SupplementProfile, len(profiles))
	for _, profile := range profiles {
		result[profile.ID] = profile
	}
	return result
}

func TestTrackActiveCompoundsPhases(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	vitaminD := testProfile("Vitamin D3", 120, 1200)

	cases := []struct {
		name      string
		loggedAt  time.Time
		wantPhase string
	}{
		{"mid absorption", now.Add(-40 * time.Minute), PhaseAbsorbing},
		{"at peak", now.Add(-120 * time.Minute), PhasePeak},
		{"just past peak within band", now.Add(-140 * time.Minute), PhasePeak},
		{"eliminating", now.Add(-6 * time.Hour), PhaseEliminating},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logs := []models.IntakeLog{intake(userID, vitaminD, 5000, models.UnitIU, tt.loggedAt)}
			active := TrackActiveCompounds(now, logs, profileMap(vitaminD))
			require.Len(t, active, 1)
			assert.Equal(t, tt.wantPhase, active[0].Phase)
		})
	}
}

func TestTrackActiveCompoundsClearedPhase(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	// 30-minute half-life: after 8 hours the dose is far below 1%.
	caffeine := testProfile("Caffeine", 45, 30)

	logs := []models.IntakeLog{intake(userID, caffeine, 100, models.UnitMG, now.Add(-8*time.Hour))}
	active := TrackActiveCompounds(now, logs, profileMap(caffeine))

	require.Len(t, active, 1)
	assert.Equal(t, PhaseCleared, active[0].Phase)
	assert.Equal(t, 0.0, active[0].Concentration)
}

func TestTrackActiveCompoundsWindowAndMissingProfiles(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	magnesium := testProfile("Magnesium Glycinate", 90, 600)
	unknown := testProfile("Ghost", 60, 240)

	logs := []models.IntakeLog{
		intake(userID, magnesium, 200, models.UnitMG, now.Add(-2*time.Hour)),
		intake(userID, magnesium, 200, models.UnitMG, now.Add(-25*time.Hour)), // outside window
		intake(userID, magnesium, 200, models.UnitMG, now.Add(time.Hour)),     // future
		intake(userID, unknown, 10, models.UnitMG, now.Add(-time.Hour)),       // no profile
	}

	active := TrackActiveCompounds(now, logs, profileMap(magnesium))
	require.Len(t, active, 1)
	assert.Equal(t, "Magnesium Glycinate", active[0].SupplementName)
	assert.InDelta(t, 120, active[0].ElapsedMinutes, 1e-9)
}

func TestTrackActiveCompoundsKeepsRepeatDoses(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	caffeine := testProfile("Caffeine", 45, 300)

	logs := []models.IntakeLog{
		intake(userID, caffeine, 100, models.UnitMG, now.Add(-30*time.Minute)),
		intake(userID, caffeine, 100, models.UnitMG, now.Add(-4*time.Hour)),
	}

	active := TrackActiveCompounds(now, logs, profileMap(caffeine))
	assert.Len(t, active, 2, "repeat doses are not deduplicated")
}
