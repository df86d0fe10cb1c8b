package engine

import (
	"time"

	"github.com/google/uuid"

	"biostack/internal/kinetics"
	"biostack/models"
)

// Timeline grid defaults.
const (
	DefaultIntervalMinutes  = 15
	DefaultWindowHours      = 24
	ProjectionHours         = 4
	timelineConcentrationCap = 150.0
)

// GenerateTimeline discretizes the concentration curves over a fixed grid:
// windowHours of history plus a forward projection, stepped every
// intervalMinutes. At each grid point the outputs of every log of the same
// supplement are summed and capped at 150% so stacked repeat doses stay
// chartable. The result is fully materialized and ordered by timestamp.
func GenerateTimeline(now time.Time, intervalMinutes, windowHours int, logs []models.IntakeLog, profiles map[uuid.UUID]*models.SupplementProfile) []TimelinePoint {
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultIntervalMinutes
	}
	if windowHours <= 0 {
		windowHours = DefaultWindowHours
	}

	step := time.Duration(intervalMinutes) * time.Minute
	start := now.Add(-time.Duration(windowHours) * time.Hour)
	end := now.Add(ProjectionHours * time.Hour)

	points := make([]TimelinePoint, 0, int(end.Sub(start)/step)+1)

	for instant := start; !instant.After(end); instant = instant.Add(step) {
		levels := map[string]float64{}

		for _, log := range logs {
			profile := profiles[log.SupplementID]
			if profile == nil || log.LoggedAt.After(instant) {
				continue
			}

			elapsed := instant.Sub(log.LoggedAt).Minutes()
			params := kinetics.ParamsForProfile(profile, log.Dosage)
			concentration := kinetics.Concentration(params, elapsed)
			if concentration <= 0 {
				continue
			}

			levels[profile.Name] += concentration
			if levels[profile.Name] > timelineConcentrationCap {
				levels[profile.Name] = timelineConcentrationCap
			}
		}

		points = append(points, TimelinePoint{Timestamp: instant, Levels: levels})
	}

	return points
}
