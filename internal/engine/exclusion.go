package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"biostack/models"
)

// ExclusionZones derives the timing-conflict windows that are still open.
// For every rule whose source supplement was logged inside the tracking
// window, the zone ends MinHoursApart after the most recent source dose.
// Rules whose window has already elapsed are skipped, as are rules whose
// target the user has not logged recently — warning about a supplement the
// user does not take is noise. Results are sorted soonest-expiring first.
func ExclusionZones(now time.Time, logs []models.IntakeLog, rules []models.TimingRule, profiles map[uuid.UUID]*models.SupplementProfile) []ExclusionZone {
	cutoff := now.Add(-TrackingWindow)

	latestDose := map[uuid.UUID]time.Time{}
	for _, log := range logs {
		if log.LoggedAt.Before(cutoff) || log.LoggedAt.After(now) {
			continue
		}
		if log.LoggedAt.After(latestDose[log.SupplementID]) {
			latestDose[log.SupplementID] = log.LoggedAt
		}
	}

	zones := make([]ExclusionZone, 0, len(rules))
	for _, rule := range rules {
		sourceAt, sourceLogged := latestDose[rule.SourceID]
		if !sourceLogged {
			continue
		}
		if _, targetLogged := latestDose[rule.TargetID]; !targetLogged {
			continue
		}

		source := profiles[rule.SourceID]
		target := profiles[rule.TargetID]
		if source == nil || target == nil {
			// Partial reference data makes the rule inapplicable.
			continue
		}

		endsAt := sourceAt.Add(time.Duration(rule.MinHoursApart * float64(time.Hour)))
		if !endsAt.After(now) {
			continue
		}

		zones = append(zones, ExclusionZone{
			SourceID:         rule.SourceID,
			TargetID:         rule.TargetID,
			SourceName:       source.Name,
			TargetName:       target.Name,
			Reason:           rule.Reason,
			Severity:         rule.Severity,
			EndsAt:           endsAt,
			MinutesRemaining: endsAt.Sub(now).Minutes(),
		})
	}

	sort.Slice(zones, func(i, j int) bool {
		return zones[i].MinutesRemaining < zones[j].MinutesRemaining
	})

	return zones
}
