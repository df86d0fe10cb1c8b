package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"biostack/models"
)

func zoneWithSeverity(severity string) ExclusionZone {
	return ExclusionZone{Severity: severity, MinutesRemaining: 30}
}

func activeSynergies(count int) []Opportunity {
	result := make([]Opportunity, count)
	for i := range result {
		result[i] = Opportunity{Type: OpportunityActiveSynergy, Priority: priorityActiveSynergy}
	}
	return result
}

func someActive() []ActiveCompound {
	return []ActiveCompound{{Concentration: 42, Phase: PhaseEliminating}}
}

func TestBioScoreEmptyStateIsNeutral(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50, BioScore(nil, nil, nil))
	// Cleared compounds count as empty too.
	cleared := []ActiveCompound{{Concentration: 0, Phase: PhaseCleared}}
	assert.Equal(t, 50, BioScore(cleared, []ExclusionZone{zoneWithSeverity(models.SeverityCritical)}, nil))
}

func TestBioScorePenalties(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		zones []ExclusionZone
		want  int
	}{
		{"no zones", nil, 100},
		{"low", []ExclusionZone{zoneWithSeverity(models.SeverityLow)}, 85},
		{"medium", []ExclusionZone{zoneWithSeverity(models.SeverityMedium)}, 75},
		{"critical", []ExclusionZone{zoneWithSeverity(models.SeverityCritical)}, 50},
		{"stacked to the floor", []ExclusionZone{
			zoneWithSeverity(models.SeverityCritical),
			zoneWithSeverity(models.SeverityCritical),
			zoneWithSeverity(models.SeverityMedium),
		}, 0},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, BioScore(someActive(), tt.zones, nil))
		})
	}
}

func TestBioScoreSynergyBonusCapped(t *testing.T) {
	t.Parallel()

	zones := []ExclusionZone{zoneWithSeverity(models.SeverityMedium)}

	assert.Equal(t, 85, BioScore(someActive(), zones, activeSynergies(2)))
	// Six synergies would be +30 uncapped; the cap holds it to +20 and the
	// total to 95. Without zones the cap also keeps the score at 100.
	assert.Equal(t, 95, BioScore(someActive(), zones, activeSynergies(6)))
	assert.Equal(t, 100, BioScore(someActive(), nil, activeSynergies(6)))
}

func TestBioScoreAlwaysInRange(t *testing.T) {
	t.Parallel()

	severities := []string{models.SeverityLow, models.SeverityMedium, models.SeverityCritical}
	for zoneCount := 0; zoneCount <= 4; zoneCount++ {
		for _, severity := range severities {
			for synergyCount := 0; synergyCount <= 8; synergyCount++ {
				zones := make([]ExclusionZone, zoneCount)
				for i := range zones {
					zones[i] = zoneWithSeverity(severity)
				}
				score := BioScore(someActive(), zones, activeSynergies(synergyCount))
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}
