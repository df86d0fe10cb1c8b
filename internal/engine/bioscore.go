package engine

import "biostack/models"

// Bio-score weights.
const (
	bioScoreBase          = 100
	bioScoreEmptyState    = 50
	bioScoreSynergyBonus  = 5
	bioScoreSynergyCap    = 20
	penaltyCriticalZone   = 50
	penaltyMediumZone     = 25
	penaltyLowZone        = 15
)

// BioScore reduces the current state to a single 0-100 heuristic. Active
// exclusion zones subtract by severity; active synergies add a capped bonus.
// An empty stack is forced to a neutral 50 so "nothing logged" never reads
// as a perfect regimen.
func BioScore(active []ActiveCompound, zones []ExclusionZone, opportunities []Opportunity) int {
	activeCount := 0
	for _, compound := range active {
		if compound.Concentration > 0 {
			activeCount++
		}
	}
	if activeCount == 0 {
		return bioScoreEmptyState
	}

	score := bioScoreBase
	for _, zone := range zones {
		switch zone.Severity {
		case models.SeverityCritical:
			score -= penaltyCriticalZone
		case models.SeverityMedium:
			score -= penaltyMediumZone
		default:
			score -= penaltyLowZone
		}
	}

	bonus := 0
	for _, opportunity := range opportunities {
		if opportunity.Type == OpportunityActiveSynergy {
			bonus += bioScoreSynergyBonus
		}
	}
	if bonus > bioScoreSynergyCap {
		bonus = bioScoreSynergyCap
	}
	score += bonus

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
