package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"biostack/internal/units"
	"biostack/models"
)

// Suggestion priorities. Higher sorts first.
const (
	priorityActiveSynergy  = 1
	prioritySynergy        = 2
	priorityTiming         = 3
	prioritySynergyCaution = 4
)

// timingRationales maps a profile's timing rationale key (or, as a fallback,
// its safety category) to an explanation attached to timing suggestions.
// A capability lookup rather than name matching, so renamed or newly
// cataloged supplements keep their rationale.
var timingRationales = map[string]string{
	"stimulant":   "Stimulants taken late keep their half-life overlapping sleep onset; morning dosing clears them before bedtime.",
	"relaxant":    "Relaxing compounds blunt alertness while active, so an evening or bedtime dose puts the peak where it helps.",
	"fat_soluble": "Fat-soluble compounds absorb substantially better alongside the largest meal of the day.",
	"iron":        "Iron absorbs best on an empty stomach in the morning, away from coffee, calcium, and zinc.",
	"electrolyte": "Electrolytes taken through the day spread plasma availability more evenly than a single bolus.",
}

// OptimizeInput is the reference and state data the optimization engine
// reads. Everything is caller-supplied; the engine holds no state.
type OptimizeInput struct {
	Now          time.Time
	Active       []ActiveCompound
	Profiles     map[uuid.UUID]*models.SupplementProfile
	Interactions []models.Interaction
	RatioRules   []models.RatioRule
	Limits       map[string]*models.SafetyLimit
}

// OptimizeOptions carries the caller-owned presentation state: the user's
// IANA timezone, selected goals, dismissed suggestion keys, and whether
// "add a supplement" suggestions are wanted at all.
type OptimizeOptions struct {
	Timezone           string
	UserGoals          []string
	DismissedKeys      []string
	ShowAddSuggestions bool
}

// Opportunities derives the full suggestion list: timing fixes, synergy
// completions, active-synergy acknowledgements, and ratio-imbalance
// warnings. Candidates are generated per rule table, filtered by the
// dismissal set, then sorted descending by priority.
func Opportunities(in OptimizeInput, opts OptimizeOptions) []Opportunity {
	candidates := timingCandidates(in, opts)
	candidates = append(candidates, synergyCandidates(in, opts)...)
	candidates = append(candidates, ratioCandidates(in)...)

	dismissed := map[string]bool{}
	for _, key := range opts.DismissedKeys {
		dismissed[key] = true
	}

	kept := candidates[:0]
	for _, candidate := range candidates {
		if candidate.Dismissible && dismissed[candidate.Key] {
			continue
		}
		kept = append(kept, candidate)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Priority > kept[j].Priority
	})

	return kept
}

// timingCandidates flags active compounds logged outside their optimal
// time-of-day bucket. One suggestion per supplement regardless of repeat
// doses. Without a timezone the local hour is unknowable, so the whole
// family is skipped.
func timingCandidates(in OptimizeInput, opts OptimizeOptions) []Opportunity {
	if strings.TrimSpace(opts.Timezone) == "" {
		return nil
	}
	location, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		return nil
	}

	seen := map[uuid.UUID]bool{}
	var result []Opportunity

	for _, compound := range in.Active {
		if seen[compound.SupplementID] {
			continue
		}
		seen[compound.SupplementID] = true

		profile := in.Profiles[compound.SupplementID]
		if profile == nil || !specificTime(profile.OptimalTimeOfDay) {
			continue
		}

		hour := compound.LoggedAt.In(location).Hour()
		if timingAcceptable(profile.OptimalTimeOfDay, hour) {
			continue
		}

		opportunity := Opportunity{
			Key:  fmt.Sprintf("timing:%s", compound.SupplementID),
			Type: OpportunityTiming,
			Description: fmt.Sprintf("%s works best in the %s, but you logged it at %02d:00.",
				profile.Name, timeLabel(profile.OptimalTimeOfDay), hour),
			Priority:    priorityTiming,
			Dismissible: true,
		}
		if rationale := rationaleFor(profile); rationale != "" {
			opportunity.Detail = rationale
		}

		result = append(result, opportunity)
	}

	return result
}

// synergyCandidates walks the synergy interactions and emits one of three
// outcomes per pair: suggest the missing side, or acknowledge the pair when
// both sides are already active.
func synergyCandidates(in OptimizeInput, opts OptimizeOptions) []Opportunity {
	active := map[uuid.UUID]bool{}
	for _, compound := range in.Active {
		if compound.Concentration > 0 {
			active[compound.SupplementID] = true
		}
	}

	var result []Opportunity
	for _, interaction := range in.Interactions {
		if interaction.Type != models.InteractionSynergy {
			continue
		}

		hasSource := active[interaction.SourceID]
		hasTarget := active[interaction.TargetID]

		switch {
		case hasSource && hasTarget:
			source := in.Profiles[interaction.SourceID]
			target := in.Profiles[interaction.TargetID]
			if source == nil || target == nil {
				continue
			}
			result = append(result, Opportunity{
				Key:  synergyKey(interaction.SourceID, interaction.TargetID),
				Type: OpportunityActiveSynergy,
				Description: fmt.Sprintf("%s and %s are active together: %s.",
					source.Name, target.Name, interaction.Mechanism),
				Priority:    priorityActiveSynergy,
				Dismissible: false,
			})
		case hasSource:
			if candidate := completionCandidate(in, opts, interaction, interaction.SourceID, interaction.TargetID); candidate != nil {
				result = append(result, *candidate)
			}
		case hasTarget:
			if candidate := completionCandidate(in, opts, interaction, interaction.TargetID, interaction.SourceID); candidate != nil {
				result = append(result, *candidate)
			}
		}
	}

	return result
}

// completionCandidate builds the "add the missing half" suggestion, applying
// the show-add switch, goal filtering, the hard-limit caution, and the
// split-time description rewrite.
func completionCandidate(in OptimizeInput, opts OptimizeOptions, interaction models.Interaction, presentID, missingID uuid.UUID) *Opportunity {
	if !opts.ShowAddSuggestions {
		return nil
	}

	present := in.Profiles[presentID]
	missing := in.Profiles[missingID]
	if present == nil || missing == nil {
		return nil
	}
	if !missing.HasGoalOverlap(opts.UserGoals) {
		return nil
	}

	description := fmt.Sprintf("You're taking %s — adding %s could help: %s.",
		present.Name, missing.Name, interaction.Mechanism)
	if interaction.Suggestion != nil && strings.TrimSpace(*interaction.Suggestion) != "" {
		description = fmt.Sprintf("You're taking %s — %s", present.Name, *interaction.Suggestion)
	}

	opportunity := Opportunity{
		Key:         synergyKey(presentID, missingID),
		Type:        OpportunitySynergy,
		Description: description,
		Priority:    prioritySynergy,
		Dismissible: true,
	}

	// Pairs with different fixed optimal times should not read as "take
	// together"; state both times instead.
	if specificTime(present.OptimalTimeOfDay) && specificTime(missing.OptimalTimeOfDay) &&
		present.OptimalTimeOfDay != missing.OptimalTimeOfDay {
		opportunity.Description = fmt.Sprintf("%s pairs with %s, but keep their schedules: %s in the %s, %s in the %s.",
			missing.Name, present.Name,
			present.Name, timeLabel(present.OptimalTimeOfDay),
			missing.Name, timeLabel(missing.OptimalTimeOfDay))
		opportunity.Detail = fmt.Sprintf("The synergy works through %s and does not require co-ingestion, so each compound can stay at its own optimal time.",
			interaction.Mechanism)
	}

	if missing.SafetyCategory != nil {
		if limit := in.Limits[*missing.SafetyCategory]; limit != nil && limit.IsHardLimit {
			opportunity.Priority = prioritySynergyCaution
			opportunity.Caution = fmt.Sprintf("%s carries a hard %s limit of %g %s — check your remaining headroom before adding it.",
				missing.Name, limit.Period, limit.Limit, limit.Unit)
		}
	}

	return &opportunity
}

// ratioCandidates checks every ratio rule against the elemental dosage
// totals of the tracked window and flags pairs outside their band.
func ratioCandidates(in OptimizeInput) []Opportunity {
	totals := map[uuid.UUID]float64{}
	for _, compound := range in.Active {
		profile := in.Profiles[compound.SupplementID]
		if profile == nil {
			continue
		}
		elemental := units.ElementalDosage(compound.Dosage, profile.ElementalWeightPercent)
		converted, ok := units.Convert(elemental, compound.Unit, models.UnitMG)
		if !ok {
			continue
		}
		totals[compound.SupplementID] += converted
	}

	var result []Opportunity
	for _, rule := range in.RatioRules {
		source := in.Profiles[rule.SourceID]
		target := in.Profiles[rule.TargetID]
		if source == nil || target == nil {
			continue
		}

		sourceTotal := totals[rule.SourceID]
		targetTotal := totals[rule.TargetID]
		if sourceTotal <= 0 || targetTotal <= 0 {
			continue
		}

		ratio := sourceTotal / targetTotal
		if ratio >= rule.MinRatio && ratio <= rule.MaxRatio {
			continue
		}

		direction := "low"
		if ratio > rule.MaxRatio {
			direction = "high"
		}

		result = append(result, Opportunity{
			Key:  fmt.Sprintf("ratio:%s:%s", rule.SourceID, rule.TargetID),
			Type: OpportunityRatio,
			Description: fmt.Sprintf("Your elemental %s:%s ratio is %.2f, which is %s — aim for about %g:1 (between %g and %g).",
				source.Name, target.Name, ratio, direction,
				rule.OptimalRatio, rule.MinRatio, rule.MaxRatio),
			Priority:    ratioPriority(rule.Severity),
			Dismissible: true,
		})
	}

	return result
}

// synergyKey builds a dismissal key that is identical no matter which side
// of the pair was already present.
func synergyKey(a, b uuid.UUID) string {
	first, second := a.String(), b.String()
	if second < first {
		first, second = second, first
	}
	return fmt.Sprintf("synergy:%s:%s", first, second)
}

func ratioPriority(severity string) int {
	switch severity {
	case models.SeverityCritical:
		return 5
	case models.SeverityMedium:
		return 4
	default:
		return 3
	}
}

func rationaleFor(profile *models.SupplementProfile) string {
	if profile.TimingRationaleKey != nil {
		if rationale, ok := timingRationales[*profile.TimingRationaleKey]; ok {
			return rationale
		}
	}
	if profile.SafetyCategory != nil {
		if rationale, ok := timingRationales[*profile.SafetyCategory]; ok {
			return rationale
		}
	}
	return ""
}

// specificTime reports whether a time-of-day preference names an actual
// bucket rather than a flexible one.
func specificTime(optimal string) bool {
	switch optimal {
	case models.TimeMorning, models.TimeAfternoon, models.TimeEvening, models.TimeBedtime:
		return true
	}
	return false
}

// timingAcceptable checks a local hour against an optimal bucket with one
// bucket of adjacency tolerance on each side: a morning supplement logged at
// 13:00 is late but not worth nagging about.
func timingAcceptable(optimal string, hour int) bool {
	switch optimal {
	case models.TimeMorning:
		return hour >= 5 && hour < 14
	case models.TimeAfternoon:
		return hour >= 10 && hour < 19
	case models.TimeEvening:
		return hour >= 15 && hour < 23
	case models.TimeBedtime:
		return hour >= 19 || hour < 5
	default:
		return true
	}
}

func timeLabel(optimal string) string {
	switch optimal {
	case models.TimeBedtime:
		return "hours before bed"
	case models.TimeWithMeals:
		return "company of a meal"
	default:
		return optimal
	}
}
