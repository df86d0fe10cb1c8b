package safety

import (
	"fmt"

	"biostack/models"
)

// Meal contexts a dose can be taken in.
const (
	MealFasted   = "fasted"
	MealWithMeal = "with_meal"
	MealWithFat  = "with_fat"
	MealPostMeal = "post_meal"
)

// MealAdvice is purely advisory: it never blocks a dose, only reports how
// the chosen meal context changes absorption.
type MealAdvice struct {
	Optimal    bool    `json:"optimal"`
	Multiplier float64 `json:"multiplier"`
	Mechanism  string  `json:"mechanism"`
	Message    string  `json:"message"`
}

type bioavailabilityRule struct {
	bestContext string
	multipliers map[string]float64
	mechanism   string
}

// bioavailabilityRules is keyed by timing rationale key, falling back to
// safety category, mirroring the timing rationale lookup.
var bioavailabilityRules = map[string]bioavailabilityRule{
	"fat_soluble": {
		bestContext: MealWithFat,
		multipliers: map[string]float64{MealFasted: 0.5, MealWithMeal: 1.0, MealWithFat: 1.3, MealPostMeal: 0.9},
		mechanism:   "micelle formation with dietary fat",
	},
	"iron": {
		bestContext: MealFasted,
		multipliers: map[string]float64{MealFasted: 1.0, MealWithMeal: 0.6, MealWithFat: 0.6, MealPostMeal: 0.7},
		mechanism:   "competition with dietary polyphenols and calcium",
	},
	"mineral": {
		bestContext: MealWithMeal,
		multipliers: map[string]float64{MealFasted: 0.8, MealWithMeal: 1.0, MealWithFat: 1.0, MealPostMeal: 0.95},
		mechanism:   "gastric acid dependence and gut tolerance",
	},
}

// MealContextAdvice looks up the bioavailability rule for a profile and
// reports whether the given meal context is optimal. Returns nil when no
// rule covers the profile or the context is unknown.
func MealContextAdvice(profile *models.SupplementProfile, context string) *MealAdvice {
	if profile == nil || !validMealContext(context) {
		return nil
	}

	rule, ok := lookupRule(profile)
	if !ok {
		return nil
	}

	multiplier, ok := rule.multipliers[context]
	if !ok {
		return nil
	}

	advice := &MealAdvice{
		Optimal:    context == rule.bestContext,
		Multiplier: multiplier,
		Mechanism:  rule.mechanism,
	}
	if advice.Optimal {
		advice.Message = fmt.Sprintf("Taking %s %s is the best context for absorption (%s).",
			profile.Name, mealLabel(context), rule.mechanism)
	} else {
		advice.Message = fmt.Sprintf("Taking %s %s yields roughly %.0f%% of optimal absorption; %s works better (%s).",
			profile.Name, mealLabel(context), multiplier/rule.multipliers[rule.bestContext]*100,
			mealLabel(rule.bestContext), rule.mechanism)
	}

	return advice
}

func lookupRule(profile *models.SupplementProfile) (bioavailabilityRule, bool) {
	if profile.TimingRationaleKey != nil {
		if rule, ok := bioavailabilityRules[*profile.TimingRationaleKey]; ok {
			return rule, true
		}
	}
	if profile.SafetyCategory != nil {
		if rule, ok := bioavailabilityRules[*profile.SafetyCategory]; ok {
			return rule, true
		}
	}
	return bioavailabilityRule{}, false
}

func validMealContext(context string) bool {
	switch context {
	case MealFasted, MealWithMeal, MealWithFat, MealPostMeal:
		return true
	}
	return false
}

func mealLabel(context string) string {
	switch context {
	case MealFasted:
		return "on an empty stomach"
	case MealWithMeal:
		return "with a meal"
	case MealWithFat:
		return "with a fat-containing meal"
	case MealPostMeal:
		return "after a meal"
	default:
		return context
	}
}
