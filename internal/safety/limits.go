// Package safety aggregates elemental exposure over rolling day and week
// windows and evaluates it against per-category ceilings. Hard limits block,
// soft limits warn, and compounds without established limits pass through
// untouched.
package safety

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"biostack/internal/units"
	"biostack/models"
)

// Check statuses, ordered from benign to severe.
const (
	StatusSafe         = "safe"
	StatusExperimental = "experimental"
	StatusWarning      = "warning"
	StatusBlocked      = "blocked"
)

// CheckResult is the outcome of a single or stack safety check.
type CheckResult struct {
	Status         string  `json:"status"`
	Category       string  `json:"category,omitempty"`
	Message        string  `json:"message"`
	CurrentTotal   float64 `json:"current_total"`
	ProjectedTotal float64 `json:"projected_total"`
	Limit          float64 `json:"limit,omitempty"`
	Unit           string  `json:"unit,omitempty"`
	PercentOfLimit float64 `json:"percent_of_limit"`
}

// StackItem is one pending dose in a multi-item check.
type StackItem struct {
	Profile *models.SupplementProfile
	Dosage  float64
	Unit    string
}

// HeadroomSummary reports current usage against one category's ceiling.
type HeadroomSummary struct {
	Category       string  `json:"category"`
	Period         string  `json:"period"`
	Used           float64 `json:"used"`
	Limit          float64 `json:"limit"`
	Remaining      float64 `json:"remaining"`
	Unit           string  `json:"unit"`
	PercentOfLimit float64 `json:"percent_of_limit"`
	IsHardLimit    bool    `json:"is_hard_limit"`
}

// Engine evaluates dosing against the configured safety limits. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	limits map[string]*models.SafetyLimit
}

// NewEngine indexes the limit table by category.
func NewEngine(limits []models.SafetyLimit) *Engine {
	indexed := make(map[string]*models.SafetyLimit, len(limits))
	for i := range limits {
		indexed[limits[i].Category] = &limits[i]
	}
	return &Engine{limits: indexed}
}

// Limit returns the configured limit for a category, or nil.
func (e *Engine) Limit(category string) *models.SafetyLimit {
	return e.limits[category]
}

// Limits returns the indexed limit table keyed by category.
func (e *Engine) Limits() map[string]*models.SafetyLimit {
	return e.limits
}

// windowStart computes the start of a limit's aggregation window in the
// user's local zone: midnight today for daily limits, midnight six days back
// for weekly ones (trailing seven days including today).
func windowStart(limit *models.SafetyLimit, now time.Time, location *time.Location) time.Time {
	local := now.In(location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
	if limit.Period == models.PeriodWeekly {
		return midnight.AddDate(0, 0, -6)
	}
	return midnight
}

// contribution converts one dose into the limit's unit as elemental dosage.
// The second return value is false when the dose cannot count against the
// limit: a required-unit mismatch or an impossible unit conversion.
func contribution(limit *models.SafetyLimit, profile *models.SupplementProfile, dosage float64, unit string) (float64, bool) {
	if limit.RequiredUnit != nil {
		if unit != *limit.RequiredUnit {
			return 0, false
		}
		// Activity units are already elemental.
		return dosage, true
	}

	elemental := units.ElementalDosage(dosage, profile.ElementalWeightPercent)
	return units.Convert(elemental, unit, limit.Unit)
}

// categoryTotal sums the in-window elemental exposure for one category
// across the supplied logs. Logs whose unit cannot convert are skipped; the
// blocked verdict for those belongs to the dose being checked, not history.
func (e *Engine) categoryTotal(category string, limit *models.SafetyLimit, logs []models.IntakeLog, profiles map[uuid.UUID]*models.SupplementProfile, now time.Time, location *time.Location) float64 {
	start := windowStart(limit, now, location)
	total := 0.0

	for _, log := range logs {
		if log.LoggedAt.Before(start) || log.LoggedAt.After(now) {
			continue
		}
		profile := profiles[log.SupplementID]
		if profile == nil || profile.SafetyCategory == nil || *profile.SafetyCategory != category {
			continue
		}
		if amount, ok := contribution(limit, profile, log.Dosage, log.Unit); ok {
			total += amount
		}
	}

	return total
}

// CheckDose evaluates a single pending dose against its category limit given
// the user's log history. Research chemicals bypass limits entirely;
// supplements without a category are trivially safe.
func (e *Engine) CheckDose(profile *models.SupplementProfile, dosage float64, unit string, logs []models.IntakeLog, profiles map[uuid.UUID]*models.SupplementProfile, now time.Time, location *time.Location) CheckResult {
	if profile == nil {
		return CheckResult{Status: StatusSafe, Message: "No safety data for this supplement."}
	}
	if profile.IsResearchChemical {
		return CheckResult{
			Status:  StatusExperimental,
			Message: fmt.Sprintf("%s is a research compound with no established safety limits. You are outside mapped territory.", profile.Name),
		}
	}
	if profile.SafetyCategory == nil {
		return CheckResult{Status: StatusSafe, Message: fmt.Sprintf("%s has no configured safety ceiling.", profile.Name)}
	}

	limit := e.limits[*profile.SafetyCategory]
	if limit == nil {
		return CheckResult{Status: StatusSafe, Message: fmt.Sprintf("%s has no configured safety ceiling.", profile.Name)}
	}

	// Required-unit mismatches block before any totals are consulted: the
	// conversion does not exist, so no meaningful comparison is possible.
	newAmount, ok := contribution(limit, profile, dosage, unit)
	if !ok {
		required := limit.Unit
		if limit.RequiredUnit != nil {
			required = *limit.RequiredUnit
		}
		return CheckResult{
			Status:   StatusBlocked,
			Category: limit.Category,
			Message: fmt.Sprintf("%s doses must be logged in %s; %s cannot be converted. Re-enter the dose in %s.",
				limit.Category, required, unit, required),
			Limit: limit.Limit,
			Unit:  limit.Unit,
		}
	}

	existing := e.categoryTotal(limit.Category, limit, logs, profiles, now, location)
	return e.evaluate(limit, existing, newAmount)
}

// CheckStack evaluates a set of pending doses together. Items are grouped by
// category, each group's contribution is added to the existing window total,
// and the single worst violation wins: hard limits outrank soft ones, and
// among equals the higher percent-of-limit takes it. Returns nil when the
// whole stack is clear.
func (e *Engine) CheckStack(items []StackItem, logs []models.IntakeLog, profiles map[uuid.UUID]*models.SupplementProfile, now time.Time, location *time.Location) *CheckResult {
	pending := map[string]float64{}
	var worst *CheckResult

	consider := func(result CheckResult) {
		if result.Status != StatusWarning && result.Status != StatusBlocked {
			return
		}
		if worst == nil || worseThan(result, *worst) {
			copied := result
			worst = &copied
		}
	}

	for _, item := range items {
		if item.Profile == nil || item.Profile.IsResearchChemical || item.Profile.SafetyCategory == nil {
			continue
		}
		limit := e.limits[*item.Profile.SafetyCategory]
		if limit == nil {
			continue
		}

		amount, ok := contribution(limit, item.Profile, item.Dosage, item.Unit)
		if !ok {
			required := limit.Unit
			if limit.RequiredUnit != nil {
				required = *limit.RequiredUnit
			}
			consider(CheckResult{
				Status:   StatusBlocked,
				Category: limit.Category,
				Message: fmt.Sprintf("%s doses must be logged in %s; %s cannot be converted.",
					limit.Category, required, item.Unit),
				Limit:          limit.Limit,
				Unit:           limit.Unit,
				PercentOfLimit: 100,
			})
			continue
		}
		pending[limit.Category] += amount
	}

	for category, amount := range pending {
		limit := e.limits[category]
		existing := e.categoryTotal(category, limit, logs, profiles, now, location)
		consider(e.evaluate(limit, existing, amount))
	}

	return worst
}

// Headroom summarizes usage against every configured category, ordered by
// percent-of-limit descending so the tightest ceiling surfaces first.
func (e *Engine) Headroom(logs []models.IntakeLog, profiles map[uuid.UUID]*models.SupplementProfile, now time.Time, location *time.Location) []HeadroomSummary {
	summaries := make([]HeadroomSummary, 0, len(e.limits))

	for category, limit := range e.limits {
		used := e.categoryTotal(category, limit, logs, profiles, now, location)
		remaining := limit.Limit - used
		if remaining < 0 {
			remaining = 0
		}
		summaries = append(summaries, HeadroomSummary{
			Category:       category,
			Period:         limit.Period,
			Used:           used,
			Limit:          limit.Limit,
			Remaining:      remaining,
			Unit:           limit.Unit,
			PercentOfLimit: percentOf(used, limit.Limit),
			IsHardLimit:    limit.IsHardLimit,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].PercentOfLimit != summaries[j].PercentOfLimit {
			return summaries[i].PercentOfLimit > summaries[j].PercentOfLimit
		}
		return summaries[i].Category < summaries[j].Category
	})

	return summaries
}

func (e *Engine) evaluate(limit *models.SafetyLimit, existing, pending float64) CheckResult {
	projected := existing + pending
	percent := percentOf(projected, limit.Limit)

	result := CheckResult{
		Status:         StatusSafe,
		Category:       limit.Category,
		CurrentTotal:   existing,
		ProjectedTotal: projected,
		Limit:          limit.Limit,
		Unit:           limit.Unit,
		PercentOfLimit: percent,
	}

	if projected > limit.Limit {
		if limit.IsHardLimit {
			result.Status = StatusBlocked
		} else {
			result.Status = StatusWarning
		}
	}

	result.Message = limitMessage(limit, result.Status, percent)
	return result
}

func limitMessage(limit *models.SafetyLimit, status string, percent float64) string {
	message := ""
	switch status {
	case StatusBlocked:
		message = fmt.Sprintf("This would put you at %.0f%% of the %s %s limit (%g %s). Hard ceiling — do not exceed.",
			percent, limit.Period, limit.Category, limit.Limit, limit.Unit)
	case StatusWarning:
		message = fmt.Sprintf("This would put you at %.0f%% of the %s %s limit (%g %s).",
			percent, limit.Period, limit.Category, limit.Limit, limit.Unit)
	default:
		message = fmt.Sprintf("Within the %s %s limit: %.0f%% after this dose.",
			limit.Period, limit.Category, percent)
	}

	if limit.Notes != "" {
		message = message + " " + limit.Notes
	}
	return message
}

// worseThan orders check results: blocked beats warning, then higher
// percent-of-limit.
func worseThan(a, b CheckResult) bool {
	rank := func(status string) int {
		switch status {
		case StatusBlocked:
			return 2
		case StatusWarning:
			return 1
		default:
			return 0
		}
	}
	if rank(a.Status) != rank(b.Status) {
		return rank(a.Status) > rank(b.Status)
	}
	return a.PercentOfLimit > b.PercentOfLimit
}

func percentOf(amount, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return amount / limit * 100
}
