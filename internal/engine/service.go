package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"biostack/internal/safety"
	"biostack/models"
)

// safetyLookback covers the widest aggregation window (trailing seven days)
// plus a day of timezone slack.
const safetyLookback = 8 * 24 * time.Hour

// Store is the persistence collaborator as seen by the engine. Everything is
// a read; the engine never writes.
type Store interface {
	Logs(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.IntakeLog, error)
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.SupplementProfile, error)
	ProfileByID(ctx context.Context, id uuid.UUID) (*models.SupplementProfile, error)
	TimingRules(ctx context.Context) ([]models.TimingRule, error)
	RatioRules(ctx context.Context) ([]models.RatioRule, error)
	SynergyInteractions(ctx context.Context) ([]models.Interaction, error)
	SafetyLimits(ctx context.Context) ([]models.SafetyLimit, error)
}

// StateOptions is the caller-owned presentation state threaded through a
// biological-state computation.
type StateOptions struct {
	Timezone           string
	UserGoals          []string
	DismissedKeys      []string
	ShowAddSuggestions bool
}

// StackRequestItem is one pending dose in a stack safety check.
type StackRequestItem struct {
	SupplementID uuid.UUID `json:"supplement_id"`
	Dosage       float64   `json:"dosage"`
	Unit         string    `json:"unit"`
}

// Service composes store reads with the pure engine computations. It holds
// no mutable state; concurrent calls are independent.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService builds a Service on a store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// BiologicalState answers "what is active right now": per-log concentration
// snapshots, open exclusion zones, optimization opportunities, and the
// bio-score.
func (s *Service) BiologicalState(ctx context.Context, userID uuid.UUID, opts StateOptions) (*BiologicalState, error) {
	now := s.now().UTC()

	logs, err := s.store.Logs(ctx, userID, now.Add(-TrackingWindow), now)
	if err != nil {
		return nil, err
	}
	timingRules, err := s.store.TimingRules(ctx)
	if err != nil {
		return nil, err
	}
	ratioRules, err := s.store.RatioRules(ctx)
	if err != nil {
		return nil, err
	}
	interactions, err := s.store.SynergyInteractions(ctx)
	if err != nil {
		return nil, err
	}
	limits, err := s.store.SafetyLimits(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.Profiles(ctx, referencedIDs(logs, timingRules, ratioRules, interactions))
	if err != nil {
		return nil, err
	}

	active := TrackActiveCompounds(now, logs, profiles)
	zones := ExclusionZones(now, logs, timingRules, profiles)

	limitIndex := make(map[string]*models.SafetyLimit, len(limits))
	for i := range limits {
		limitIndex[limits[i].Category] = &limits[i]
	}

	opportunities := Opportunities(OptimizeInput{
		Now:          now,
		Active:       active,
		Profiles:     profiles,
		Interactions: interactions,
		RatioRules:   ratioRules,
		Limits:       limitIndex,
	}, OptimizeOptions{
		Timezone:           opts.Timezone,
		UserGoals:          opts.UserGoals,
		DismissedKeys:      opts.DismissedKeys,
		ShowAddSuggestions: opts.ShowAddSuggestions,
	})

	return &BiologicalState{
		GeneratedAt:     now,
		ActiveCompounds: active,
		ExclusionZones:  zones,
		Opportunities:   opportunities,
		BioScore:        BioScore(active, zones, opportunities),
	}, nil
}

// TimelineData discretizes the user's concentration curves for charting.
func (s *Service) TimelineData(ctx context.Context, userID uuid.UUID, intervalMinutes, windowHours int) ([]TimelinePoint, error) {
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultIntervalMinutes
	}
	if windowHours <= 0 {
		windowHours = DefaultWindowHours
	}

	now := s.now().UTC()
	logs, err := s.store.Logs(ctx, userID, now.Add(-time.Duration(windowHours)*time.Hour), now)
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.Profiles(ctx, logIDs(logs))
	if err != nil {
		return nil, err
	}

	return GenerateTimeline(now, intervalMinutes, windowHours, logs, profiles), nil
}

// CheckSafety evaluates one pending dose against its category ceiling.
func (s *Service) CheckSafety(ctx context.Context, userID, supplementID uuid.UUID, dosage float64, unit, timezone string) (*safety.CheckResult, error) {
	profile, err := s.store.ProfileByID(ctx, supplementID)
	if err != nil {
		return nil, fmt.Errorf("load supplement profile: %w", err)
	}

	safetyEngine, logs, profiles, now, location, err := s.safetyContext(ctx, userID, timezone)
	if err != nil {
		return nil, err
	}

	result := safetyEngine.CheckDose(profile, dosage, unit, logs, profiles, now, location)
	return &result, nil
}

// CheckStackSafety evaluates a set of pending doses together and returns the
// single worst violation, or nil when the stack is clear.
func (s *Service) CheckStackSafety(ctx context.Context, userID uuid.UUID, items []StackRequestItem, timezone string) (*safety.CheckResult, error) {
	safetyEngine, logs, profiles, now, location, err := s.safetyContext(ctx, userID, timezone)
	if err != nil {
		return nil, err
	}

	stack := make([]safety.StackItem, 0, len(items))
	for _, item := range items {
		profile, err := s.store.ProfileByID(ctx, item.SupplementID)
		if err != nil {
			// Unknown supplements make the item inapplicable, not fatal.
			continue
		}
		stack = append(stack, safety.StackItem{Profile: profile, Dosage: item.Dosage, Unit: item.Unit})
	}

	return safetyEngine.CheckStack(stack, logs, profiles, now, location), nil
}

// SafetyHeadroom summarizes per-category usage against every ceiling.
func (s *Service) SafetyHeadroom(ctx context.Context, userID uuid.UUID, timezone string) ([]safety.HeadroomSummary, error) {
	safetyEngine, logs, profiles, now, location, err := s.safetyContext(ctx, userID, timezone)
	if err != nil {
		return nil, err
	}
	return safetyEngine.Headroom(logs, profiles, now, location), nil
}

// MealAdvice reports how a meal context changes a supplement's absorption.
// Returns nil when no rule covers the supplement.
func (s *Service) MealAdvice(ctx context.Context, supplementID uuid.UUID, mealContext string) (*safety.MealAdvice, error) {
	profile, err := s.store.ProfileByID(ctx, supplementID)
	if err != nil {
		return nil, fmt.Errorf("load supplement profile: %w", err)
	}
	return safety.MealContextAdvice(profile, mealContext), nil
}

func (s *Service) safetyContext(ctx context.Context, userID uuid.UUID, timezone string) (*safety.Engine, []models.IntakeLog, map[uuid.UUID]*models.SupplementProfile, time.Time, *time.Location, error) {
	now := s.now().UTC()

	limits, err := s.store.SafetyLimits(ctx)
	if err != nil {
		return nil, nil, nil, now, nil, err
	}

	logs, err := s.store.Logs(ctx, userID, now.Add(-safetyLookback), now)
	if err != nil {
		return nil, nil, nil, now, nil, err
	}

	profiles, err := s.store.Profiles(ctx, logIDs(logs))
	if err != nil {
		return nil, nil, nil, now, nil, err
	}

	return safety.NewEngine(limits), logs, profiles, now, resolveLocation(timezone), nil
}

// resolveLocation maps an IANA zone name to a location, defaulting to UTC
// when the name is empty or unknown.
func resolveLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

// referencedIDs collects every supplement id the computation can touch:
// logged supplements plus both sides of every rule and interaction.
func referencedIDs(logs []models.IntakeLog, timingRules []models.TimingRule, ratioRules []models.RatioRule, interactions []models.Interaction) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if id != uuid.Nil && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, log := range logs {
		add(log.SupplementID)
	}
	for _, rule := range timingRules {
		add(rule.SourceID)
		add(rule.TargetID)
	}
	for _, rule := range ratioRules {
		add(rule.SourceID)
		add(rule.TargetID)
	}
	for _, interaction := range interactions {
		add(interaction.SourceID)
		add(interaction.TargetID)
	}

	return ids
}

func logIDs(logs []models.IntakeLog) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, log := range logs {
		if !seen[log.SupplementID] {
			seen[log.SupplementID] = true
			ids = append(ids, log.SupplementID)
		}
	}
	return ids
}
