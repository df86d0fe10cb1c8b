// Package store is the persistence collaborator: read-mostly access to
// reference data (profiles, rules, limits) and the append-only intake log.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"biostack/models"
)

// Gorm is the gorm-backed store used in production and, with the sqlite
// mock database, in tests.
type Gorm struct {
	db *gorm.DB
}

// New wraps a gorm handle.
func New(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Logs returns the user's intake logs inside [start, end], oldest first.
func (s *Gorm) Logs(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.IntakeLog, error) {
	var logs []models.IntakeLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at BETWEEN ? AND ?", userID, start, end).
		Order("logged_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("find logs: %w", err)
	}
	return logs, nil
}

// Profiles resolves supplement profiles by id into a lookup map. Unknown ids
// are simply absent from the result; rule evaluation tolerates the gap.
func (s *Gorm) Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.SupplementProfile, error) {
	result := make(map[uuid.UUID]*models.SupplementProfile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var profiles []models.SupplementProfile
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("find supplement profiles: %w", err)
	}
	for i := range profiles {
		result[profiles[i].ID] = &profiles[i]
	}
	return result, nil
}

// AllProfiles lists the whole supplement catalog, sorted by name.
func (s *Gorm) AllProfiles(ctx context.Context) ([]models.SupplementProfile, error) {
	var profiles []models.SupplementProfile
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("list supplement profiles: %w", err)
	}
	return profiles, nil
}

// ProfileByID fetches one profile, returning gorm.ErrRecordNotFound when the
// id is unknown.
func (s *Gorm) ProfileByID(ctx context.Context, id uuid.UUID) (*models.SupplementProfile, error) {
	var profile models.SupplementProfile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// TimingRules lists the static timing rule table.
func (s *Gorm) TimingRules(ctx context.Context) ([]models.TimingRule, error) {
	var rules []models.TimingRule
	if err := s.db.WithContext(ctx).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("find timing rules: %w", err)
	}
	return rules, nil
}

// RatioRules lists the static ratio rule table.
func (s *Gorm) RatioRules(ctx context.Context) ([]models.RatioRule, error) {
	var rules []models.RatioRule
	if err := s.db.WithContext(ctx).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("find ratio rules: %w", err)
	}
	return rules, nil
}

// SynergyInteractions lists the interactions of type synergy.
func (s *Gorm) SynergyInteractions(ctx context.Context) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := s.db.WithContext(ctx).
		Where("type = ?", models.InteractionSynergy).
		Find(&interactions).Error
	if err != nil {
		return nil, fmt.Errorf("find synergy interactions: %w", err)
	}
	return interactions, nil
}

// SafetyLimits lists the static per-category limit table.
func (s *Gorm) SafetyLimits(ctx context.Context) ([]models.SafetyLimit, error) {
	var limits []models.SafetyLimit
	if err := s.db.WithContext(ctx).Find(&limits).Error; err != nil {
		return nil, fmt.Errorf("find safety limits: %w", err)
	}
	return limits, nil
}

// AppendLog records one dosing event. Logs are append-only; nothing ever
// updates or deletes them.
func (s *Gorm) AppendLog(ctx context.Context, log *models.IntakeLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("append intake log: %w", err)
	}
	return nil
}

// UserByID fetches an account row.
func (s *Gorm) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
