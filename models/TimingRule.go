package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rule severities, shared across timing rules, ratio rules, and interactions.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityCritical = "critical"
)

// TimingRule states that the target supplement should not be taken within
// MinHoursApart of the source supplement. The pair is ordered: the rule fires
// off a logged dose of the source.
type TimingRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SourceID uuid.UUID `gorm:"type:uuid;index;not null" json:"source_id"`
	TargetID uuid.UUID `gorm:"type:uuid;index;not null" json:"target_id"`

	MinHoursApart float64 `gorm:"not null" json:"min_hours_apart"`
	Reason        string  `gorm:"type:text" json:"reason"`
	Severity      string  `gorm:"type:varchar(16);not null;default:low" json:"severity"`
}

func (r *TimingRule) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
