package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Safety limit aggregation periods.
const (
	PeriodDaily  = "daily"
	PeriodWeekly = "weekly"
)

// SafetyLimit is the exposure ceiling for one safety category (e.g.
// "vitamin_d", "zinc"). Supplements opt into a category via their
// SafetyCategory field; the limit applies to summed elemental dosage across
// every log in the aggregation window.
type SafetyLimit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category string  `gorm:"uniqueIndex;not null" json:"category"`
	Limit    float64 `gorm:"not null" json:"limit"`
	Unit     string  `gorm:"type:varchar(8);not null" json:"unit"`
	Period   string  `gorm:"type:varchar(8);not null;default:daily" json:"period"`

	// Hard limits block the dose outright; soft limits only warn.
	IsHardLimit bool `gorm:"not null;default:false" json:"is_hard_limit"`

	// Categories measured in IU cannot be unit-converted; doses must be
	// logged in RequiredUnit or the check is blocked.
	RequiredUnit *string `gorm:"type:varchar(8)" json:"required_unit,omitempty"`

	Notes  string `gorm:"type:text" json:"notes"`
	Source string `gorm:"type:text" json:"source"`
}

func (s *SafetyLimit) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
