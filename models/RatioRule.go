package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatioRule bounds the source:target elemental-dosage ratio for a pair of
// supplements taken in the same window (e.g. zinc:copper between 8 and 15).
type RatioRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SourceID uuid.UUID `gorm:"type:uuid;index;not null" json:"source_id"`
	TargetID uuid.UUID `gorm:"type:uuid;index;not null" json:"target_id"`

	MinRatio     float64 `gorm:"not null" json:"min_ratio"`
	MaxRatio     float64 `gorm:"not null" json:"max_ratio"`
	OptimalRatio float64 `gorm:"not null" json:"optimal_ratio"`
	Severity     string  `gorm:"type:varchar(16);not null;default:low" json:"severity"`
}

func (r *RatioRule) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
