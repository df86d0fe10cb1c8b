package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dosage units accepted on intake logs.
const (
	UnitMG  = "mg"
	UnitMCG = "mcg"
	UnitG   = "g"
	UnitIU  = "IU"
	UnitML  = "ml"
)

// ValidUnit reports whether the given unit is one the engine understands.
func ValidUnit(unit string) bool {
	switch unit {
	case UnitMG, UnitMCG, UnitG, UnitIU, UnitML:
		return true
	}
	return false
}

// IntakeLog is one dosing event. Logs are append-only; the engine reads a
// rolling window of them and never mutates history.
type IntakeLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	SupplementID uuid.UUID `gorm:"type:uuid;index;not null" json:"supplement_id"`

	Supplement *SupplementProfile `gorm:"foreignKey:SupplementID" json:"supplement,omitempty"`

	Dosage   float64   `gorm:"not null" json:"dosage"`
	Unit     string    `gorm:"type:varchar(8);not null" json:"unit"`
	LoggedAt time.Time `gorm:"index;not null" json:"logged_at"`
}

func (l *IntakeLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
