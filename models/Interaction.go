package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interaction types.
const (
	InteractionSynergy     = "synergy"
	InteractionInhibition  = "inhibition"
	InteractionCompetition = "competition"
)

// Interaction records a known pharmacological relationship between two
// supplements. The pair is stored ordered but treated as unordered by the
// synergy engine.
type Interaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SourceID uuid.UUID `gorm:"type:uuid;index;not null" json:"source_id"`
	TargetID uuid.UUID `gorm:"type:uuid;index;not null" json:"target_id"`

	Type      string  `gorm:"type:varchar(16);not null" json:"type"`
	Mechanism string  `gorm:"type:text" json:"mechanism"`
	Severity  string  `gorm:"type:varchar(16);not null;default:low" json:"severity"`
	Suggestion *string `gorm:"type:text" json:"suggestion,omitempty"`
}

func (i *Interaction) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
