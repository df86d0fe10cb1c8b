package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents an application account that can authenticate with the
// platform. Timezone is an IANA zone name used for local-time bucketing;
// Goals holds the goal tags selected during onboarding.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Timezone     string `gorm:"type:varchar(64)"`
	Goals        datatypes.JSON
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// GoalTags decodes the Goals JSON column into a slice of goal tags.
func (u *User) GoalTags() []string {
	if len(u.Goals) == 0 {
		return nil
	}
	var goals []string
	if err := json.Unmarshal(u.Goals, &goals); err != nil {
		return nil
	}
	return goals
}
