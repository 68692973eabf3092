package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email       string         `json:"email" gorm:"type:text;not null;uniqueIndex"`
	Name        *string        `json:"name" gorm:"type:text"`
	Image       *string        `json:"image" gorm:"type:text"`
	Role        Role           `json:"role" gorm:"type:text;default:customer"`
	Preferences datatypes.JSON `json:"preferences" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// DecodePreferences returns the stored preferences, zero-valued when none are set.
func (u *User) DecodePreferences() (types.UserPreferences, error) {
	var prefs types.UserPreferences
	if len(u.Preferences) == 0 || string(u.Preferences) == "null" {
		return prefs, nil
	}
	if err := json.Unmarshal(u.Preferences, &prefs); err != nil {
		return prefs, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return prefs, nil
}

// SetPreferences encodes prefs into the JSONB column.
func (u *User) SetPreferences(prefs types.UserPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	u.Preferences = datatypes.JSON(raw)
	return nil
}

// Session is an opaque login session. Expiry is enforced by the auth layer.
type Session struct {
	ID        string     `json:"id" gorm:"type:text;primaryKey"`
	UserID    *uuid.UUID `json:"userId" gorm:"type:uuid;index"`
	User      *User      `json:"-" gorm:"foreignKey:UserID"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"not null"`
}

func (Session) TableName() string { return "sessions" }

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
