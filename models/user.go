package models

import (
	"time"

	"gorm.io/gorm"
)

// User owns the progression state (Points, Level, RankPath). Points and Level
// are written only through ProgressionService.AwardPoints; everything else
// reads them.
type User struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       string  `gorm:"uniqueIndex;not null" json:"email"`
	Role        string  `gorm:"type:varchar(20);default:'reader'" json:"role"` // admin, moderator, uploader, reader
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`

	// Progression state
	Points   int64  `gorm:"not null;default:0" json:"points"`
	Level    int    `gorm:"not null;default:1" json:"level"`
	RankPath string `gorm:"type:varchar(32);default:'cultivation'" json:"rank_path"`

	Timestamps
}

// GetDisplayName falls back to the username when no display name is set.
func (u *User) GetDisplayName() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

func (u *User) IsUploader() bool {
	return u.Role == "uploader" || u.Role == "moderator" || u.Role == "admin"
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
