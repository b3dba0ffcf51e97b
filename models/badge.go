package models

import "time"

// RequirementType enumerates the stats a badge threshold can be checked
// against.
type RequirementType string

const (
	RequirePoints   RequirementType = "points"
	RequireLevel    RequirementType = "level"
	RequireComments RequirementType = "comments"
	RequireReads    RequirementType = "reads"
)

func (t RequirementType) Valid() bool {
	switch t {
	case RequirePoints, RequireLevel, RequireComments, RequireReads:
		return true
	}
	return false
}

// Badge is a catalog entry managed by admins. Inactive badges are never
// evaluated.
type Badge struct {
	ID               string          `gorm:"primaryKey;type:uuid" json:"id"`
	Code             string          `gorm:"uniqueIndex;not null" json:"code"` // slug of Name, e.g. "bookworm"
	Name             string          `gorm:"not null" json:"name"`
	Description      string          `json:"description"`
	Icon             string          `gorm:"type:text" json:"icon"` // emoji or uploaded icon URL
	Category         string          `gorm:"type:varchar(50)" json:"category"`
	RequirementType  RequirementType `gorm:"type:varchar(50)" json:"requirement_type"`
	RequirementValue int64           `json:"requirement_value"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge records one earned badge. The composite unique index makes a
// grant per (user, badge) a hard guarantee; grants are never revoked.
type UserBadge struct {
	ID       string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"user_id"`
	BadgeID  string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"badge_id"`
	EarnedAt time.Time `gorm:"autoCreateTime" json:"earned_at"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

// SeedBadges is the initial badge catalog, inserted once on first boot.
var SeedBadges = []Badge{
	{Name: "First Chapter", Description: "Read your first chapter", Icon: "📖", Category: "reading", RequirementType: RequireReads, RequirementValue: 1},
	{Name: "Bookworm", Description: "Read 100 chapters", Icon: "📚", Category: "reading", RequirementType: RequireReads, RequirementValue: 100},
	{Name: "Living Library", Description: "Read 500 chapters", Icon: "📕", Category: "reading", RequirementType: RequireReads, RequirementValue: 500},
	{Name: "Commentator", Description: "Write 50 comments", Icon: "💬", Category: "commenting", RequirementType: RequireComments, RequirementValue: 50},
	{Name: "Rising Star", Description: "Reach level 2", Icon: "⭐", Category: "social", RequirementType: RequireLevel, RequirementValue: 2},
	{Name: "Veteran", Description: "Reach level 5", Icon: "🌟", Category: "social", RequirementType: RequireLevel, RequirementValue: 5},
	{Name: "Grandmaster", Description: "Reach level 10", Icon: "✨", Category: "special", RequirementType: RequireLevel, RequirementValue: 10},
	{Name: "Enthusiast", Description: "Earn 1000 points", Icon: "🔥", Category: "social", RequirementType: RequirePoints, RequirementValue: 1000},
	{Name: "Devoted", Description: "Earn 5000 points", Icon: "💎", Category: "special", RequirementType: RequirePoints, RequirementValue: 5000},
}
