package models

import "time"

// LeaderboardEntry is a denormalized snapshot row rebuilt on a schedule so
// the leaderboard endpoint never sorts the users table per request.
type LeaderboardEntry struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Rank        int       `gorm:"index;not null" json:"rank"`
	UserID      string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Username    string    `gorm:"not null" json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Points      int64     `gorm:"not null" json:"points"`
	Level       int       `gorm:"not null" json:"level"`
	RankPath    string    `gorm:"type:varchar(32)" json:"rank_path"`
	RankTitle   string    `json:"rank_title"`
	SnapshotAt  time.Time `gorm:"autoCreateTime" json:"snapshot_at"`
}
