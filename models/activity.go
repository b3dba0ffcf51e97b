package models

import "time"

// ActivityType is a closed enumeration of point-earning actions.
type ActivityType string

const (
	ActivityReadChapter ActivityType = "read_chapter"
	ActivityComment     ActivityType = "comment"
	ActivityRating      ActivityType = "rating"
	ActivityDailyLogin  ActivityType = "daily_login"
	ActivityUploadComic ActivityType = "upload_comic"
)

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityReadChapter, ActivityComment, ActivityRating, ActivityDailyLogin, ActivityUploadComic:
		return true
	}
	return false
}

// UserActivity is the append-only points ledger. Rows are never updated or
// deleted; daily caps, first-time checks and stats all count against this
// table.
type UserActivity struct {
	ID           string       `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string       `gorm:"index:idx_activities_user_type;not null" json:"user_id"`
	ActivityType ActivityType `gorm:"index:idx_activities_user_type;type:varchar(50);not null" json:"activity_type"`
	PointsEarned int64        `gorm:"not null;default:0" json:"points_earned"`
	ReferenceID  *string      `gorm:"type:uuid;index" json:"reference_id,omitempty"` // comic, chapter or comment being acted on
	CreatedAt    time.Time    `gorm:"autoCreateTime;index" json:"created_at"`
}
