package services

import (
	"errors"
	"log"
	"time"

	"comic-publish-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressionConfig is injected at construction time so the engine never
// reads ambient global state. Values are tunable per deployment.
type ProgressionConfig struct {
	Enabled           bool
	BadgesEnabled     bool
	RankTitlesEnabled bool

	PointValues     map[models.ActivityType]int64
	FirstTimeBonus  int64 // extra points the first time a user ever does an activity type
	ReadDailyCap    int64 // read_chapter entries that may earn points per UTC day
	CommentDailyCap int64 // comment entries that may earn points per UTC day
}

// DefaultProgressionConfig returns the production point table and caps.
func DefaultProgressionConfig() ProgressionConfig {
	return ProgressionConfig{
		Enabled:           true,
		BadgesEnabled:     true,
		RankTitlesEnabled: true,
		PointValues: map[models.ActivityType]int64{
			models.ActivityReadChapter: 5,
			models.ActivityComment:     10,
			models.ActivityRating:      15,
			models.ActivityDailyLogin:  10,
			models.ActivityUploadComic: 50,
		},
		FirstTimeBonus:  20,
		ReadDailyCap:    200,
		CommentDailyCap: 5,
	}
}

// ProgressionService is the single write path into progression state. All
// collaborators (reading, commenting, rating, login, upload) go through
// AwardPoints; nothing else mutates points or level.
type ProgressionService struct {
	DB     *gorm.DB
	Config ProgressionConfig
	Badges *BadgeService
	Ranks  *RankService
}

func NewProgressionService(db *gorm.DB, cfg ProgressionConfig, badges *BadgeService, ranks *RankService) *ProgressionService {
	return &ProgressionService{DB: db, Config: cfg, Badges: badges, Ranks: ranks}
}

// AwardResult summarizes one award. A rate-limited award is a zero-effect
// result, not an error.
type AwardResult struct {
	PointsEarned int64  `json:"points_earned"`
	TotalPoints  int64  `json:"total_points"`
	LevelUp      bool   `json:"level_up"`
	NewLevel     int    `json:"new_level"`
	RankTitle    string `json:"rank_title"`
}

// AwardPoints runs the full award pipeline in one transaction: eligibility,
// first-time bonus, ledger append, level recompute, badge pass. The user row
// is locked for the duration so concurrent awards for the same user
// serialize; eligibility counts and the ledger insert see the same view the
// point update commits with.
func (s *ProgressionService) AwardPoints(userID string, activityType models.ActivityType, referenceID *string) (*AwardResult, error) {
	if !s.Config.Enabled {
		return &AwardResult{}, nil
	}
	if !activityType.Valid() {
		return nil, ErrInvalidActivity
	}

	var result *AwardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		query := tx
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		eligible, err := s.canEarnPoints(tx, userID, activityType, referenceID)
		if err != nil {
			return err
		}
		if !eligible {
			// Rate-limited: expected outcome, nothing is written.
			result = &AwardResult{
				TotalPoints: user.Points,
				NewLevel:    user.Level,
				RankTitle:   s.Ranks.TitleForLevel(tx, user.RankPath, user.Level),
			}
			return nil
		}

		points := s.Config.PointValues[activityType]
		first, err := s.isFirstTimeActivity(tx, userID, activityType)
		if err != nil {
			return err
		}
		if first {
			points += s.Config.FirstTimeBonus
		}

		entry := models.UserActivity{
			ID:           uuid.NewString(),
			UserID:       userID,
			ActivityType: activityType,
			PointsEarned: points,
			ReferenceID:  referenceID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		oldLevel := user.Level
		user.Points += points
		user.Level = LevelForPoints(user.Points, user.Level)
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{"points": user.Points, "level": user.Level}).Error; err != nil {
			return err
		}

		s.Badges.EvaluateForUser(tx, &user)

		result = &AwardResult{
			PointsEarned: points,
			TotalPoints:  user.Points,
			LevelUp:      user.Level > oldLevel,
			NewLevel:     user.Level,
			RankTitle:    s.Ranks.TitleForLevel(tx, user.RankPath, user.Level),
		}
		log.Printf("🎮 points awarded: user=%s type=%s points=%d total=%d level=%d",
			userID, activityType, points, user.Points, user.Level)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// canEarnPoints enforces the anti-abuse rules. It must run on the same
// transactional view the subsequent insert uses.
func (s *ProgressionService) canEarnPoints(tx *gorm.DB, userID string, activityType models.ActivityType, referenceID *string) (bool, error) {
	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)

	switch activityType {
	case models.ActivityDailyLogin:
		// Once per UTC day.
		n, err := s.countActivities(tx, userID, activityType, &startOfDay, nil)
		return n == 0, err

	case models.ActivityReadChapter:
		// Reads past the cap still happen; they just stop earning.
		n, err := s.countActivities(tx, userID, activityType, &startOfDay, nil)
		return n < s.Config.ReadDailyCap, err

	case models.ActivityComment:
		n, err := s.countActivities(tx, userID, activityType, &startOfDay, nil)
		return n < s.Config.CommentDailyCap, err

	case models.ActivityRating:
		// Once per target, ever. Changing the rating value later earns nothing.
		if referenceID == nil {
			return true, nil
		}
		n, err := s.countActivities(tx, userID, activityType, nil, referenceID)
		return n == 0, err
	}
	return true, nil
}

// isFirstTimeActivity reports whether the user has never done this activity
// type before.
func (s *ProgressionService) isFirstTimeActivity(tx *gorm.DB, userID string, activityType models.ActivityType) (bool, error) {
	n, err := s.countActivities(tx, userID, activityType, nil, nil)
	return n == 0, err
}

func (s *ProgressionService) countActivities(tx *gorm.DB, userID string, activityType models.ActivityType, since *time.Time, referenceID *string) (int64, error) {
	query := tx.Model(&models.UserActivity{}).
		Where("user_id = ? AND activity_type = ?", userID, activityType)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	if referenceID != nil {
		query = query.Where("reference_id = ?", *referenceID)
	}
	var n int64
	err := query.Count(&n).Error
	return n, err
}

// UserStats is the aggregate view served by the stats endpoint.
type UserStats struct {
	Points          int64   `json:"points"`
	Level           int     `json:"level"`
	RankTitle       string  `json:"rank_title"`
	RankPathDisplay string  `json:"rank_path_display"`
	RankLogo        string  `json:"rank_logo,omitempty"`
	ProgressToNext  float64 `json:"progress_to_next"`
	TotalReads      int64   `json:"total_reads"`
	TotalComments   int64   `json:"total_comments"`
	TotalRatings    int64   `json:"total_ratings"`
	BadgeCount      int64   `json:"badge_count"`
}

// GetUserStats returns the full progression view for a user.
func (s *ProgressionService) GetUserStats(userID string) (*UserStats, error) {
	if !s.Config.Enabled {
		return nil, ErrProgressionDisabled
	}

	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	stats := &UserStats{
		Points:          user.Points,
		Level:           user.Level,
		RankTitle:       s.Ranks.TitleForLevel(s.DB, user.RankPath, user.Level),
		RankPathDisplay: models.RankPathDisplay(user.RankPath),
		RankLogo:        models.RankLogoURL(user.RankPath, user.Level),
		ProgressToNext:  ProgressToNextLevel(user.Points, user.Level),
	}

	for _, c := range []struct {
		activityType models.ActivityType
		dest         *int64
	}{
		{models.ActivityReadChapter, &stats.TotalReads},
		{models.ActivityComment, &stats.TotalComments},
		{models.ActivityRating, &stats.TotalRatings},
	} {
		n, err := s.countActivities(s.DB, userID, c.activityType, nil, nil)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	if err := s.DB.Model(&models.UserBadge{}).Where("user_id = ?", userID).Count(&stats.BadgeCount).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ActivityPage is one page of a user's ledger history.
type ActivityPage struct {
	Activities []models.UserActivity `json:"activities"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	Total      int64                 `json:"total"`
}

// ListUserActivities returns the user's ledger, newest first.
func (s *ProgressionService) ListUserActivities(userID string, page, perPage int) (*ActivityPage, error) {
	if !s.Config.Enabled {
		return nil, ErrProgressionDisabled
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := s.DB.Model(&models.UserActivity{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}

	var activities []models.UserActivity
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&activities).Error; err != nil {
		return nil, err
	}

	return &ActivityPage{Activities: activities, Page: page, PerPage: perPage, Total: total}, nil
}
