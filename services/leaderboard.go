package services

import (
	"log"
	"time"

	"comic-publish-system/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const leaderboardSize = 500

// LeaderboardService maintains a denormalized top-users snapshot and serves
// reads from it.
type LeaderboardService struct {
	DB      *gorm.DB
	Ranks   *RankService
	Enabled bool
}

func NewLeaderboardService(db *gorm.DB, ranks *RankService, enabled bool) *LeaderboardService {
	return &LeaderboardService{DB: db, Ranks: ranks, Enabled: enabled}
}

// StartScheduler rebuilds the snapshot every 10 minutes, plus once at boot.
func (s *LeaderboardService) StartScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			if err := s.Rebuild(); err != nil {
				log.Printf("[Leaderboard] rebuild failed: %v", err)
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
}

// Rebuild replaces the snapshot with the current top users by points, then
// level.
func (s *LeaderboardService) Rebuild() error {
	var users []models.User
	if err := s.DB.Where("points > 0").
		Order("points DESC, level DESC").
		Limit(leaderboardSize).
		Find(&users).Error; err != nil {
		return err
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		avatar := ""
		if u.AvatarURL != nil {
			avatar = *u.AvatarURL
		}
		entries = append(entries, models.LeaderboardEntry{
			ID:          uuid.NewString(),
			Rank:        i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.GetDisplayName(),
			AvatarURL:   avatar,
			Points:      u.Points,
			Level:       u.Level,
			RankPath:    u.RankPath,
			RankTitle:   s.Ranks.TitleForLevel(s.DB, u.RankPath, u.Level),
		})
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.LeaderboardEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

// LeaderboardPage is one page of leaderboard rows.
type LeaderboardPage struct {
	Entries []models.LeaderboardEntry `json:"leaderboard"`
	Page    int                       `json:"page"`
	PerPage int                       `json:"per_page"`
	Total   int64                     `json:"total"`
	Period  string                    `json:"period"`
}

// Get serves the snapshot, or an on-the-fly ranking of ledger points for
// day/week/month periods.
func (s *LeaderboardService) Get(page, perPage int, period string) (*LeaderboardPage, error) {
	if !s.Enabled {
		return nil, ErrProgressionDisabled
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}

	switch period {
	case "day", "week", "month":
		return s.getForPeriod(page, perPage, period)
	}

	var total int64
	if err := s.DB.Model(&models.LeaderboardEntry{}).Count(&total).Error; err != nil {
		return nil, err
	}
	var entries []models.LeaderboardEntry
	if err := s.DB.Order("rank ASC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return &LeaderboardPage{Entries: entries, Page: page, PerPage: perPage, Total: total, Period: "all"}, nil
}

func (s *LeaderboardService) getForPeriod(page, perPage int, period string) (*LeaderboardPage, error) {
	since := time.Now().UTC()
	switch period {
	case "day":
		since = since.AddDate(0, 0, -1)
	case "week":
		since = since.AddDate(0, 0, -7)
	case "month":
		since = since.AddDate(0, -1, 0)
	}

	type periodRow struct {
		UserID string
		Points int64
	}
	var rows []periodRow
	if err := s.DB.Model(&models.UserActivity{}).
		Select("user_id, SUM(points_earned) AS points").
		Where("created_at >= ? AND points_earned > 0", since).
		Group("user_id").
		Order("points DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		var u models.User
		if err := s.DB.Where("id = ?", row.UserID).First(&u).Error; err != nil {
			continue
		}
		avatar := ""
		if u.AvatarURL != nil {
			avatar = *u.AvatarURL
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:        (page-1)*perPage + i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.GetDisplayName(),
			AvatarURL:   avatar,
			Points:      row.Points,
			Level:       u.Level,
			RankPath:    u.RankPath,
			RankTitle:   s.Ranks.TitleForLevel(s.DB, u.RankPath, u.Level),
		})
	}

	var total int64
	if err := s.DB.Model(&models.UserActivity{}).
		Where("created_at >= ? AND points_earned > 0", since).
		Distinct("user_id").
		Count(&total).Error; err != nil {
		return nil, err
	}
	return &LeaderboardPage{Entries: entries, Page: page, PerPage: perPage, Total: total, Period: period}, nil
}
