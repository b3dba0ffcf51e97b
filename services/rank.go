package services

import (
	"errors"
	"fmt"

	"comic-publish-system/models"

	"gorm.io/gorm"
)

// RankService resolves display titles from the rank_titles catalog and
// handles path switching.
type RankService struct {
	DB      *gorm.DB
	Enabled bool
}

func NewRankService(db *gorm.DB, enabled bool) *RankService {
	return &RankService{DB: db, Enabled: enabled}
}

// TitleForLevel looks up the catalog entry for (path, level). Levels beyond
// the seeded range keep the highest seeded title; a path with no entries at
// all falls back to a generic label.
func (s *RankService) TitleForLevel(tx *gorm.DB, path string, level int) string {
	if !s.Enabled {
		return ""
	}
	var rt models.RankTitle
	if err := tx.Where("rank_path = ? AND level = ?", path, level).First(&rt).Error; err == nil {
		return rt.Title
	}

	var top models.RankTitle
	if err := tx.Where("rank_path = ?", path).Order("level DESC").First(&top).Error; err == nil && level > top.Level {
		return top.Title
	}
	return fmt.Sprintf("Level %d", level)
}

// RankTitleEntry is one row of the public titles listing.
type RankTitleEntry struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// ListTitles returns every path's title table, ordered by level.
func (s *RankService) ListTitles() (map[string][]RankTitleEntry, error) {
	if !s.Enabled {
		return nil, ErrRankTitlesDisabled
	}
	var titles []models.RankTitle
	if err := s.DB.Order("rank_path, level").Find(&titles).Error; err != nil {
		return nil, err
	}
	byPath := make(map[string][]RankTitleEntry)
	for _, t := range titles {
		byPath[t.RankPath] = append(byPath[t.RankPath], RankTitleEntry{
			Level: t.Level,
			Title: t.Title,
			Color: t.Color,
		})
	}
	return byPath, nil
}

// ChangeRankPath switches the user's display path. Points and level are
// untouched.
func (s *RankService) ChangeRankPath(userID, newPath string) (*models.User, error) {
	if !s.Enabled {
		return nil, ErrRankTitlesDisabled
	}
	if !models.ValidRankPath(newPath) {
		return nil, ErrInvalidRankPath
	}

	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.RankPath = newPath
	if err := s.DB.Model(&models.User{}).Where("id = ?", userID).Update("rank_path", newPath).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
