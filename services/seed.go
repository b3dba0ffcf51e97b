package services

import (
	"log"

	"comic-publish-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// SeedProgressionData inserts the badge and rank-title catalogs on first
// boot. Existing rows are left alone so admin edits survive restarts.
func SeedProgressionData(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Badge{}).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		badges := make([]models.Badge, len(models.SeedBadges))
		copy(badges, models.SeedBadges)
		for i := range badges {
			badges[i].ID = uuid.NewString()
			badges[i].Code = slug.Make(badges[i].Name)
			badges[i].IsActive = true
		}
		if err := db.Create(&badges).Error; err != nil {
			return err
		}
		log.Printf("🌱 seeded %d badges", len(badges))
	}

	if err := db.Model(&models.RankTitle{}).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		titles := make([]models.RankTitle, len(models.SeedRankTitles))
		copy(titles, models.SeedRankTitles)
		for i := range titles {
			titles[i].ID = uuid.NewString()
		}
		if err := db.Create(&titles).Error; err != nil {
			return err
		}
		log.Printf("🌱 seeded %d rank titles", len(titles))
	}
	return nil
}
