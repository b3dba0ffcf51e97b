package services

import (
	"path/filepath"
	"testing"

	"comic-publish-system/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database with the full schema and seed
// catalogs.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "progression.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Comic{},
		&models.Chapter{},
		&models.Comment{},
		&models.Rating{},
		&models.UserActivity{},
		&models.Badge{},
		&models.UserBadge{},
		&models.RankTitle{},
		&models.LeaderboardEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := SeedProgressionData(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

// newTestServices wires the engine with the default config on top of db.
func newTestServices(t *testing.T, db *gorm.DB) *ProgressionService {
	t.Helper()
	cfg := DefaultProgressionConfig()
	ranks := NewRankService(db, cfg.RankTitlesEnabled)
	badges := NewBadgeService(db, cfg.BadgesEnabled)
	return NewProgressionService(db, cfg, badges, ranks)
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	id := uuid.NewString()
	user := models.User{
		ID:       id,
		Username: "reader-" + id[:8],
		Email:    "reader-" + id[:8] + "@example.com",
		Level:    1,
		RankPath: models.RankPathCultivation,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

// seedLedger inserts n point-earning ledger rows directly, bypassing the
// orchestrator, for cap setups.
func seedLedger(t *testing.T, db *gorm.DB, userID string, activityType models.ActivityType, n int) {
	t.Helper()
	rows := make([]models.UserActivity, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.UserActivity{
			ID:           uuid.NewString(),
			UserID:       userID,
			ActivityType: activityType,
			PointsEarned: 5,
		})
	}
	if err := db.CreateInBatches(rows, 100).Error; err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
}

func ledgerCount(t *testing.T, db *gorm.DB, userID string, activityType models.ActivityType) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.UserActivity{}).
		Where("user_id = ? AND activity_type = ?", userID, activityType).
		Count(&n).Error; err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	return n
}
