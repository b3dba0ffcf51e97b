package services

import (
	"fmt"
	"testing"

	"comic-publish-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRankedUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		id := uuid.NewString()
		u := models.User{
			ID:       id,
			Username: fmt.Sprintf("ranked-%d-%s", i, id[:8]),
			Email:    fmt.Sprintf("ranked-%d-%s@example.com", i, id[:8]),
			Points:   int64((i + 1) * 100),
			Level:    LevelForPoints(int64((i+1)*100), 1),
			RankPath: models.RankPathCultivation,
		}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, u)
	}
	return users
}

func TestLeaderboardRebuildAndGet(t *testing.T) {
	db := newTestDB(t)
	ranks := NewRankService(db, true)
	lb := NewLeaderboardService(db, ranks, true)

	users := newRankedUsers(t, db, 5)
	require.NoError(t, lb.Rebuild())

	page, err := lb.Get(1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, "all", page.Period)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Entries, 5)

	// Highest points first, ranks dense from 1.
	top := page.Entries[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, users[4].ID, top.UserID)
	assert.Equal(t, int64(500), top.Points)
	assert.NotEmpty(t, top.RankTitle)
	for i := 1; i < len(page.Entries); i++ {
		assert.Equal(t, i+1, page.Entries[i].Rank)
		assert.GreaterOrEqual(t, page.Entries[i-1].Points, page.Entries[i].Points)
	}
}

func TestLeaderboardRebuildReplacesSnapshot(t *testing.T) {
	db := newTestDB(t)
	ranks := NewRankService(db, true)
	lb := NewLeaderboardService(db, ranks, true)

	newRankedUsers(t, db, 3)
	require.NoError(t, lb.Rebuild())
	require.NoError(t, lb.Rebuild())

	var rows int64
	require.NoError(t, db.Model(&models.LeaderboardEntry{}).Count(&rows).Error)
	assert.Equal(t, int64(3), rows, "rebuild replaces, never appends")
}

func TestLeaderboardPeriod(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	ranks := NewRankService(db, true)
	lb := NewLeaderboardService(db, ranks, true)

	busy := createTestUser(t, db)
	quiet := createTestUser(t, db)
	for i := 0; i < 3; i++ {
		_, err := svc.AwardPoints(busy.ID, models.ActivityReadChapter, nil)
		require.NoError(t, err)
	}
	_, err := svc.AwardPoints(quiet.ID, models.ActivityReadChapter, nil)
	require.NoError(t, err)

	page, err := lb.Get(1, 10, "day")
	require.NoError(t, err)
	assert.Equal(t, "day", page.Period)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, busy.ID, page.Entries[0].UserID)
	assert.Equal(t, int64(25+5+5), page.Entries[0].Points, "period points sum the ledger, not the lifetime total")
}

func TestLeaderboardDisabled(t *testing.T) {
	db := newTestDB(t)
	lb := NewLeaderboardService(db, NewRankService(db, true), false)
	_, err := lb.Get(1, 10, "")
	assert.ErrorIs(t, err, ErrProgressionDisabled)
}
