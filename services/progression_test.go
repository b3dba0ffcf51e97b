package services

import (
	"sync"
	"testing"

	"comic-publish-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardPointsFirstTimeBonus(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)

	first, err := svc.AwardPoints(user.ID, models.ActivityComment, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(30), first.PointsEarned, "first comment: 10 base + 20 bonus")

	second, err := svc.AwardPoints(user.ID, models.ActivityComment, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), second.PointsEarned, "bonus is once per activity type, ever")
	assert.Equal(t, int64(40), second.TotalPoints)
}

func TestAwardPointsDailyLoginOncePerDay(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)

	first, err := svc.AwardPoints(user.ID, models.ActivityDailyLogin, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(30), first.PointsEarned)

	second, err := svc.AwardPoints(user.ID, models.ActivityDailyLogin, nil)
	require.NoError(t, err)
	assert.Zero(t, second.PointsEarned, "second login the same day is a no-op")
	assert.Equal(t, first.TotalPoints, second.TotalPoints)
	assert.Equal(t, int64(1), ledgerCount(t, db, user.ID, models.ActivityDailyLogin),
		"a denied award writes no ledger entry")
}

func TestAwardPointsCommentDailyCap(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)

	for i := 0; i < 5; i++ {
		result, err := svc.AwardPoints(user.ID, models.ActivityComment, nil)
		require.NoError(t, err)
		require.Positive(t, result.PointsEarned, "comment %d should earn", i+1)
	}

	capped, err := svc.AwardPoints(user.ID, models.ActivityComment, nil)
	require.NoError(t, err)
	assert.Zero(t, capped.PointsEarned)
	assert.Equal(t, int64(5), ledgerCount(t, db, user.ID, models.ActivityComment))
}

func TestAwardPointsReadDailyCap(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)

	// 200 reads already granted today.
	seedLedger(t, db, user.ID, models.ActivityReadChapter, 200)

	result, err := svc.AwardPoints(user.ID, models.ActivityReadChapter, nil)
	require.NoError(t, err)
	assert.Zero(t, result.PointsEarned, "read #201 earns nothing")
	assert.Equal(t, int64(200), ledgerCount(t, db, user.ID, models.ActivityReadChapter))
}

func TestAwardPointsRatingOncePerTarget(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)
	comicA := uuid.NewString()
	comicB := uuid.NewString()

	first, err := svc.AwardPoints(user.ID, models.ActivityRating, &comicA)
	require.NoError(t, err)
	assert.Equal(t, int64(35), first.PointsEarned, "15 base + 20 first-time bonus")

	repeat, err := svc.AwardPoints(user.ID, models.ActivityRating, &comicA)
	require.NoError(t, err)
	assert.Zero(t, repeat.PointsEarned, "same target never earns twice")

	other, err := svc.AwardPoints(user.ID, models.ActivityRating, &comicB)
	require.NoError(t, err)
	assert.Equal(t, int64(15), other.PointsEarned, "new target earns, without the bonus")
}

func TestAwardPointsInvalidInput(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)

	_, err := svc.AwardPoints(user.ID, models.ActivityType("speedrun"), nil)
	assert.ErrorIs(t, err, ErrInvalidActivity)

	_, err = svc.AwardPoints(uuid.NewString(), models.ActivityComment, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.Zero(t, ledgerCount(t, db, user.ID, models.ActivityComment),
		"rejected input writes nothing")
}

func TestAwardPointsDisabledEngine(t *testing.T) {
	db := newTestDB(t)
	cfg := DefaultProgressionConfig()
	cfg.Enabled = false
	ranks := NewRankService(db, cfg.RankTitlesEnabled)
	badges := NewBadgeService(db, cfg.BadgesEnabled)
	svc := NewProgressionService(db, cfg, badges, ranks)
	user := createTestUser(t, db)

	result, err := svc.AwardPoints(user.ID, models.ActivityComment, nil)
	require.NoError(t, err)
	assert.Equal(t, &AwardResult{}, result, "disabled engine is a guaranteed no-op")
	assert.Zero(t, ledgerCount(t, db, user.ID, models.ActivityComment))

	_, err = svc.GetUserStats(user.ID)
	assert.ErrorIs(t, err, ErrProgressionDisabled)

	_, err = svc.ListUserActivities(user.ID, 1, 20)
	assert.ErrorIs(t, err, ErrProgressionDisabled)
}

// End-to-end: a fresh user uploads a comic, then reads 20 chapters. The
// upload is worth 50+20, the first read 5+20, the rest 5 each; level 2 comes
// at 150 points.
func TestAwardPointsEndToEnd(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)

	upload, err := svc.AwardPoints(user.ID, models.ActivityUploadComic, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(70), upload.PointsEarned)
	assert.Equal(t, int64(70), upload.TotalPoints)
	assert.False(t, upload.LevelUp)
	assert.Equal(t, 1, upload.NewLevel)
	assert.Equal(t, "Qi Refining", upload.RankTitle)

	levelUps := 0
	var last *AwardResult
	for i := 0; i < 20; i++ {
		last, err = svc.AwardPoints(user.ID, models.ActivityReadChapter, nil)
		require.NoError(t, err)
		if last.LevelUp {
			levelUps++
		}
	}

	assert.Equal(t, int64(70+25+19*5), last.TotalPoints) // 190
	assert.Equal(t, 2, last.NewLevel)
	assert.Equal(t, 1, levelUps, "exactly one read crosses the 150-point threshold")
	assert.Equal(t, "Foundation Establishment", last.RankTitle)

	var fresh models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&fresh).Error)
	assert.Equal(t, int64(190), fresh.Points)
	assert.Equal(t, 2, fresh.Level)
}

// N concurrent daily-login awards for one user must produce exactly one
// ledger entry and one point credit. Races that lose the serialization may
// fail their transaction or come back rate-limited; neither may double-credit.
func TestAwardPointsConcurrentDailyLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)

	const workers = 8
	results := make([]*AwardResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.AwardPoints(user.ID, models.ActivityDailyLogin, nil)
		}(i)
	}
	wg.Wait()

	credited := 0
	for i := 0; i < workers; i++ {
		if errs[i] == nil && results[i].PointsEarned > 0 {
			credited++
		}
	}
	assert.Equal(t, 1, credited, "exactly one award earns regardless of racing calls")
	assert.Equal(t, int64(1), ledgerCount(t, db, user.ID, models.ActivityDailyLogin))

	var fresh models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&fresh).Error)
	assert.Equal(t, int64(30), fresh.Points, "10 base + 20 first-time bonus, once")
}

func TestGetUserStats(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)

	ref := uuid.NewString()
	_, err := svc.AwardPoints(user.ID, models.ActivityReadChapter, nil)
	require.NoError(t, err)
	_, err = svc.AwardPoints(user.ID, models.ActivityComment, nil)
	require.NoError(t, err)
	_, err = svc.AwardPoints(user.ID, models.ActivityRating, &ref)
	require.NoError(t, err)

	stats, err := svc.GetUserStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25+30+35), stats.Points)
	assert.Equal(t, int64(1), stats.TotalReads)
	assert.Equal(t, int64(1), stats.TotalComments)
	assert.Equal(t, int64(1), stats.TotalRatings)
	assert.Equal(t, "Cultivation", stats.RankPathDisplay)
	assert.Equal(t, "Qi Refining", stats.RankTitle)
	assert.InDelta(t, float64(90)/150*100, stats.ProgressToNext, 0.01)
	assert.Equal(t, int64(1), stats.BadgeCount, "the first read grants First Chapter")

	_, err = svc.GetUserStats(uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUserActivities(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)
	user := createTestUser(t, db)

	for i := 0; i < 3; i++ {
		_, err := svc.AwardPoints(user.ID, models.ActivityReadChapter, nil)
		require.NoError(t, err)
	}

	page, err := svc.ListUserActivities(user.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Activities, 2)

	page2, err := svc.ListUserActivities(user.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Activities, 1)
}
