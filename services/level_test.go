package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredPointsForLevel(t *testing.T) {
	assert.Equal(t, int64(0), RequiredPointsForLevel(0))
	assert.Equal(t, int64(0), RequiredPointsForLevel(1))
	assert.Equal(t, int64(150), RequiredPointsForLevel(2))
	assert.Equal(t, int64(350), RequiredPointsForLevel(3))
	assert.Equal(t, int64(600), RequiredPointsForLevel(4))
	assert.Equal(t, int64(900), RequiredPointsForLevel(5))
}

func TestRequiredPointsStrictlyIncreasing(t *testing.T) {
	for level := 1; level < 200; level++ {
		require.Less(t, RequiredPointsForLevel(level), RequiredPointsForLevel(level+1),
			"threshold must grow at level %d", level)
	}
}

// Loop invariant of the iterative level-up: the computed level L always
// satisfies required(L) <= points < required(L+1).
func TestLevelForPointsInverse(t *testing.T) {
	for points := int64(0); points <= 5000; points += 7 {
		level := LevelForPoints(points, 1)
		require.LessOrEqual(t, RequiredPointsForLevel(level), points)
		require.Greater(t, RequiredPointsForLevel(level+1), points)
	}
}

// A single huge grant must cross every threshold in one call without
// recursing.
func TestLevelForPointsLargeGrant(t *testing.T) {
	level := LevelForPoints(10_000_000, 1)
	require.Greater(t, level, 100)
	require.LessOrEqual(t, RequiredPointsForLevel(level), int64(10_000_000))
	require.Greater(t, RequiredPointsForLevel(level+1), int64(10_000_000))

	// Starting from a stale lower level converges to the same answer.
	assert.Equal(t, level, LevelForPoints(10_000_000, 50))
}

func TestLevelForPointsDoesNotDemote(t *testing.T) {
	// levelForPoints only walks upward from the current level.
	assert.Equal(t, 5, LevelForPoints(0, 5))
}

func TestProgressToNextLevel(t *testing.T) {
	assert.Equal(t, float64(0), ProgressToNextLevel(0, 1))
	assert.Equal(t, float64(50), ProgressToNextLevel(75, 1))
	assert.Equal(t, float64(100), ProgressToNextLevel(150, 1))
	assert.Equal(t, float64(100), ProgressToNextLevel(9999, 1)) // clamped
	assert.Equal(t, float64(0), ProgressToNextLevel(150, 2))
}
