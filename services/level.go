package services

// Level math for the progression engine. Thresholds grow by an extra 50
// points per level: 0, 150, 350, 600, 900, ...

// RequiredPointsForLevel returns the cumulative points needed to hold level.
// Level 1 (and below) needs nothing.
func RequiredPointsForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return n*100 + (int64(level)*n/2)*50
}

// LevelForPoints returns the highest level the point total qualifies for,
// walking up from currentLevel. The loop is deliberately iterative: a single
// grant can cross many thresholds and must not grow the call stack.
// Invariant: level only increases while points >= RequiredPointsForLevel(level+1).
func LevelForPoints(points int64, currentLevel int) int {
	level := currentLevel
	if level < 1 {
		level = 1
	}
	for points >= RequiredPointsForLevel(level + 1) {
		level++
	}
	return level
}

// ProgressToNextLevel returns percent progress from the current level's
// threshold to the next, clamped to [0, 100].
func ProgressToNextLevel(points int64, level int) float64 {
	current := RequiredPointsForLevel(level)
	next := RequiredPointsForLevel(level + 1)
	if next == current {
		return 100
	}
	progress := float64(points-current) / float64(next-current) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
