package models

// Progression paths a user can display titles from. Switching paths is
// cosmetic; points and level are shared across paths.
const (
	RankPathCultivation = "cultivation"
	RankPathDemonLord   = "demon-lord"
	RankPathRoyal       = "royal"
)

var RankPaths = []string{RankPathCultivation, RankPathDemonLord, RankPathRoyal}

func ValidRankPath(path string) bool {
	for _, p := range RankPaths {
		if p == path {
			return true
		}
	}
	return false
}

// RankPathDisplay returns the human-readable name for a path.
func RankPathDisplay(path string) string {
	switch path {
	case RankPathCultivation:
		return "Cultivation"
	case RankPathDemonLord:
		return "Demon Lord"
	case RankPathRoyal:
		return "Royal"
	}
	return "Cultivation"
}

// RankTitle maps (path, level) to a display title. Read-only catalog; levels
// above the seeded range cap out at the highest seeded title.
type RankTitle struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	RankPath string `gorm:"uniqueIndex:idx_rank_path_level;type:varchar(32);not null" json:"rank_path"`
	Level    int    `gorm:"uniqueIndex:idx_rank_path_level;not null" json:"level"`
	Title    string `gorm:"not null" json:"title"`
	Color    string `gorm:"type:varchar(7);default:'#000000'" json:"color"`
}

// royalTierLogos maps royal-path levels to tier logo URLs. Levels past the
// table share the top-tier logo.
var royalTierLogos = map[int]string{
	1: "https://cdn.comicpublish.net/ranks/royal/tier-bronze.webp",
	2: "https://cdn.comicpublish.net/ranks/royal/tier-silver.webp",
	3: "https://cdn.comicpublish.net/ranks/royal/tier-gold.webp",
	4: "https://cdn.comicpublish.net/ranks/royal/tier-platinum.webp",
	5: "https://cdn.comicpublish.net/ranks/royal/tier-diamond.webp",
	6: "https://cdn.comicpublish.net/ranks/royal/tier-master.webp",
}

// RankLogoURL returns the badge-path logo for (path, level), or "" when the
// path has none. Only the royal path ships tier logos.
func RankLogoURL(path string, level int) string {
	if path != RankPathRoyal {
		return ""
	}
	if url, ok := royalTierLogos[level]; ok {
		return url
	}
	if level >= 7 {
		return "https://cdn.comicpublish.net/ranks/royal/tier-grandmaster.webp"
	}
	return ""
}

// SeedRankTitles is the initial title catalog for all three paths, inserted
// once on first boot. Each path covers levels 1-10.
var SeedRankTitles = func() []RankTitle {
	cultivation := []string{
		"Qi Refining", "Foundation Establishment", "Golden Core", "Nascent Soul",
		"Spirit Transformation", "Void Refinement", "Body Integration",
		"Great Ascension", "True Immortal", "Golden Immortal",
	}
	demonLord := []string{
		"Demon Apprentice", "Demon Soldier", "Demon General", "Demon Lord",
		"Demon Emperor", "Demon Sovereign", "Demon Venerable", "Demon God",
		"Demon Overlord", "Demon Progenitor",
	}
	royal := []string{
		"Bronze", "Silver", "Gold", "Platinum", "Diamond",
		"Master", "Grandmaster", "Epic", "Legend", "Mythic",
	}

	var titles []RankTitle
	add := func(path, color string, names []string) {
		for i, name := range names {
			titles = append(titles, RankTitle{RankPath: path, Level: i + 1, Title: name, Color: color})
		}
	}
	add(RankPathCultivation, "#22c55e", cultivation)
	add(RankPathDemonLord, "#ef4444", demonLord)
	add(RankPathRoyal, "#f59e0b", royal)
	return titles
}()
