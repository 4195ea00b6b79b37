package course

import (
	"sort"
	"strings"
)

type difficultyRule struct {
	level    Difficulty
	keywords []string
}

// difficultyRules are checked in order; the first rule with any keyword
// present decides the level. Beginner deliberately precedes Advanced.
var difficultyRules = []difficultyRule{
	{
		level: Beginner,
		keywords: []string{
			"beginner", "introduction", "intro", "basics", "basic", "fundamentals",
			"getting started", "first steps", "from scratch", "101", "setup",
		},
	},
	{
		level: Advanced,
		keywords: []string{
			"advanced", "expert", "professional", "mastery", "master class", "masterclass",
			"deep dive", "in-depth", "internals", "optimization", "performance", "architecture",
		},
	},
	{
		level: Intermediate,
		keywords: []string{
			"intermediate", "practical", "hands-on", "project", "build", "best practices",
			"patterns", "real world", "real-world",
		},
	},
}

// Classify scores a title and description. Text matching no rule is
// Intermediate.
func Classify(title, description string) Difficulty {
	text := strings.ToLower(title + " " + description)
	for _, rule := range difficultyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.level
			}
		}
	}
	return Intermediate
}

// SortByDifficulty orders results from Beginner to Advanced in place,
// keeping the input order among equal levels.
func SortByDifficulty(results []VideoResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Difficulty < results[j].Difficulty
	})
}
