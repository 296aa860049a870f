package engine

import "github.com/example/tutorbot/pkg/models"

// curriculum lists the grammar topics taught at each level, in teaching order
var curriculum = map[models.Level][]string{
	models.LevelBeginner: {
		"Present Simple",
		"To be",
		"Articles (a/an/the)",
		"Plural nouns",
		"Basic pronouns",
	},
	models.LevelIntermediate: {
		"Past Simple",
		"Present Continuous",
		"Future Simple",
		"Comparatives",
		"Modal verbs",
	},
	models.LevelAdvanced: {
		"Present Perfect",
		"Past Perfect",
		"Conditionals",
		"Passive Voice",
		"Reported Speech",
	},
}

// Curriculum returns a copy of the topic list for the level. Unknown levels
// fall back to the beginner list.
func Curriculum(level models.Level) []string {
	topics, ok := curriculum[level]
	if !ok {
		topics = curriculum[models.LevelBeginner]
	}
	out := make([]string, len(topics))
	copy(out, topics)
	return out
}

// RecommendTopics orders the level's curriculum so that recorded weak topics
// come first, keeping their own order (most recently flagged first). Callers
// take the head of the list as the next topic to practice. The returned slice
// is freshly built on every call.
func RecommendTopics(level models.Level, weakTopics []string) []string {
	topics := Curriculum(level)
	if len(weakTopics) == 0 {
		return topics
	}

	inCurriculum := make(map[string]bool, len(topics))
	for _, t := range topics {
		inCurriculum[t] = true
	}

	ordered := make([]string, 0, len(topics))
	seen := make(map[string]bool, len(topics))
	for _, t := range weakTopics {
		if inCurriculum[t] && !seen[t] {
			ordered = append(ordered, t)
			seen[t] = true
		}
	}
	for _, t := range topics {
		if !seen[t] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}
