package engine

import "github.com/example/tutorbot/pkg/models"

// minSampleSize is the number of graded exercises required before accuracy is
// trusted for classification and difficulty. Below it everyone is a beginner
// so a couple of lucky answers cannot flip the level.
const minSampleSize = 5

// Classification thresholds on cumulative accuracy
const (
	intermediateAccuracy = 0.55
	advancedAccuracy     = 0.80
)

// Classify maps cumulative accuracy and exercise count to a proficiency
// level. It is pure: callers may also feed it hypothetical "as if this answer
// counted" stats to pre-compute the level recorded with a new attempt.
func Classify(accuracy float64, totalExercises int) models.Level {
	if totalExercises < minSampleSize {
		return models.LevelBeginner
	}
	switch {
	case accuracy < intermediateAccuracy:
		return models.LevelBeginner
	case accuracy <= advancedAccuracy:
		return models.LevelIntermediate
	default:
		return models.LevelAdvanced
	}
}
