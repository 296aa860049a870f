package engine

import "github.com/example/tutorbot/pkg/models"

// Difficulty bounds and the fixed easy value used until enough exercises have
// been graded. Difficulty only shapes generated content, it is not a grading
// mechanism.
const (
	minDifficulty      = 0.1
	maxDifficulty      = 0.95
	beginnerDifficulty = 0.3
)

// SelectDifficulty maps the user's statistics to a continuous difficulty in
// [minDifficulty, maxDifficulty]. Accuracy dominates; experience adds a small
// damped bonus that saturates at 10 exercises, so a short hot streak cannot
// spike the difficulty.
func SelectDifficulty(p *models.UserProgress) float64 {
	if p == nil || p.TotalExercises < minSampleSize {
		return beginnerDifficulty
	}

	experience := float64(p.TotalExercises)
	if experience > 10 {
		experience = 10
	}

	d := 0.3 + 0.5*p.Accuracy() + 0.05*experience/10
	if d < minDifficulty {
		return minDifficulty
	}
	if d > maxDifficulty {
		return maxDifficulty
	}
	return d
}
