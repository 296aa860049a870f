package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/tutorbot/pkg/models"
)

func progressWith(total, correct int) *models.UserProgress {
	return &models.UserProgress{TotalExercises: total, CorrectAnswers: correct}
}

func TestSelectDifficultyBeginnerFloor(t *testing.T) {
	assert.InDelta(t, 0.3, SelectDifficulty(progressWith(0, 0)), 1e-9)
	assert.InDelta(t, 0.3, SelectDifficulty(progressWith(4, 4)), 1e-9)
	assert.InDelta(t, 0.3, SelectDifficulty(nil), 1e-9)
}

func TestSelectDifficultyWithinBounds(t *testing.T) {
	for total := 0; total <= 200; total += 7 {
		for correct := 0; correct <= total; correct += 3 {
			d := SelectDifficulty(progressWith(total, correct))
			assert.GreaterOrEqual(t, d, 0.1)
			assert.LessOrEqual(t, d, 0.95)
		}
	}
}

func TestSelectDifficultyMonotoneInAccuracy(t *testing.T) {
	for total := 5; total <= 40; total += 5 {
		prev := 0.0
		for correct := 0; correct <= total; correct++ {
			d := SelectDifficulty(progressWith(total, correct))
			assert.GreaterOrEqual(t, d, prev,
				"difficulty dropped at %d/%d", correct, total)
			prev = d
		}
	}
}

func TestSelectDifficultyExperienceBonusSaturates(t *testing.T) {
	// Same accuracy, experience bonus capped at 10 exercises.
	atTen := SelectDifficulty(progressWith(10, 8))
	atHundred := SelectDifficulty(progressWith(100, 80))
	assert.InDelta(t, atTen, atHundred, 1e-9)
}
