package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tutorbot/pkg/models"
)

func attemptAt(ts time.Time, topic string, correct bool) models.ExerciseAttempt {
	return models.ExerciseAttempt{
		ExerciseType: models.ExerciseGrammar,
		Topic:        topic,
		IsCorrect:    correct,
		Difficulty:   0.5,
		CreatedAt:    ts,
	}
}

func TestApplyCounters(t *testing.T) {
	p := &models.UserProgress{}
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, Apply(p, attemptAt(now, "To be", true)))
	require.NoError(t, Apply(p, attemptAt(now, "To be", false)))

	assert.Equal(t, 2, p.TotalExercises)
	assert.Equal(t, 1, p.CorrectAnswers)
	assert.InDelta(t, 0.5, p.Accuracy(), 1e-9)
	assert.Equal(t, now, p.LastActivity)
}

func TestApplyInvariantsHold(t *testing.T) {
	p := &models.UserProgress{}
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		ts = ts.Add(7 * time.Hour)
		require.NoError(t, Apply(p, attemptAt(ts, "Articles (a/an/the)", i%3 != 0)))

		assert.LessOrEqual(t, p.CorrectAnswers, p.TotalExercises)
		assert.GreaterOrEqual(t, p.Accuracy(), 0.0)
		assert.LessOrEqual(t, p.Accuracy(), 1.0)
		assert.GreaterOrEqual(t, p.StreakDays, 0)
	}
}

func TestApplyRejectsCorruptProgress(t *testing.T) {
	p := &models.UserProgress{TotalExercises: 2, CorrectAnswers: 5}
	err := Apply(p, attemptAt(time.Now(), "To be", true))

	require.ErrorIs(t, err, ErrInvalidProgress)
	// No partial update observable.
	assert.Equal(t, 2, p.TotalExercises)
	assert.Equal(t, 5, p.CorrectAnswers)
}

func TestApplyRejectsBadAttempt(t *testing.T) {
	p := &models.UserProgress{}

	bad := attemptAt(time.Now(), "To be", true)
	bad.TimeSpent = -3
	assert.ErrorIs(t, Apply(p, bad), ErrInvalidAttempt)

	assert.ErrorIs(t, Apply(p, attemptAt(time.Time{}, "To be", true)), ErrInvalidAttempt)
	assert.Zero(t, p.TotalExercises)
}

func TestStreakConsecutiveDays(t *testing.T) {
	p := &models.UserProgress{}
	day := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, Apply(p, attemptAt(day.AddDate(0, 0, i), "To be", true)))
	}
	assert.Equal(t, 3, p.StreakDays)
}

func TestStreakSameDayRepeatsUnchanged(t *testing.T) {
	p := &models.UserProgress{}
	day := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, Apply(p, attemptAt(day, "To be", true)))
	require.NoError(t, Apply(p, attemptAt(day.Add(5*time.Hour), "To be", true)))
	assert.Equal(t, 1, p.StreakDays)
}

func TestStreakGapResets(t *testing.T) {
	p := &models.UserProgress{}
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, Apply(p, attemptAt(day, "To be", true)))
	require.NoError(t, Apply(p, attemptAt(day.AddDate(0, 0, 1), "To be", true)))
	assert.Equal(t, 2, p.StreakDays)

	// Two idle days, streak restarts at 1.
	require.NoError(t, Apply(p, attemptAt(day.AddDate(0, 0, 4), "To be", true)))
	assert.Equal(t, 1, p.StreakDays)
}

func TestWeakTopicAddAndRemove(t *testing.T) {
	p := &models.UserProgress{}
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	topic := "Past Simple"

	// Five straight misses fill the window at 0% accuracy.
	for i := 0; i < topicWindow; i++ {
		ts = ts.Add(time.Minute)
		require.NoError(t, Apply(p, attemptAt(ts, topic, false)))
	}
	assert.True(t, p.IsWeak(topic))

	// Correct answers push the window accuracy past the removal threshold.
	for i := 0; i < topicWindow; i++ {
		ts = ts.Add(time.Minute)
		require.NoError(t, Apply(p, attemptAt(ts, topic, true)))
	}
	assert.False(t, p.IsWeak(topic))
}

func TestWeakTopicNeedsFullWindow(t *testing.T) {
	p := &models.UserProgress{}
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// Two misses are not enough history to flag the topic.
	require.NoError(t, Apply(p, attemptAt(ts, "Modal verbs", false)))
	require.NoError(t, Apply(p, attemptAt(ts.Add(time.Minute), "Modal verbs", false)))
	assert.False(t, p.IsWeak("Modal verbs"))
}

func TestWeakTopicsMostRecentFirst(t *testing.T) {
	p := &models.UserProgress{}
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, topic := range []string{"Past Simple", "Comparatives"} {
		for i := 0; i < topicWindow; i++ {
			ts = ts.Add(time.Minute)
			require.NoError(t, Apply(p, attemptAt(ts, topic, false)))
		}
	}
	assert.Equal(t, []string{"Comparatives", "Past Simple"}, p.WeakTopics)
}

func TestTopicHistoryBounded(t *testing.T) {
	p := &models.UserProgress{}
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		ts = ts.Add(time.Minute)
		require.NoError(t, Apply(p, attemptAt(ts, "To be", true)))
	}
	assert.Len(t, p.TopicHistory["To be"], topicWindow)
}

func TestApplyRecomputesLevel(t *testing.T) {
	p := &models.UserProgress{}
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// Six attempts, five correct: accuracy ≈ 0.83 → advanced.
	outcomes := []bool{true, true, true, true, true, false}
	for i, ok := range outcomes {
		require.NoError(t, Apply(p, attemptAt(ts.Add(time.Duration(i)*time.Minute), "To be", ok)))
	}
	assert.Equal(t, models.LevelAdvanced, p.Level)
}

func TestNewUserEndToEndScenario(t *testing.T) {
	p := &models.UserProgress{}

	// Fresh user: beginner, easy difficulty.
	assert.Equal(t, models.LevelBeginner, Classify(p.Accuracy(), p.TotalExercises))
	assert.InDelta(t, 0.3, SelectDifficulty(p), 1e-9)

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	outcomes := []bool{true, true, false, true, true, true}
	for i, ok := range outcomes {
		require.NoError(t, Apply(p, attemptAt(ts.Add(time.Duration(i)*time.Minute), "To be", ok)))
	}

	assert.Equal(t, models.LevelAdvanced, Classify(p.Accuracy(), p.TotalExercises))
	assert.Greater(t, SelectDifficulty(p), 0.3)
}
