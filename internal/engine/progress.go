package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/tutorbot/pkg/models"
)

// Rolling per-topic window and the weak-set hysteresis band. A topic enters
// the weak set when accuracy over a full window drops below weakAddThreshold
// and leaves once it climbs back to weakRemoveThreshold.
const (
	topicWindow         = 5
	weakAddThreshold    = 0.5
	weakRemoveThreshold = 0.7
)

// ErrInvalidProgress marks a progress record that violates its invariants.
// That is a programming defect upstream: the engine rejects such input
// instead of silently repairing it.
var ErrInvalidProgress = errors.New("invalid user progress")

// ErrInvalidAttempt marks an attempt with out-of-domain fields
var ErrInvalidAttempt = errors.New("invalid exercise attempt")

// ValidateProgress checks the record's invariants
func ValidateProgress(p *models.UserProgress) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: nil record", ErrInvalidProgress)
	case p.TotalExercises < 0:
		return fmt.Errorf("%w: negative total_exercises %d", ErrInvalidProgress, p.TotalExercises)
	case p.CorrectAnswers < 0:
		return fmt.Errorf("%w: negative correct_answers %d", ErrInvalidProgress, p.CorrectAnswers)
	case p.CorrectAnswers > p.TotalExercises:
		return fmt.Errorf("%w: correct_answers %d exceeds total_exercises %d",
			ErrInvalidProgress, p.CorrectAnswers, p.TotalExercises)
	case p.StreakDays < 0:
		return fmt.Errorf("%w: negative streak_days %d", ErrInvalidProgress, p.StreakDays)
	}
	return nil
}

func validateAttempt(a *models.ExerciseAttempt) error {
	switch {
	case a.TimeSpent < 0:
		return fmt.Errorf("%w: negative time_spent %d", ErrInvalidAttempt, a.TimeSpent)
	case a.CreatedAt.IsZero():
		return fmt.Errorf("%w: zero timestamp", ErrInvalidAttempt)
	}
	return nil
}

// Apply folds one graded attempt into the progress record: counters, the
// calendar-day streak, the per-topic rolling window with its weak-set
// hysteresis, and the derived level. Validation happens up front so the
// caller either sees the full transition or an untouched record.
func Apply(p *models.UserProgress, attempt models.ExerciseAttempt) error {
	if err := ValidateProgress(p); err != nil {
		return err
	}
	if err := validateAttempt(&attempt); err != nil {
		return err
	}

	p.TotalExercises++
	if attempt.IsCorrect {
		p.CorrectAnswers++
	}

	p.StreakDays = nextStreak(p.StreakDays, p.LastActivity, attempt.CreatedAt)

	if attempt.Topic != "" {
		updateTopicHistory(p, attempt.Topic, attempt.IsCorrect)
	}

	p.Level = Classify(p.Accuracy(), p.TotalExercises)
	p.LastActivity = attempt.CreatedAt
	return nil
}

// nextStreak implements the calendar-day rule: same day keeps the streak,
// the next day increments it, any gap resets to 1.
func nextStreak(current int, lastActivity, now time.Time) int {
	if lastActivity.IsZero() {
		return 1
	}
	switch daysBetween(lastActivity, now) {
	case 0:
		if current == 0 {
			return 1
		}
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

// daysBetween counts calendar days from a to b, ignoring the time of day
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	aDay := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bDay := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}

// updateTopicHistory appends the outcome to the topic's bounded window and
// moves the topic in or out of the weak set across the hysteresis band.
func updateTopicHistory(p *models.UserProgress, topic string, correct bool) {
	if p.TopicHistory == nil {
		p.TopicHistory = make(map[string][]bool)
	}

	window := append(p.TopicHistory[topic], correct)
	if len(window) > topicWindow {
		window = window[len(window)-topicWindow:]
	}
	p.TopicHistory[topic] = window

	acc := windowAccuracy(window)
	switch {
	case len(window) == topicWindow && acc < weakAddThreshold:
		flagWeak(p, topic)
	case acc >= weakRemoveThreshold:
		unflagWeak(p, topic)
	}
}

func windowAccuracy(window []bool) float64 {
	if len(window) == 0 {
		return 0
	}
	correct := 0
	for _, ok := range window {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(window))
}

// flagWeak puts the topic at the front of the weak set (most recently
// flagged first), deduplicating
func flagWeak(p *models.UserProgress, topic string) {
	unflagWeak(p, topic)
	p.WeakTopics = append([]string{topic}, p.WeakTopics...)
}

func unflagWeak(p *models.UserProgress, topic string) {
	kept := p.WeakTopics[:0]
	for _, t := range p.WeakTopics {
		if t != topic {
			kept = append(kept, t)
		}
	}
	p.WeakTopics = kept
}
