package models

import "time"

// UserProgress holds the cumulative learning statistics for one Telegram user.
// The counters are the source of truth: accuracy is always derived from them,
// and Level is recomputed by the engine after every graded exercise — nothing
// else is allowed to write it.
type UserProgress struct {
	ID             int64             `json:"id" db:"id"`
	TelegramID     int64             `json:"telegram_id" db:"telegram_id"`
	Username       string            `json:"username" db:"username"`
	FirstName      string            `json:"first_name" db:"first_name"`
	Level          Level             `json:"level" db:"level"`
	TotalExercises int               `json:"total_exercises" db:"total_exercises"`
	CorrectAnswers int               `json:"correct_answers" db:"correct_answers"`
	StreakDays     int               `json:"streak_days" db:"streak_days"`
	WeakTopics     []string          `json:"weak_topics"`   // most recently flagged first
	TopicHistory   map[string][]bool `json:"topic_history"` // rolling outcome window per topic
	LastActivity   time.Time         `json:"last_activity"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// Accuracy returns correct/total, or 0 for a user with no graded exercises
func (p *UserProgress) Accuracy() float64 {
	if p.TotalExercises == 0 {
		return 0
	}
	return float64(p.CorrectAnswers) / float64(p.TotalExercises)
}

// IsWeak reports whether the topic is currently in the weak set
func (p *UserProgress) IsWeak(topic string) bool {
	for _, t := range p.WeakTopics {
		if t == topic {
			return true
		}
	}
	return false
}
