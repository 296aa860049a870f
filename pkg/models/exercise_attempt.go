package models

import "time"

// ExerciseAttempt is one graded answer. Records are append-only and serve as
// the audit trail behind the user's statistics.
type ExerciseAttempt struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"` // Telegram user ID
	ExerciseType   string    `json:"exercise_type" db:"exercise_type"`
	Topic          string    `json:"topic" db:"topic"`
	Question       string    `json:"question" db:"question"`
	UserAnswer     string    `json:"user_answer" db:"user_answer"`
	CorrectAnswer  string    `json:"correct_answer" db:"correct_answer"`
	IsCorrect      bool      `json:"is_correct" db:"is_correct"`
	Difficulty     float64   `json:"difficulty" db:"difficulty"`
	TimeSpent      int       `json:"time_spent" db:"time_spent"` // seconds
	ResultingLevel Level     `json:"resulting_level" db:"resulting_level"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
