package database

import (
	"context"
	"fmt"

	"github.com/example/tutorbot/pkg/models"
)

// AttemptRepository handles the append-only exercise_history audit trail
type AttemptRepository struct{}

// NewAttemptRepository creates a new repository instance
func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{}
}

// Append inserts a new attempt record. Attempts are never updated or deleted.
func (r *AttemptRepository) Append(ctx context.Context, attempt *models.ExerciseAttempt) error {
	result, err := DB.ExecContext(ctx, `
		INSERT INTO exercise_history (
			user_id, exercise_type, topic, question, user_answer,
			correct_answer, is_correct, difficulty, time_spent,
			resulting_level, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		attempt.UserID,
		attempt.ExerciseType,
		attempt.Topic,
		attempt.Question,
		attempt.UserAnswer,
		attempt.CorrectAnswer,
		attempt.IsCorrect,
		attempt.Difficulty,
		attempt.TimeSpent,
		string(attempt.ResultingLevel),
		attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append attempt: %v", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		attempt.ID = id
	}
	return nil
}

// GetRecentByUser returns the user's latest attempts, newest first
func (r *AttemptRepository) GetRecentByUser(ctx context.Context, userID int64, limit int) ([]models.ExerciseAttempt, error) {
	var attempts []models.ExerciseAttempt
	err := DB.SelectContext(ctx, &attempts, `
		SELECT id, user_id, exercise_type, topic, question, user_answer,
		       correct_answer, is_correct, difficulty, time_spent,
		       resulting_level, created_at
		FROM exercise_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent attempts: %v", err)
	}
	return attempts, nil
}

// AggregateStats holds averages over a user's whole attempt history
type AggregateStats struct {
	AvgDifficulty float64 `db:"avg_difficulty"`
	AvgTimeSpent  float64 `db:"avg_time"`
}

// GetAggregates returns average difficulty and time spent for the user
func (r *AttemptRepository) GetAggregates(ctx context.Context, userID int64) (*AggregateStats, error) {
	var stats AggregateStats
	err := DB.GetContext(ctx, &stats, `
		SELECT COALESCE(AVG(difficulty), 0) AS avg_difficulty,
		       COALESCE(AVG(time_spent), 0) AS avg_time
		FROM exercise_history
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregate stats: %v", err)
	}
	return &stats, nil
}
