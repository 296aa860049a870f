package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/tutorbot/pkg/models"
)

// UserRepository handles database operations for user progress records
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// userRow mirrors the users table. Weak topics and the per-topic history are
// stored as JSON text columns, so they are unpacked separately.
type userRow struct {
	ID             int64        `db:"id"`
	TelegramID     int64        `db:"telegram_id"`
	Username       string       `db:"username"`
	FirstName      string       `db:"first_name"`
	Level          string       `db:"level"`
	TotalExercises int          `db:"total_exercises"`
	CorrectAnswers int          `db:"correct_answers"`
	StreakDays     int          `db:"streak_days"`
	WeakTopics     string       `db:"weak_topics"`
	TopicHistory   string       `db:"topic_history"`
	LastActivity   sql.NullTime `db:"last_activity"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func (r *userRow) toModel() (*models.UserProgress, error) {
	p := &models.UserProgress{
		ID:             r.ID,
		TelegramID:     r.TelegramID,
		Username:       r.Username,
		FirstName:      r.FirstName,
		Level:          models.Level(r.Level),
		TotalExercises: r.TotalExercises,
		CorrectAnswers: r.CorrectAnswers,
		StreakDays:     r.StreakDays,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.LastActivity.Valid {
		p.LastActivity = r.LastActivity.Time
	}
	if r.WeakTopics != "" {
		if err := json.Unmarshal([]byte(r.WeakTopics), &p.WeakTopics); err != nil {
			return nil, fmt.Errorf("failed to decode weak_topics: %v", err)
		}
	}
	if r.TopicHistory != "" {
		if err := json.Unmarshal([]byte(r.TopicHistory), &p.TopicHistory); err != nil {
			return nil, fmt.Errorf("failed to decode topic_history: %v", err)
		}
	}
	return p, nil
}

// GetByTelegramID returns the progress record for a Telegram user
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.UserProgress, error) {
	var row userRow
	err := DB.GetContext(ctx, &row, `
		SELECT id, telegram_id, username, first_name, level,
		       total_exercises, correct_answers, streak_days,
		       weak_topics, topic_history, last_activity, created_at, updated_at
		FROM users WHERE telegram_id = $1
	`, telegramID)
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

// GetOrCreate returns the progress record for a Telegram user, creating a
// fresh beginner record on first contact and refreshing the display fields on
// later ones.
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username, firstName string) (*models.UserProgress, error) {
	p, err := r.GetByTelegramID(ctx, telegramID)
	if err == nil {
		if username != "" && username != p.Username || firstName != "" && firstName != p.FirstName {
			_, err = DB.ExecContext(ctx, `
				UPDATE users SET username = $1, first_name = $2, updated_at = CURRENT_TIMESTAMP
				WHERE telegram_id = $3
			`, username, firstName, telegramID)
			if err != nil {
				return nil, fmt.Errorf("failed to refresh user: %v", err)
			}
			p.Username = username
			p.FirstName = firstName
		}
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	_, err = DB.ExecContext(ctx, `
		INSERT INTO users (telegram_id, username, first_name, level)
		VALUES ($1, $2, $3, $4)
	`, telegramID, username, firstName, string(models.LevelBeginner))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}

	return r.GetByTelegramID(ctx, telegramID)
}

// Save writes the full progress record back. The engine owns every derived
// field, the repository just persists what it is given.
func (r *UserRepository) Save(ctx context.Context, p *models.UserProgress) error {
	weakTopics, err := json.Marshal(p.WeakTopics)
	if err != nil {
		return fmt.Errorf("failed to encode weak_topics: %v", err)
	}
	if p.WeakTopics == nil {
		weakTopics = []byte("[]")
	}
	topicHistory, err := json.Marshal(p.TopicHistory)
	if err != nil {
		return fmt.Errorf("failed to encode topic_history: %v", err)
	}
	if p.TopicHistory == nil {
		topicHistory = []byte("{}")
	}

	result, err := DB.ExecContext(ctx, `
		UPDATE users SET
			username = $1,
			first_name = $2,
			level = $3,
			total_exercises = $4,
			correct_answers = $5,
			streak_days = $6,
			weak_topics = $7,
			topic_history = $8,
			last_activity = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE telegram_id = $10
	`,
		p.Username,
		p.FirstName,
		string(p.Level),
		p.TotalExercises,
		p.CorrectAnswers,
		p.StreakDays,
		string(weakTopics),
		string(topicHistory),
		p.LastActivity,
		p.TelegramID,
	)
	if err != nil {
		return fmt.Errorf("failed to save user progress: %v", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("no user with telegram_id %d", p.TelegramID)
	}
	return nil
}

// ListStreakAtRisk returns users who have an active streak but no activity
// yet on the given day. The scheduler uses this for reminder notifications.
func (r *UserRepository) ListStreakAtRisk(ctx context.Context, now time.Time) ([]models.UserProgress, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var rows []userRow
	err := DB.SelectContext(ctx, &rows, `
		SELECT id, telegram_id, username, first_name, level,
		       total_exercises, correct_answers, streak_days,
		       weak_topics, topic_history, last_activity, created_at, updated_at
		FROM users
		WHERE streak_days > 0 AND last_activity IS NOT NULL AND last_activity < $1
	`, dayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list streak-at-risk users: %v", err)
	}

	users := make([]models.UserProgress, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		users = append(users, *p)
	}
	return users, nil
}
