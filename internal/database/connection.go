package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// driver: "postgres" uses DATABASE_URL, anything else is a local SQLite file.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")

	var (
		db  *sqlx.DB
		err error
	)

	if dbType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
	} else {
		// Create data directory if it doesn't exist
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}

		dbPath := filepath.Join(dataDir, "tutorbot.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}

		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Auto-increment primary keys are spelled differently per driver
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	// Create users table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id ` + idColumn + `,
			telegram_id INTEGER UNIQUE NOT NULL,
			username TEXT,
			first_name TEXT,
			level TEXT DEFAULT 'beginner',
			total_exercises INTEGER DEFAULT 0,
			correct_answers INTEGER DEFAULT 0,
			streak_days INTEGER DEFAULT 0,
			weak_topics TEXT DEFAULT '[]',
			topic_history TEXT DEFAULT '{}',
			last_activity TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create exercise_history table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS exercise_history (
			id ` + idColumn + `,
			user_id INTEGER NOT NULL,
			exercise_type TEXT,
			topic TEXT,
			question TEXT,
			user_answer TEXT,
			correct_answer TEXT,
			is_correct BOOLEAN DEFAULT false,
			difficulty REAL DEFAULT 0.5,
			time_spent INTEGER DEFAULT 0,
			resulting_level TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create exercise_history table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_exercise_history_user
		ON exercise_history (user_id, created_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to create exercise_history index: %v", err)
	}

	return nil
}
