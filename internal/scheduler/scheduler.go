package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/tutorbot/internal/database"
)

// Default window for reminder notifications (local hours)
const (
	DefaultNotificationStartHour = 16
	DefaultNotificationEndHour   = 21
)

// Notifier interface for sending notifications
type Notifier interface {
	SendStreakReminder(userID int64, streakDays int) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	userRepo  *database.UserRepository
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		notifier:  notifier,
		userRepo:  database.NewUserRepository(),
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for users whose streak is about to break
	s.scheduler.Every(1).Hour().Do(s.checkStreaksAtRisk)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkStreaksAtRisk reminds users with an active streak who have not
// practiced today. Reminders only go out inside the notification window.
func (s *Scheduler) checkStreaksAtRisk() {
	currentHour := time.Now().Hour()

	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := s.userRepo.ListStreakAtRisk(ctx, time.Now())
	if err != nil {
		log.Printf("Error listing streak-at-risk users: %v", err)
		return
	}

	for _, user := range users {
		if err := s.notifier.SendStreakReminder(user.TelegramID, user.StreakDays); err != nil {
			log.Printf("Error sending streak reminder to user %d: %v", user.TelegramID, err)
		}
	}
}

func envHour(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
