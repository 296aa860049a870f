package bot

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/tutorbot/internal/ai"
	"github.com/example/tutorbot/internal/bank"
	"github.com/example/tutorbot/internal/database"
	"github.com/example/tutorbot/internal/scheduler"
	"github.com/example/tutorbot/pkg/models"
)

// Conversation states for multi-step interactions
const (
	stateAwaitingQuestion = "awaiting_question"
	stateAwaitingEssay    = "awaiting_essay"
)

// exerciseSession is one exercise waiting for the user's answer
type exerciseSession struct {
	Exercise   models.Exercise
	Difficulty float64
	StartedAt  time.Time
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram tutor application
type Bot struct {
	api         *tgbotapi.BotAPI
	userRepo    *database.UserRepository
	attemptRepo *database.AttemptRepository
	ai          *ai.Client
	aiEnabled   bool
	bank        *bank.Bank
	scheduler   *scheduler.Scheduler
	adminIDs    map[int64]bool

	mu        sync.Mutex
	sessions  map[int64]*exerciseSession
	states    map[int64]string
	userLocks map[int64]*sync.Mutex
}

// New creates a new bot instance. The AI client is optional: without an API
// key the bot serves exercises from the static bank only.
func New(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		api:         api,
		userRepo:    database.NewUserRepository(),
		attemptRepo: database.NewAttemptRepository(),
		bank:        loadBank(),
		adminIDs:    make(map[int64]bool),
		sessions:    make(map[int64]*exerciseSession),
		states:      make(map[int64]string),
		userLocks:   make(map[int64]*sync.Mutex),
	}

	aiClient, err := ai.New()
	if err != nil {
		log.Printf("Warning: AI generation disabled: %v", err)
	} else {
		b.ai = aiClient
		b.aiEnabled = true
	}

	b.scheduler = scheduler.New(b)

	if adminIDs := os.Getenv("ADMIN_USER_IDS"); adminIDs != "" {
		for _, idStr := range strings.Split(adminIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				log.Printf("Warning: Invalid admin user ID: %s", idStr)
				continue
			}
			b.adminIDs[id] = true
		}
	}

	return b, nil
}

// loadBank reads the static exercise bank if a file is configured; otherwise
// the bank still works through its built-in exercises.
func loadBank() *bank.Bank {
	path := os.Getenv("EXERCISE_BANK_FILE")
	if path == "" {
		return bank.New()
	}
	b, err := bank.Load(path)
	if err != nil {
		log.Printf("Warning: failed to load exercise bank %s: %v", path, err)
		return bank.New()
	}
	log.Printf("Loaded %d exercises from %s", b.Size(), path)
	return b
}

// Start runs the update loop until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.scheduler.Start()
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			// Updates for different users are handled concurrently; the
			// per-user lock below serializes work for any single user.
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop shuts down polling and scheduled jobs
func (b *Bot) Stop(ctx context.Context) error {
	b.scheduler.Stop()
	b.api.StopReceivingUpdates()
	return nil
}

// userLock returns the mutex serializing all updates of one user, so two
// concurrent answer submissions can never double-count progress.
func (b *Bot) userLock(userID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		b.userLocks[userID] = lock
	}
	return lock
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var userID int64
	switch {
	case update.Message != nil && update.Message.From != nil:
		userID = update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		userID = update.CallbackQuery.From.ID
	default:
		return
	}

	lock := b.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	var err error
	switch {
	case update.Message != nil && update.Message.IsCommand():
		err = b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		err = b.handleText(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		log.Printf("Error handling update for user %d: %v", userID, err)
	}
}

// session helpers (b.mu guards the maps, not the per-user flow)

func (b *Bot) currentBank() *bank.Bank {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bank
}

func (b *Bot) setSession(userID int64, s *exerciseSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[userID] = s
}

func (b *Bot) takeSession(userID int64) *exerciseSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.sessions[userID]
	delete(b.sessions, userID)
	return s
}

func (b *Bot) setState(userID int64, state string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if state == "" {
		delete(b.states, userID)
		return
	}
	b.states[userID] = state
}

func (b *Bot) state(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.states[userID]
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) error {
	_, err := b.api.Send(msg)
	return err
}

// SendStreakReminder implements scheduler.Notifier
func (b *Bot) SendStreakReminder(userID int64, streakDays int) error {
	text := "🔥 Твоя серия под угрозой!\n\n" +
		"Ты занимался " + strconv.Itoa(streakDays) + " дн. подряд, но сегодня ещё не было ни одного упражнения. " +
		"Одно короткое упражнение сохранит серию!"

	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "📝 Выполнить упражнение", CallbackData: "menu_exercise"}},
	})
	return b.sendMessage(msg)
}
