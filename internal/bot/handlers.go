package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/tutorbot/internal/engine"
	"github.com/example/tutorbot/pkg/models"
)

// Callback data constants
const (
	callbackMainMenu     = "main_menu"
	callbackMenuExercise = "menu_exercise"
	callbackMenuAsk      = "menu_ask"
	callbackMenuCheck    = "menu_check"
	callbackMenuStats    = "menu_stats"
	callbackCancelAction = "cancel_action"
	callbackExercise     = "ex:" // followed by the exercise type
)

const aiCallTimeout = 60 * time.Second

// MainMenuButtons returns the main menu keyboard layout
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📝 Упражнение", CallbackData: callbackMenuExercise}},
		{{Text: "❓ Вопрос репетитору", CallbackData: callbackMenuAsk}},
		{{Text: "📖 Проверить текст", CallbackData: callbackMenuCheck}},
		{{Text: "📊 Статистика", CallbackData: callbackMenuStats}},
	}
}

func exerciseTypeButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "📚 Грамматика", CallbackData: callbackExercise + models.ExerciseGrammar},
			{Text: "🧠 Словарь", CallbackData: callbackExercise + models.ExerciseVocab},
		},
		{
			{Text: "🌍 Перевод", CallbackData: callbackExercise + models.ExerciseTranslate},
		},
		{
			{Text: "⬅️ Назад", CallbackData: callbackMainMenu},
		},
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "help":
		return b.handleHelp(message)
	case "exercise":
		return b.handleExerciseMenu(message.Chat.ID)
	case "topics":
		return b.handleTopics(ctx, message)
	case "stats":
		return b.handleStats(ctx, message.Chat.ID, message.From)
	case "ask":
		return b.handleAskCommand(message)
	case "check":
		return b.handleCheckCommand(message)
	case "clear":
		return b.handleClear(message)
	case "reload":
		return b.handleReload(message)
	case "cancel":
		return b.handleCancel(message)
	default:
		return b.handleUnknownCommand(message)
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	if message == nil || message.From == nil || message.Chat == nil {
		return fmt.Errorf("invalid message: required fields are missing")
	}

	p, err := b.userRepo.GetOrCreate(ctx, message.From.ID, message.From.UserName, message.From.FirstName)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	text := fmt.Sprintf(
		"👋 Привет, %s! Я твой AI-репетитор английского.\n\n"+
			"🔹 Что я умею:\n"+
			"• Подбирать упражнения под твой уровень (сейчас: %s)\n"+
			"• Отвечать на вопросы про английский\n"+
			"• Проверять твои тексты\n"+
			"• Следить за прогрессом и серией занятий\n\n"+
			"Начни с упражнения — я подстроюсь под тебя!",
		displayName(message.From), p.Level.Title(),
	)

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	text := "📖 Справка по использованию бота\n\n" +
		"🔸 Основные команды:\n" +
		"/start - Запустить бота и показать главное меню\n" +
		"/help - Показать эту справку\n\n" +
		"📝 Обучение:\n" +
		"/exercise - Получить упражнение по своему уровню\n" +
		"/topics - Рекомендуемые темы для практики\n" +
		"/stats - Статистика и прогресс\n\n" +
		"🤖 AI-репетитор:\n" +
		"/ask - Задать вопрос про английский\n" +
		"/check - Проверить свой текст на английском\n" +
		"/clear - Очистить историю диалога\n\n" +
		"❌ /cancel - Отменить текущее действие\n\n" +
		"💡 Уровень и сложность пересчитываются автоматически после каждого ответа."

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "⬅️ Вернуться в меню", CallbackData: callbackMainMenu}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleExerciseMenu(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "📝 Выбери тип упражнения:")
	msg.ReplyMarkup = createKeyboard(exerciseTypeButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleTopics(ctx context.Context, message *tgbotapi.Message) error {
	p, err := b.userRepo.GetOrCreate(ctx, message.From.ID, message.From.UserName, message.From.FirstName)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	level := engine.Classify(p.Accuracy(), p.TotalExercises)
	topics := engine.RecommendTopics(level, p.WeakTopics)

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📚 Темы для уровня «%s»:\n\n", level.Title()))
	for i, topic := range topics {
		if p.IsWeak(topic) {
			text.WriteString(fmt.Sprintf("%d. %s ⚠️ (слабая тема)\n", i+1, topic))
		} else {
			text.WriteString(fmt.Sprintf("%d. %s\n", i+1, topic))
		}
	}
	text.WriteString("\nСлабые темы идут первыми — с них и начнём.")

	msg := tgbotapi.NewMessage(message.Chat.ID, text.String())
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "📝 Упражнение", CallbackData: callbackMenuExercise}},
		{{Text: "⬅️ Вернуться в меню", CallbackData: callbackMainMenu}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleStats(ctx context.Context, chatID int64, from *tgbotapi.User) error {
	p, err := b.userRepo.GetOrCreate(ctx, from.ID, from.UserName, from.FirstName)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	aggregates, err := b.attemptRepo.GetAggregates(ctx, from.ID)
	if err != nil {
		log.Printf("Failed to get aggregates for user %d: %v", from.ID, err)
		aggregates = nil
	}

	var text strings.Builder
	text.WriteString("📊 Твоя статистика\n\n")
	text.WriteString(fmt.Sprintf("🎯 Уровень: %s\n", p.Level.Title()))
	text.WriteString(fmt.Sprintf("📝 Упражнений выполнено: %d\n", p.TotalExercises))
	text.WriteString(fmt.Sprintf("✅ Правильных ответов: %d (%.0f%%)\n", p.CorrectAnswers, p.Accuracy()*100))
	text.WriteString(fmt.Sprintf("🔥 Серия: %d дн.\n", p.StreakDays))
	if aggregates != nil && p.TotalExercises > 0 {
		text.WriteString(fmt.Sprintf("⚖️ Средняя сложность: %.2f\n", aggregates.AvgDifficulty))
	}
	if len(p.WeakTopics) > 0 {
		text.WriteString(fmt.Sprintf("\n⚠️ Слабые темы: %s\n", strings.Join(p.WeakTopics, ", ")))
	}
	text.WriteString("\n" + engine.ComposeMotivation(p.StreakDays, p.Accuracy()))

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "📝 Упражнение", CallbackData: callbackMenuExercise}},
		{{Text: "⬅️ Вернуться в меню", CallbackData: callbackMainMenu}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleAskCommand(message *tgbotapi.Message) error {
	if !b.aiEnabled {
		return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID,
			"⚠️ AI-репетитор не настроен. Добавьте OPENAI_API_KEY в окружение."))
	}
	b.setState(message.From.ID, stateAwaitingQuestion)

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"❓ Задай свой вопрос про английский — грамматика, слова, произношение, что угодно.")
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "❌ Отмена", CallbackData: callbackCancelAction}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleCheckCommand(message *tgbotapi.Message) error {
	if !b.aiEnabled {
		return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID,
			"⚠️ Проверка текстов не настроена. Добавьте OPENAI_API_KEY в окружение."))
	}
	b.setState(message.From.ID, stateAwaitingEssay)

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"📖 Пришли текст на английском (несколько предложений), и я разберу ошибки.")
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "❌ Отмена", CallbackData: callbackCancelAction}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleClear(message *tgbotapi.Message) error {
	if b.aiEnabled {
		b.ai.ClearConversation(message.From.ID)
	}
	return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "🗑 История диалога очищена."))
}

// handleReload re-reads the static exercise bank from disk (admins only)
func (b *Bot) handleReload(message *tgbotapi.Message) error {
	if !b.adminIDs[message.From.ID] {
		return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "⛔ Команда доступна только администраторам."))
	}

	reloaded := loadBank()
	b.mu.Lock()
	b.bank = reloaded
	b.mu.Unlock()

	return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("🔄 Банк упражнений перезагружен: %d упражнений.", reloaded.Size())))
}

func (b *Bot) handleCancel(message *tgbotapi.Message) error {
	b.setState(message.From.ID, "")
	b.takeSession(message.From.ID)

	msg := tgbotapi.NewMessage(message.Chat.ID, "Действие отменено.")
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleUnknownCommand(message *tgbotapi.Message) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, "Неизвестная команда. Используй /help для списка команд.")
	return b.sendMessage(msg)
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Acknowledge the button press so the client stops the spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Failed to answer callback query: %v", err)
	}

	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID
	data := query.Data

	switch {
	case data == callbackMainMenu:
		msg := tgbotapi.NewMessage(chatID, "Главное меню:")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		return b.sendMessage(msg)
	case data == callbackMenuExercise:
		return b.handleExerciseMenu(chatID)
	case data == callbackMenuAsk:
		return b.handleAskCommand(&tgbotapi.Message{Chat: query.Message.Chat, From: query.From})
	case data == callbackMenuCheck:
		return b.handleCheckCommand(&tgbotapi.Message{Chat: query.Message.Chat, From: query.From})
	case data == callbackMenuStats:
		return b.handleStats(ctx, chatID, query.From)
	case data == callbackCancelAction:
		b.setState(query.From.ID, "")
		b.takeSession(query.From.ID)
		msg := tgbotapi.NewMessage(chatID, "Действие отменено.")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		return b.sendMessage(msg)
	case strings.HasPrefix(data, callbackExercise):
		return b.startExercise(ctx, chatID, query.From, strings.TrimPrefix(data, callbackExercise))
	default:
		log.Printf("Unknown callback data: %s", data)
		return nil
	}
}

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID

	b.mu.Lock()
	_, hasSession := b.sessions[userID]
	b.mu.Unlock()
	if hasSession {
		return b.handleAnswer(ctx, message)
	}

	switch b.state(userID) {
	case stateAwaitingQuestion:
		return b.handleQuestion(ctx, message)
	case stateAwaitingEssay:
		return b.handleEssay(ctx, message)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "Выбери действие в меню или используй /help.")
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleQuestion(ctx context.Context, message *tgbotapi.Message) error {
	b.setState(message.From.ID, "")

	aiCtx, cancel := context.WithTimeout(ctx, aiCallTimeout)
	defer cancel()

	answer, err := b.ai.AskQuestion(aiCtx, message.From.ID, message.Text)
	if err != nil {
		log.Printf("AI question failed for user %d: %v", message.From.ID, err)
		return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID,
			"⚠️ Не удалось получить ответ. Попробуй позже."))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, answer)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "❓ Ещё вопрос", CallbackData: callbackMenuAsk}},
		{{Text: "⬅️ Вернуться в меню", CallbackData: callbackMainMenu}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleEssay(ctx context.Context, message *tgbotapi.Message) error {
	b.setState(message.From.ID, "")

	aiCtx, cancel := context.WithTimeout(ctx, aiCallTimeout)
	defer cancel()

	review, err := b.ai.CheckEssay(aiCtx, message.Text)
	if err != nil {
		log.Printf("Essay check failed for user %d: %v", message.From.ID, err)
		return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID,
			"⚠️ Не удалось проверить текст. Попробуй позже."))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, review)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "⬅️ Вернуться в меню", CallbackData: callbackMainMenu}},
	})
	return b.sendMessage(msg)
}
