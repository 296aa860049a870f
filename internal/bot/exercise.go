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

// startExercise runs the parameter side of the learning loop: classify the
// user, pick difficulty and topic, then request an exercise — from the AI
// generator when available, from the static bank otherwise.
func (b *Bot) startExercise(ctx context.Context, chatID int64, from *tgbotapi.User, exerciseType string) error {
	p, err := b.userRepo.GetOrCreate(ctx, from.ID, from.UserName, from.FirstName)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	level := engine.Classify(p.Accuracy(), p.TotalExercises)
	difficulty := engine.SelectDifficulty(p)
	topics := engine.RecommendTopics(level, p.WeakTopics)
	topic := topics[0]

	exercise := b.generateExercise(ctx, topic, level, exerciseType, p.WeakTopics, difficulty)

	b.setSession(from.ID, &exerciseSession{
		Exercise:   exercise,
		Difficulty: difficulty,
		StartedAt:  time.Now(),
	})

	var text strings.Builder
	if exercise.Title != "" {
		text.WriteString(fmt.Sprintf("📝 %s\n", exercise.Title))
	}
	text.WriteString(fmt.Sprintf("Тема: %s · Уровень: %s\n\n", exercise.Topic, level.Title()))
	if exercise.Instruction != "" {
		text.WriteString(exercise.Instruction + "\n\n")
	}
	text.WriteString(exercise.Question)
	if len(exercise.Tips) > 0 {
		text.WriteString("\n\n💡 Подсказки:\n")
		for _, tip := range exercise.Tips {
			text.WriteString("• " + tip + "\n")
		}
	}
	text.WriteString("\nНапиши свой ответ сообщением.")

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "❌ Отмена", CallbackData: callbackCancelAction}},
	})
	return b.sendMessage(msg)
}

// generateExercise prefers the AI generator and falls back to the static
// bank on any failure. Callers cannot tell the two sources apart.
func (b *Bot) generateExercise(ctx context.Context, topic string, level models.Level, exerciseType string, weakTopics []string, difficulty float64) models.Exercise {
	if b.aiEnabled {
		aiCtx, cancel := context.WithTimeout(ctx, aiCallTimeout)
		defer cancel()

		exercise, err := b.ai.GenerateExercise(aiCtx, topic, level, exerciseType, weakTopics, difficulty)
		if err == nil {
			return *exercise
		}
		log.Printf("Exercise generation failed, using bank: %v", err)
	}

	exercise := b.currentBank().Pick(exerciseType, level)
	if exercise.Topic == "" {
		exercise.Topic = topic
	}
	return exercise
}

// handleAnswer grades the pending exercise and folds the outcome into the
// user's progress: evaluate, apply, persist, then report with a motivation
// message. Ungraded attempts (no reference answer) are logged to the audit
// trail but do not move the statistics.
func (b *Bot) handleAnswer(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	session := b.takeSession(userID)
	if session == nil {
		return nil
	}

	evaluation := engine.Evaluate(message.Text, session.Exercise.CorrectAnswer)

	p, err := b.userRepo.GetOrCreate(ctx, userID, message.From.UserName, message.From.FirstName)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	now := time.Now()
	attempt := models.ExerciseAttempt{
		UserID:         userID,
		ExerciseType:   session.Exercise.Type,
		Topic:          session.Exercise.Topic,
		Question:       session.Exercise.Question,
		UserAnswer:     message.Text,
		CorrectAnswer:  session.Exercise.CorrectAnswer,
		IsCorrect:      evaluation.IsCorrect,
		Difficulty:     session.Difficulty,
		TimeSpent:      int(now.Sub(session.StartedAt).Seconds()),
		ResultingLevel: hypotheticalLevel(p, evaluation.IsCorrect),
		CreatedAt:      now,
	}

	if evaluation.Graded {
		if err := engine.Apply(p, attempt); err != nil {
			log.Printf("Progress update rejected for user %d: %v", userID, err)
			return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID,
				"⚠️ Не удалось обновить прогресс. Попробуй ещё раз."))
		}
		if err := b.userRepo.Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
	}

	if err := b.attemptRepo.Append(ctx, &attempt); err != nil {
		log.Printf("Failed to append attempt for user %d: %v", userID, err)
	}

	var text strings.Builder
	text.WriteString(evaluation.Feedback)
	if !evaluation.IsCorrect && session.Exercise.Explanation != "" {
		text.WriteString("\n\n📖 " + session.Exercise.Explanation)
	}
	if evaluation.Graded {
		text.WriteString("\n\n" + engine.ComposeMotivation(p.StreakDays, p.Accuracy()))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "📝 Ещё упражнение", CallbackData: callbackMenuExercise}},
		{{Text: "⬅️ Вернуться в меню", CallbackData: callbackMainMenu}},
	})
	return b.sendMessage(msg)
}

// hypotheticalLevel classifies the user as if this answer already counted,
// so the attempt record carries the level it produced.
func hypotheticalLevel(p *models.UserProgress, correct bool) models.Level {
	total := p.TotalExercises + 1
	right := p.CorrectAnswers
	if correct {
		right++
	}
	return engine.Classify(float64(right)/float64(total), total)
}

func displayName(from *tgbotapi.User) string {
	if from.FirstName != "" {
		return from.FirstName
	}
	if from.UserName != "" {
		return from.UserName
	}
	return "друг"
}
