package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// AskQuestion answers a free-form question in the user's running dialogue.
// The stored history is bounded, keeping the system prompt and the most
// recent turns.
func (c *Client) AskQuestion(ctx context.Context, userID int64, question string) (string, error) {
	c.mu.Lock()
	messages := c.conversation(userID)
	if len(messages) > maxHistory {
		trimmed := make([]openai.ChatCompletionMessage, 0, maxHistory)
		trimmed = append(trimmed, messages[0])
		trimmed = append(trimmed, messages[len(messages)-(maxHistory-1):]...)
		messages = trimmed
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})
	c.mu.Unlock()

	answer, err := c.complete(ctx, messages, 0.7, 900)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.history[userID] = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: answer,
	})
	c.mu.Unlock()

	return answer, nil
}

// CheckEssay reviews a piece of English writing and returns structured
// feedback in Russian.
func (c *Client) CheckEssay(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"Проверь текст по английскому и дай обратную связь на русском.\n\n"+
			"Структура:\n"+
			"1) 🎯 <b>ОБЩАЯ ОЦЕНКА</b> (0-10)\n"+
			"2) 🔧 <b>ОШИБКИ И ИСПРАВЛЕНИЯ</b> (<code>Grammar</code>/<code>Vocabulary</code>/<code>Punctuation</code>/<code>Style</code>)\n"+
			"3) ✨ <b>УЛУЧШЕННАЯ ВЕРСИЯ</b>\n"+
			"4) 💡 <b>РЕКОМЕНДАЦИИ</b> (3-5 пунктов)\n\n"+
			"Текст для проверки:\n%s",
		text,
	)

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Ты — строгий, но доброжелательный преподаватель английского.",
		},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	return c.complete(ctx, messages, 0.3, 1400)
}
