package ai

import (
	"context"
	"fmt"
	"os"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// Limit on stored conversation messages per user (system prompt included)
const maxHistory = 10

// systemPrompt shapes every tutoring conversation. Telegram HTML only allows
// a handful of tags, so the model is told to stick to them.
const systemPrompt = "Ты — профессиональный репетитор английского языка для русскоговорящих студентов. " +
	"Пиши дружелюбно и по делу.\n\n" +
	"ВАЖНО (Telegram HTML):\n" +
	"- Используй только теги <b>, <i>, <code> (без Markdown).\n" +
	"- Не используй ссылки и другие HTML-теги.\n" +
	"- Давай примеры и короткие правила."

// Client talks to an OpenAI-compatible chat-completion endpoint and keeps a
// bounded per-user conversation history for the free-form Q&A mode.
type Client struct {
	api   *openai.Client
	model string

	mu      sync.Mutex
	history map[int64][]openai.ChatCompletionMessage
}

// New creates a client from the environment. OPENAI_BASE_URL may point at any
// OpenAI-compatible endpoint; OPENAI_MODEL overrides the default model.
func New() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		history: make(map[int64][]openai.ChatCompletionMessage),
	}, nil
}

// complete sends one chat-completion request and returns the first choice
func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessage, temperature float32, maxTokens int) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// conversation returns the user's history, seeding it with the system prompt
func (c *Client) conversation(userID int64) []openai.ChatCompletionMessage {
	messages, ok := c.history[userID]
	if !ok {
		messages = []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		}}
	}
	return messages
}

// ClearConversation drops the stored dialogue for a user
func (c *Client) ClearConversation(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.history, userID)
}
