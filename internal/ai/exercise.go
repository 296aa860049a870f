package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/example/tutorbot/pkg/models"
)

var exerciseTypeNames = map[string]string{
	models.ExerciseGrammar:   "грамматическое упражнение",
	models.ExerciseVocab:     "упражнение на словарный запас",
	models.ExerciseTranslate: "упражнение на перевод с русского на английский",
}

// GenerateExercise asks the model for a structured exercise. Difficulty and
// weak areas are content-shaping hints only; the caller is expected to fall
// back to the static bank when this returns an error, and to tolerate any
// subset of the returned fields being empty.
func (c *Client) GenerateExercise(ctx context.Context, topic string, level models.Level, exerciseType string, weakAreas []string, difficulty float64) (*models.Exercise, error) {
	typeDesc, ok := exerciseTypeNames[exerciseType]
	if !ok {
		typeDesc = "упражнение"
	}

	var weak string
	if len(weakAreas) > 0 {
		weak = fmt.Sprintf("Учти слабые места ученика: %s.\n", strings.Join(weakAreas, ", "))
	}

	prompt := fmt.Sprintf(
		"Создай %s по английскому языку.\n\n"+
			"Тема: %s\n"+
			"Уровень: %s\n"+
			"Сложность: %.2f/1.0\n"+
			"%s"+
			"Формат ответа должен быть строго в следующем JSON формате:\n"+
			"{\n"+
			"  \"title\": \"Заголовок упражнения\",\n"+
			"  \"instruction\": \"Инструкция для ученика\",\n"+
			"  \"question\": \"Текст задания\",\n"+
			"  \"correct_answer\": \"Правильный ответ\",\n"+
			"  \"explanation\": \"Краткое объяснение почему это правильный ответ\",\n"+
			"  \"tips\": [\"Подсказка 1\", \"Подсказка 2\"]\n"+
			"}\n\n"+
			"Ответ должен содержать только JSON, без дополнительного текста.",
		typeDesc, topic, level, difficulty, weak,
	)

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: "Ты — преподаватель английского. Твоя задача — создавать учебные упражнения. " +
				"Отвечай ТОЛЬКО в формате JSON как указано.",
		},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	response, err := c.complete(ctx, messages, 0.7, 900)
	if err != nil {
		return nil, err
	}

	exercise, err := parseExerciseJSON(response)
	if err != nil {
		return nil, err
	}

	exercise.Type = exerciseType
	exercise.Topic = topic
	exercise.Level = level
	return exercise, nil
}

// parseExerciseJSON decodes a model response into an exercise. Models often
// wrap JSON in markdown fences despite instructions, so those are stripped
// first. Missing optional fields stay empty rather than failing.
func parseExerciseJSON(response string) (*models.Exercise, error) {
	response = stripJSONFences(response)

	var exercise models.Exercise
	if err := json.Unmarshal([]byte(response), &exercise); err != nil {
		return nil, fmt.Errorf("failed to decode exercise JSON: %v", err)
	}

	if strings.TrimSpace(exercise.Question) == "" {
		return nil, fmt.Errorf("exercise is missing a question")
	}
	if exercise.Tips == nil {
		exercise.Tips = []string{}
	}
	return &exercise, nil
}

// stripJSONFences removes a surrounding ```json ... ``` markdown block
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
