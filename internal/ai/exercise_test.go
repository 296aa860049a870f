package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExerciseJSON(t *testing.T) {
	raw := `{
		"title": "Грамматика",
		"instruction": "Заполни пропуск.",
		"question": "She ____ to school every day. (go)",
		"correct_answer": "goes",
		"explanation": "Present Simple с he/she/it.",
		"tips": ["he/she/it → +s/-es"]
	}`

	ex, err := parseExerciseJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "Грамматика", ex.Title)
	assert.Equal(t, "goes", ex.CorrectAnswer)
	assert.Len(t, ex.Tips, 1)
}

func TestParseExerciseJSONStripsFences(t *testing.T) {
	raw := "```json\n{\"question\": \"Choose the word\", \"correct_answer\": \"B\"}\n```"

	ex, err := parseExerciseJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "Choose the word", ex.Question)
	assert.Equal(t, "B", ex.CorrectAnswer)
}

func TestParseExerciseJSONBackfillsTips(t *testing.T) {
	ex, err := parseExerciseJSON(`{"question": "Translate: кошка"}`)
	require.NoError(t, err)
	assert.NotNil(t, ex.Tips)
	assert.Empty(t, ex.Tips)
	// Missing reference answer is allowed: the attempt becomes ungraded.
	assert.Empty(t, ex.CorrectAnswer)
}

func TestParseExerciseJSONRejectsGarbage(t *testing.T) {
	_, err := parseExerciseJSON("К сожалению, я не могу этого сделать.")
	assert.Error(t, err)

	_, err = parseExerciseJSON(`{"title": "no question here"}`)
	assert.Error(t, err)
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"{}", "{}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripJSONFences(tt.in), "input %q", tt.in)
	}
}
