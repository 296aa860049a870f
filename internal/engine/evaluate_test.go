package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateExactMatchIgnoresCaseAndPunctuation(t *testing.T) {
	tests := []struct {
		name      string
		user      string
		reference string
	}{
		{"case and trailing period", "Paris", "paris."},
		{"surrounding whitespace", "  goes  ", "goes"},
		{"inner whitespace runs", "I  study   English", "I study English"},
		{"exclamation", "cats!", "cats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluate(tt.user, tt.reference)
			assert.True(t, ev.IsCorrect)
			assert.True(t, ev.Graded)
			assert.False(t, ev.NearMatch)
			assert.NotEmpty(t, ev.Feedback)
		})
	}
}

func TestEvaluateEmptyAnswerIsIncorrect(t *testing.T) {
	for _, user := range []string{"", "   ", "\t\n"} {
		ev := Evaluate(user, "cats")
		assert.False(t, ev.IsCorrect, "input %q", user)
		assert.True(t, ev.Graded)
		assert.NotEmpty(t, ev.Feedback)
	}
}

func TestEvaluateTypoTolerance(t *testing.T) {
	ev := Evaluate("recieve", "receive")
	require.True(t, ev.IsCorrect)
	assert.True(t, ev.NearMatch)
	assert.Contains(t, ev.Feedback, "receive")
}

func TestEvaluateRejectsDifferentWords(t *testing.T) {
	ev := Evaluate("dog", "cat")
	require.False(t, ev.IsCorrect)
	assert.True(t, ev.Graded)
	assert.Contains(t, ev.Feedback, "cat")
}

func TestEvaluateTokenGuardRejectsLongerAnswer(t *testing.T) {
	// Similar characters but three extra tokens must not pass tolerance.
	ev := Evaluate("she goes to the big school", "she goes")
	assert.False(t, ev.IsCorrect)
}

func TestEvaluateMissingReferenceIsUngraded(t *testing.T) {
	ev := Evaluate("anything", "")
	assert.False(t, ev.IsCorrect)
	assert.False(t, ev.Graded)
	assert.NotEmpty(t, ev.Feedback)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Hello,  World!  ", "hello, world"},
		{"Paris.", "paris"},
		{"", ""},
		{"...", ""},
		{"don't", "don't"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}
