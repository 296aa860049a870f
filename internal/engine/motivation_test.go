package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeMotivationBuckets(t *testing.T) {
	tests := []struct {
		name     string
		streak   int
		accuracy float64
		contains string
	}{
		{"two week streak", 14, 0.5, "14+"},
		{"week streak with high accuracy", 7, 0.85, "исключительный"},
		{"week streak alone", 8, 0.5, "Неделя"},
		{"building momentum", 3, 0.5, "несколько дней"},
		{"phenomenal accuracy", 0, 0.95, "Феноменальная"},
		{"needs encouragement", 0, 0.2, "Не сдавайся"},
		{"neutral default", 1, 0.6, "продолжай"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, ComposeMotivation(tt.streak, tt.accuracy), tt.contains)
		})
	}
}

func TestComposeMotivationTotal(t *testing.T) {
	// Every (streak, accuracy) pair must map to exactly one non-empty message.
	for streak := 0; streak <= 20; streak++ {
		for acc := 0.0; acc <= 1.0; acc += 0.05 {
			assert.NotEmpty(t, ComposeMotivation(streak, acc),
				"streak %d accuracy %.2f", streak, acc)
		}
	}
}

func TestComposeMotivationIdempotent(t *testing.T) {
	assert.Equal(t, ComposeMotivation(5, 0.75), ComposeMotivation(5, 0.75))
}
