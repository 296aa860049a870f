package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tutorbot/pkg/models"
)

func TestRecommendTopicsNoWeakTopics(t *testing.T) {
	topics := RecommendTopics(models.LevelBeginner, nil)
	assert.Equal(t, Curriculum(models.LevelBeginner), topics)
}

func TestRecommendTopicsWeakFirst(t *testing.T) {
	weak := []string{"Comparatives", "Past Simple"}
	topics := RecommendTopics(models.LevelIntermediate, weak)

	require.Len(t, topics, len(Curriculum(models.LevelIntermediate)))
	assert.Equal(t, "Comparatives", topics[0])
	assert.Equal(t, "Past Simple", topics[1])

	// Every weak topic from the curriculum precedes every non-weak one.
	weakSet := map[string]bool{"Comparatives": true, "Past Simple": true}
	seenNonWeak := false
	for _, topic := range topics {
		if weakSet[topic] {
			assert.False(t, seenNonWeak, "weak topic %q after non-weak", topic)
		} else {
			seenNonWeak = true
		}
	}
}

func TestRecommendTopicsIgnoresWeakOutsideCurriculum(t *testing.T) {
	topics := RecommendTopics(models.LevelBeginner, []string{"Passive Voice"})
	assert.Equal(t, Curriculum(models.LevelBeginner), topics)
}

func TestRecommendTopicsFreshSlicePerCall(t *testing.T) {
	first := RecommendTopics(models.LevelAdvanced, []string{"Conditionals"})
	first[0] = "mutated"

	second := RecommendTopics(models.LevelAdvanced, []string{"Conditionals"})
	assert.Equal(t, "Conditionals", second[0])
}

func TestRecommendTopicsUnknownLevelFallsBackToBeginner(t *testing.T) {
	topics := RecommendTopics(models.Level("wizard"), nil)
	assert.Equal(t, Curriculum(models.LevelBeginner), topics)
}
