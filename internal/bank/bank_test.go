package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tutorbot/pkg/models"
)

func TestPickExactTypeAndLevel(t *testing.T) {
	b := New()
	b.Add(models.Exercise{
		Type:          models.ExerciseGrammar,
		Level:         models.LevelBeginner,
		Topic:         "To be",
		Question:      "I ____ a student.",
		CorrectAnswer: "am",
	})

	ex := b.Pick(models.ExerciseGrammar, models.LevelBeginner)
	assert.Equal(t, "am", ex.CorrectAnswer)
}

func TestPickRelaxesLevel(t *testing.T) {
	b := New()
	b.Add(models.Exercise{
		Type:          models.ExerciseVocab,
		Level:         models.LevelAdvanced,
		Question:      "Pick a synonym of 'rapid'",
		CorrectAnswer: "fast",
	})

	ex := b.Pick(models.ExerciseVocab, models.LevelBeginner)
	assert.Equal(t, "fast", ex.CorrectAnswer)
}

func TestPickFallsBackToBuiltin(t *testing.T) {
	b := New()

	for _, typ := range []string{models.ExerciseGrammar, models.ExerciseVocab, models.ExerciseTranslate} {
		ex := b.Pick(typ, models.LevelIntermediate)
		assert.NotEmpty(t, ex.Question, "type %s", typ)
		assert.NotEmpty(t, ex.CorrectAnswer, "type %s", typ)
	}
}

func TestLoadFromCSV(t *testing.T) {
	content := "type,level,topic,title,instruction,question,correct_answer,explanation,tips\n" +
		"grammar,beginner,To be,Грамматика,Заполни пропуск,\"He ____ happy.\",is,Форма to be,\"he/she/it → is|Проверь форму\"\n" +
		"vocab,intermediate,Modal verbs,Словарь,Выбери вариант,\"You ____ smoke here. (запрет)\",mustn't,Запрет — mustn't,\n" +
		",,,broken row without type or question,,,,,\n"

	path := filepath.Join(t.TempDir(), "exercises.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Size())

	ex := b.Pick(models.ExerciseGrammar, models.LevelBeginner)
	assert.Equal(t, "is", ex.CorrectAnswer)
	assert.Equal(t, []string{"he/she/it → is", "Проверь форму"}, ex.Tips)

	ex = b.Pick(models.ExerciseVocab, models.LevelIntermediate)
	assert.Equal(t, "mustn't", ex.CorrectAnswer)
	assert.Empty(t, ex.Tips)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
