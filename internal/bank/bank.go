package bank

import (
	"math/rand"
	"strings"

	"github.com/example/tutorbot/pkg/models"
)

// Bank is a static set of exercises keyed by (type, level). It backs the
// exercise flow whenever AI generation is unavailable or fails; attempts
// built from bank exercises look exactly like generated ones downstream.
type Bank struct {
	exercises map[string][]models.Exercise
}

func key(exerciseType string, level models.Level) string {
	return strings.ToLower(exerciseType) + "|" + strings.ToLower(string(level))
}

// New creates an empty bank
func New() *Bank {
	return &Bank{exercises: make(map[string][]models.Exercise)}
}

// Add puts an exercise into the bank under its own type and level
func (b *Bank) Add(ex models.Exercise) {
	k := key(ex.Type, ex.Level)
	b.exercises[k] = append(b.exercises[k], ex)
}

// Size returns the total number of exercises in the bank
func (b *Bank) Size() int {
	n := 0
	for _, list := range b.exercises {
		n += len(list)
	}
	return n
}

// Pick returns a random exercise for the type and level. When the exact level
// has nothing, it relaxes to any level of the same type, then to the built-in
// defaults, so a caller always gets an exercise back.
func (b *Bank) Pick(exerciseType string, level models.Level) models.Exercise {
	if list, ok := b.exercises[key(exerciseType, level)]; ok && len(list) > 0 {
		return list[rand.Intn(len(list))]
	}

	var sameType []models.Exercise
	prefix := strings.ToLower(exerciseType) + "|"
	for k, list := range b.exercises {
		if strings.HasPrefix(k, prefix) {
			sameType = append(sameType, list...)
		}
	}
	if len(sameType) > 0 {
		return sameType[rand.Intn(len(sameType))]
	}

	return builtinExercise(exerciseType, level)
}

// builtinExercise returns a hardcoded exercise so the bot never has nothing
// to offer, even with no bank file and no AI.
func builtinExercise(exerciseType string, level models.Level) models.Exercise {
	switch exerciseType {
	case models.ExerciseTranslate:
		return models.Exercise{
			Type:          models.ExerciseTranslate,
			Topic:         "Present Simple",
			Level:         level,
			Title:         "Перевод RU→EN",
			Instruction:   "Переведи на английский. Ответ одной строкой.",
			Question:      "Я изучаю английский каждый день, потому что хочу говорить свободно.",
			CorrectAnswer: "I study English every day because I want to speak fluently.",
			Explanation:   "Present Simple для регулярных действий; because вводит причину.",
			Tips:          []string{"Проверь порядок слов: S + V + ...", "Проверь орфографию"},
		}
	case models.ExerciseVocab:
		return models.Exercise{
			Type:          models.ExerciseVocab,
			Topic:         "Basic pronouns",
			Level:         level,
			Title:         "Словарь",
			Instruction:   "Выбери правильный вариант. Ответ — буква A/B/C.",
			Question:      "Choose the correct word:\nI ____ a cup of tea every morning.\nA) do\nB) drink\nC) play",
			CorrectAnswer: "B",
			Explanation:   "С напитками используем <code>drink</code>.",
			Tips:          []string{"Сначала определи часть речи", "Вспомни устойчивые сочетания"},
		}
	default:
		return models.Exercise{
			Type:          models.ExerciseGrammar,
			Topic:         "Present Simple",
			Level:         level,
			Title:         "Грамматика",
			Instruction:   "Заполни пропуск. Ответ одной строкой.",
			Question:      "She ____ to school every day. (go)",
			CorrectAnswer: "goes",
			Explanation:   "В Present Simple с he/she/it добавляем -s/-es.",
			Tips:          []string{"he/she/it → +s/-es", "Проверь орфографию (go → goes)"},
		}
	}
}
