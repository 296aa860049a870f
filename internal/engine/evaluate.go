package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/agext/levenshtein"
)

// Tolerant match tuning. The similarity threshold accepts minor typos and
// article slips; the token guard keeps wrong answers of similar length out.
// A swapped letter pair costs two Levenshtein edits, so the threshold sits at
// 0.70: "recieve" vs "receive" scores 5/7 and passes, while unrelated words
// of equal length score far lower.
const (
	similarityThreshold = 0.70
	maxTokenDelta       = 1
)

// Evaluation is the result of grading one free-text answer
type Evaluation struct {
	IsCorrect  bool
	Graded     bool // false when no reference answer was available
	NearMatch  bool // correct, but only via the tolerant match
	Feedback   string
	Normalized string // normalized form of the user's answer
}

var exactFeedback = []string{
	"🎉 Отлично! Так держать!",
	"✅ Правильно! Ты молодец!",
	"🌟 Превосходно! Продолжай!",
	"👏 Браво! Верный ответ!",
}

var nearFeedback = []string{
	"🤏 Почти идеально! Засчитано. Точная форма: «%s»",
	"📝 Засчитано — небольшая неточность. Точная форма: «%s»",
	"💡 Принято! Для справки, точная форма: «%s»",
}

var wrongFeedback = []string{
	"❌ Не совсем. Правильный ответ: «%s»",
	"🔄 Почти получилось. Правильный ответ: «%s»",
	"📚 Ничего страшного, ошибки — часть обучения. Правильный ответ: «%s»",
}

// Evaluate grades a free-text answer against the reference. It never panics:
// empty input is always incorrect, and a missing reference answer produces an
// ungraded result with explanatory feedback.
func Evaluate(userAnswer, referenceAnswer string) Evaluation {
	user := Normalize(userAnswer)
	reference := Normalize(referenceAnswer)

	if reference == "" {
		return Evaluation{
			IsCorrect:  false,
			Graded:     false,
			Feedback:   "⚠️ Для этого задания нет эталонного ответа, поэтому он не засчитан. Попробуй другое упражнение.",
			Normalized: user,
		}
	}

	if user == "" {
		return Evaluation{
			IsCorrect:  false,
			Graded:     true,
			Feedback:   fmt.Sprintf("✍️ Пустой ответ не засчитывается. Правильный ответ: «%s»", referenceAnswer),
			Normalized: user,
		}
	}

	if user == reference {
		return Evaluation{
			IsCorrect:  true,
			Graded:     true,
			Feedback:   pick(exactFeedback),
			Normalized: user,
		}
	}

	if tolerantMatch(user, reference) {
		return Evaluation{
			IsCorrect:  true,
			Graded:     true,
			NearMatch:  true,
			Feedback:   fmt.Sprintf(pick(nearFeedback), referenceAnswer),
			Normalized: user,
		}
	}

	return Evaluation{
		IsCorrect:  false,
		Graded:     true,
		Feedback:   fmt.Sprintf(pick(wrongFeedback), referenceAnswer),
		Normalized: user,
	}
}

// Normalize case-folds the text, collapses whitespace runs and strips
// terminal punctuation, so that "Paris." and "paris" compare equal.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, ".!?…,;:")
	return strings.TrimSpace(text)
}

// tolerantMatch accepts near misses: high character-level similarity and at
// most one token of length difference.
func tolerantMatch(user, reference string) bool {
	delta := len(strings.Fields(user)) - len(strings.Fields(reference))
	if delta < 0 {
		delta = -delta
	}
	if delta > maxTokenDelta {
		return false
	}
	return similarity(user, reference) >= similarityThreshold
}

// similarity is the edit distance normalized to [0,1] by the longer length
func similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.Distance(a, b, nil)
	return 1 - float64(dist)/float64(maxLen)
}

func pick(bank []string) string {
	return bank[rand.Intn(len(bank))]
}
