package engine

// motivationRule is one row of the guard table: the first matching rule wins.
// The final rule always matches, so every (streak, accuracy) pair maps to
// exactly one message.
type motivationRule struct {
	matches func(streakDays int, accuracy float64) bool
	text    string
}

var motivationRules = []motivationRule{
	{
		matches: func(s int, _ float64) bool { return s >= 14 },
		text:    "🔥 Вау! 14+ дней подряд — это железная дисциплина!",
	},
	{
		matches: func(s int, a float64) bool { return s >= 7 && a >= 0.8 },
		text:    "🏆 Неделя подряд и отличная точность — исключительный результат!",
	},
	{
		matches: func(s int, _ float64) bool { return s >= 7 },
		text:    "🔥 Огонь! Неделя занятий подряд — супер!",
	},
	{
		matches: func(s int, _ float64) bool { return s >= 3 },
		text:    "💪 Отлично! Уже несколько дней подряд — темп набран!",
	},
	{
		matches: func(_ int, a float64) bool { return a >= 0.9 },
		text:    "🌟 Феноменальная точность!",
	},
	{
		matches: func(_ int, a float64) bool { return a < 0.4 },
		text:    "📈 Не сдавайся — каждое упражнение приближает к цели.",
	},
	{
		matches: func(int, float64) bool { return true },
		text:    "👍 Хорошие результаты — продолжай заниматься!",
	},
}

// ComposeMotivation picks an encouragement message from the streak/accuracy
// guard table. Pure and deterministic.
func ComposeMotivation(streakDays int, accuracy float64) string {
	for _, rule := range motivationRules {
		if rule.matches(streakDays, accuracy) {
			return rule.text
		}
	}
	// Unreachable: the last rule matches everything.
	return motivationRules[len(motivationRules)-1].text
}
