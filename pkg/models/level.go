package models

// Level represents a user's proficiency tier
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Title returns a human-readable Russian label for the level
func (l Level) Title() string {
	switch l {
	case LevelIntermediate:
		return "Средний"
	case LevelAdvanced:
		return "Продвинутый"
	default:
		return "Начальный"
	}
}
