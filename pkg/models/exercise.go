package models

// Exercise types understood by the generator and the static bank
const (
	ExerciseGrammar   = "grammar"
	ExerciseVocab     = "vocab"
	ExerciseTranslate = "translate"
)

// Exercise is a single task shown to the user. It comes either from the AI
// generator or from the static bank; downstream code treats both the same.
// Any field except Question may be empty — a missing CorrectAnswer makes the
// attempt ungraded rather than an error.
type Exercise struct {
	Type          string   `json:"type"`
	Topic         string   `json:"topic"`
	Level         Level    `json:"level"`
	Title         string   `json:"title"`
	Instruction   string   `json:"instruction"`
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Tips          []string `json:"tips"`
}
