package question

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is a generated equation question with its ground-truth answer.
// Immutable once generated; Answer is server-side only.
type Question struct {
	Equation   string `json:"equation"`
	Prompt     string `json:"prompt"`
	Answer     int    `json:"answer,omitempty"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category,omitempty"`
}
