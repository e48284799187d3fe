package model

// AnswerType is the closed set of input kinds a question can ask for.
//
// The catalog only distinguishes free text from numeric input. Answers are
// stored as raw text either way — enforcing "number" is the form's job, not
// the store's. Keeping the type here lets clients render the right input.
type AnswerType string

const (
	AnswerTypeText   AnswerType = "text"
	AnswerTypeNumber AnswerType = "number"
)

// Question is one entry in the fixed survey catalog.
//
// Questions are reference data: seeded once (see cmd/seed), read by every
// authenticated user, never modified through the API. That's why there are
// no timestamps — nothing about a question ever changes at runtime.
type Question struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        AnswerType `json:"type"`
	Category    string     `json:"category"`
}
