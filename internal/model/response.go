package model

import "time"

// Response is a user's current answer to one question.
//
// THE ONE-ROW INVARIANT:
// For any (UserID, QuestionID) pair there is at most one Response row, ever.
// Submitting again for the same pair rewrites Answer and UpdatedAt in place;
// it never creates a second row. The responses table backs this with a
// UNIQUE(user_id, question_id) constraint, so the invariant holds even when
// two submissions race — see sqlite.ResponseDB.Upsert.
//
// ID is assigned on first creation only and survives every later rewrite.
// CreatedAt is the first submission time, UpdatedAt the most recent one.
type Response struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionId"`
	UserID     string    `json:"userId"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AnsweredQuestion is a Response joined with its question's title, as
// returned by GET /api/responses. The snake_case question_title key matches
// what the frontend has always consumed.
type AnsweredQuestion struct {
	Response
	QuestionTitle string `json:"question_title"`
}
