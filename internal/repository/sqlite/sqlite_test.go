package sqlite

import (
	"context"
	"testing"

	"github.com/mahir/surveyd/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database, migrated
// and ready. Each call gives a fresh, isolated database; Close is handled
// by t.Cleanup so tests can't leak connections.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// createTestUser inserts a user with a throwaway hash and fails the test on
// error. Most response tests need one because responses carry a foreign key
// to users.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakehashfortestingonly....................",
		Name:         "Test User",
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user
}

// seedTestQuestions installs a tiny catalog and returns it with IDs filled.
func seedTestQuestions(t *testing.T, db *DB) []model.Question {
	t.Helper()

	qs := []model.Question{
		{Title: "What is your age?", Description: "In years.", Type: model.AnswerTypeNumber, Category: "demographic"},
		{Title: "How would you rate your overall health?", Description: "1 to 5.", Type: model.AnswerTypeNumber, Category: "health"},
		{Title: "Do you own your home?", Description: "Own or rent.", Type: model.AnswerTypeText, Category: "financial"},
	}
	if err := db.ReplaceAll(context.Background(), qs); err != nil {
		t.Fatalf("failed to seed questions: %v", err)
	}
	return qs
}
