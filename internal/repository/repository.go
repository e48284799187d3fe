// Package repository defines the storage interfaces the service layer
// depends on. Services program against these interfaces, never against the
// concrete SQLite types — tests swap in fakes, and the storage engine could
// change without touching business logic.
package repository

import (
	"context"

	"github.com/mahir/surveyd/internal/model"
)

// UserRepository is the credential store: durable user records, keyed by
// internal ID and by email. Email uniqueness is enforced here (backed by a
// UNIQUE constraint) — Create returns apperror.ErrConflict on a duplicate.
type UserRepository interface {
	// Create inserts a new user and fills in ID and timestamps.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail returns the user with this exact email (case-sensitive,
	// as stored), or apperror.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByID returns the user with this internal ID, or
	// apperror.ErrNotFound. Named to avoid clashing with the question
	// lookup when one store implements both interfaces.
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// QuestionRepository reads the survey catalog. The catalog is reference
// data: seeded out-of-band (cmd/seed), never written through this interface
// beyond ReplaceAll.
type QuestionRepository interface {
	List(ctx context.Context) ([]model.Question, error)
	GetByID(ctx context.Context, id string) (*model.Question, error)
	// ReplaceAll atomically swaps the whole catalog for qs. Used by the
	// seeder only.
	ReplaceAll(ctx context.Context, qs []model.Question) error
}

// ResponseRepository persists answers under the one-row-per-(user, question)
// invariant.
type ResponseRepository interface {
	// Upsert stores resp's answer for its (UserID, QuestionID) pair:
	// first submission inserts a new row, any later one rewrites the
	// existing row's answer and UpdatedAt in place. It fills in resp.ID
	// (the surviving row's ID) and timestamps, and reports whether an
	// existing row was updated. Concurrent calls for the same pair never
	// produce two rows.
	Upsert(ctx context.Context, resp *model.Response) (updated bool, err error)
	// ListByUser returns every response owned by userID joined with its
	// question's title, ordered by UpdatedAt descending. Empty slice when
	// the user has answered nothing.
	ListByUser(ctx context.Context, userID string) ([]model.AnsweredQuestion, error)
}
