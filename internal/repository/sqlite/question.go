package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/mahir/surveyd/internal/apperror"
	"github.com/mahir/surveyd/internal/model"
	"github.com/mahir/surveyd/internal/repository"
)

var _ repository.QuestionRepository = (*DB)(nil)

// List returns the whole question catalog. The catalog is small (a fixed
// survey) and shared by every user, so there is no pagination or filtering.
func (db *DB) List(ctx context.Context) ([]model.Question, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, type, category FROM questions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing questions: %w", err)
	}
	defer rows.Close()

	// Initialize to an empty slice, not nil — an empty catalog must
	// serialize as [] rather than null.
	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Type, &q.Category); err != nil {
			return nil, fmt.Errorf("sqlite: scanning question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating questions: %w", err)
	}

	return questions, nil
}

// GetByID retrieves a single catalog entry.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, type, category FROM questions WHERE id = ?`,
		id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.Type, &q.Category)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("question", id)
		}
		return nil, fmt.Errorf("sqlite: getting question %s: %w", id, err)
	}

	return &q, nil
}

// ReplaceAll swaps the entire catalog for qs inside one transaction, so a
// reader never observes a half-seeded catalog. IDs are assigned here for
// questions that don't carry one.
//
// Reseeding deletes existing questions, and responses reference them —
// that's fine for first-boot seeding but destructive afterwards; cmd/seed
// warns about it. Foreign keys will reject the delete if responses exist.
func (db *DB) ReplaceAll(ctx context.Context, qs []model.Question) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning seed transaction: %w", err)
	}
	defer tx.Rollback() // no-op after a successful Commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("sqlite: clearing questions: %w", err)
	}

	for i := range qs {
		if qs[i].ID == "" {
			qs[i].ID = xid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO questions (id, title, description, type, category)
			 VALUES (?, ?, ?, ?, ?)`,
			qs[i].ID, qs[i].Title, qs[i].Description, qs[i].Type, qs[i].Category,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting question %q: %w", qs[i].Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing seed transaction: %w", err)
	}
	return nil
}
