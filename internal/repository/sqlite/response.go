package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mahir/surveyd/internal/model"
	"github.com/mahir/surveyd/internal/repository"
)

var _ repository.ResponseRepository = (*DB)(nil)

// Upsert stores resp's answer under the at-most-one-row-per-pair invariant
// and reports whether an existing row was rewritten.
//
// HOW THE RACE IS CLOSED:
// The obvious implementation — SELECT, then INSERT or UPDATE — has a window
// between the lookup and the write. Two submissions racing for the same
// (user, question) pair could both see "no row" and both insert. Instead we
// lean on the UNIQUE(user_id, question_id) constraint and make the insert
// itself the test:
//
//  1. INSERT ... ON CONFLICT(user_id, question_id) DO NOTHING
//     One atomic statement. RowsAffected == 1 means we created the row and
//     this was a first submission.
//  2. RowsAffected == 0 means the row already existed (perhaps created a
//     microsecond ago by the racing request), so we UPDATE it in place.
//     Responses are never deleted, so the row is guaranteed to still be
//     there — the update path cannot miss.
//
// Both racers resolve deterministically: one inserts, the other updates,
// and exactly one row exists afterwards. No transaction or lock needed.
//
// On the update path the surviving row keeps its original id and
// created_at; only answer and updated_at change. RETURNING hands them back
// without a second round-trip.
func (db *DB) Upsert(ctx context.Context, resp *model.Response) (bool, error) {
	now := time.Now()
	resp.ID = xid.New().String()
	resp.CreatedAt = now
	resp.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO responses (id, question_id, user_id, answer, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, question_id) DO NOTHING`,
		resp.ID,
		resp.QuestionID,
		resp.UserID,
		resp.Answer,
		resp.CreatedAt,
		resp.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: inserting response (user=%s question=%s): %w",
			resp.UserID, resp.QuestionID, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: reading insert result: %w", err)
	}
	if inserted == 1 {
		return false, nil
	}

	// The pair already has a row — rewrite it, recovering its identity.
	err = db.conn.QueryRowContext(ctx,
		`UPDATE responses SET answer = ?, updated_at = ?
		 WHERE user_id = ? AND question_id = ?
		 RETURNING id, created_at`,
		resp.Answer,
		resp.UpdatedAt,
		resp.UserID,
		resp.QuestionID,
	).Scan(&resp.ID, &resp.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("sqlite: updating response (user=%s question=%s): %w",
			resp.UserID, resp.QuestionID, err)
	}

	return true, nil
}

// ListByUser returns the user's responses joined with question titles,
// newest update first. Returns an empty slice (never nil) when the user has
// no responses, so the API serializes [] rather than null.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.AnsweredQuestion, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.id, r.question_id, r.user_id, r.answer, r.created_at, r.updated_at,
		        q.title
		 FROM responses r
		 JOIN questions q ON r.question_id = q.id
		 WHERE r.user_id = ?
		 ORDER BY r.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing responses for user %s: %w", userID, err)
	}
	defer rows.Close()

	answered := []model.AnsweredQuestion{}
	for rows.Next() {
		var a model.AnsweredQuestion
		err := rows.Scan(
			&a.ID,
			&a.QuestionID,
			&a.UserID,
			&a.Answer,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.QuestionTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning response: %w", err)
		}
		answered = append(answered, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating responses: %w", err)
	}

	return answered, nil
}
