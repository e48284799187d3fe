package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/mahir/surveyd/internal/apperror"
	"github.com/mahir/surveyd/internal/model"
	"github.com/mahir/surveyd/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X;
// if *Y doesn't implement X, the compiler errors right here instead of at
// some distant call site.
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user, generating the ID and timestamps.
//
// ID GENERATION WITH xid:
// xid produces 20-char URL-safe IDs that sort by creation time, e.g.
// "cv37rs3pp9olc6atsptg". We generate them here (not in the service) so the
// repository owns everything about how rows come to exist.
//
// EMAIL UNIQUENESS:
// The UNIQUE constraint on users.email is the source of truth. We don't
// pre-check with a SELECT — that would race. The INSERT either succeeds or
// fails with a constraint violation, which we translate to ErrConflict so
// the handler can answer "email already registered".
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email, exactly as stored — no case folding.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, email, password_hash, name, created_at, updated_at
		 FROM users WHERE email = ?`, email)
}

// GetUserByID retrieves a user by their internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, email, password_hash, name, created_at, updated_at
		 FROM users WHERE id = ?`, id)
}

func (db *DB) getUser(ctx context.Context, query, key string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, key).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &u, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The pure-Go driver doesn't export a typed error for this, so we
// match on the stable "UNIQUE constraint failed" text SQLite has emitted
// since forever.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
