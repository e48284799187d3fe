// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and context, return domain models and domain
// errors, and know nothing about HTTP. The handler translates both ways.
// Services receive repository INTERFACES, not the concrete sqlite.DB —
// tests swap in fakes without touching a database.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mahir/surveyd/internal/apperror"
	"github.com/mahir/surveyd/internal/auth"
	"github.com/mahir/surveyd/internal/model"
	"github.com/mahir/surveyd/internal/repository"
)

// AuthService implements registration and credential login against the
// user store, issuing signed session tokens.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Called from server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the issued token with the authenticated user so the
// handler can build its response in one step. Handlers must only expose
// User.Summary(), never the full record.
type AuthResult struct {
	Token string
	User  *model.User
}

// Register creates an account and returns a session token for it.
//
// All three fields are required. The password is stored only as a bcrypt
// hash — the plaintext never leaves this method and is never logged.
// A duplicate email surfaces as ErrConflict from the repository (backed by
// the UNIQUE constraint, so two concurrent registrations can't both win).
//
// The registration token carries no expiry: it's a convenience so the
// client can skip an immediate login, not a long-lived grant. Login issues
// the 24-hour tokens.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		// Over-length passwords are the only caller-caused failure here
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a 24-hour session token.
//
// UNIFORM FAILURE:
// Unknown email and wrong password both return the same
// ErrUnauthorized("invalid credentials"). Distinguishing them would let an
// attacker probe which emails have accounts. The bcrypt comparison itself
// is constant-time; we additionally run it even for OAuth-only accounts
// (empty stored hash), where it always fails, so those accounts don't
// answer faster than password accounts by skipping the check entirely.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		// Mismatch, empty hash (OAuth-only account), malformed hash —
		// all collapse into the same uniform answer.
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.GenerateWithTTL(user.ID, auth.LoginTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{Token: token, User: user}, nil
}

// LoginWithGitHub signs in (registering on first contact) a user identified
// by a verified GitHub profile. The account is keyed by email: a returning
// GitHub user matches their existing row, a new one gets a row with an
// empty password hash — password login for such accounts fails uniformly
// until they register a password, which is out of scope here.
func (s *AuthService) LoginWithGitHub(ctx context.Context, profile *auth.GitHubProfile) (*AuthResult, error) {
	if profile == nil || profile.Email == "" {
		return nil, fmt.Errorf("service/auth: GitHub profile must carry an email")
	}

	user, err := s.users.GetByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		// Returning user — nothing to update, email is the stable key.
	case errors.Is(err, apperror.ErrNotFound):
		user = &model.User{
			Email: profile.Email,
			Name:  profile.Name,
		}
		if err := s.users.Create(ctx, user); err != nil {
			// A concurrent first sign-in for the same email can lose
			// the insert race; re-read the winner's row.
			if errors.Is(err, apperror.ErrConflict) {
				user, err = s.users.GetByEmail(ctx, profile.Email)
				if err != nil {
					return nil, fmt.Errorf("service/auth: re-reading user after conflict: %w", err)
				}
				break
			}
			return nil, fmt.Errorf("service/auth: creating GitHub user: %w", err)
		}
		s.logger.Info("user registered via GitHub",
			slog.String("userID", user.ID),
			slog.String("login", profile.Login),
		)
	default:
		return nil, fmt.Errorf("service/auth: looking up GitHub user: %w", err)
	}

	token, err := s.tokens.GenerateWithTTL(user.ID, auth.LoginTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{Token: token, User: user}, nil
}
