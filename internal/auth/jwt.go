// Package auth provides JWT session tokens, bcrypt password hashing, and the
// bearer-token middleware guarding the survey API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client registers or logs in with email/password (or GitHub OAuth)
// 2. Server issues a signed JWT bound to the user's internal ID
// 3. Client sends it back on every call: Authorization: Bearer <token>
// 4. RequireAuth validates the signature and puts the userID in the
//    request context — no DB lookup needed, the token is self-contained
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store
// session data. All the information needed (userID, expiry) is inside the
// signed token. The signature ensures nobody can tamper with it without the
// secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginTokenTTL is how long a token issued by password login stays valid.
// After 24 hours the client has to log in again.
const LoginTokenTTL = 24 * time.Hour

const issuer = "surveyd"

// TokenService signs and verifies session tokens with an HMAC secret.
// The same secret must be used for both operations — keep it safe, rotate it
// periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims which includes
// standard fields like Issuer, Subject, ExpiresAt, IssuedAt.
//
// We use "sub" (Subject) to store the internal user ID — the standard JWT
// claim for identifying who the token belongs to.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token with no expiry claim.
// Registration issues these: the account was literally just created, so the
// token is a convenience to skip an immediate login, not a long-lived grant.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-service deployment like this one.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.sign(claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   issuer,
		},
	})
}

// GenerateWithTTL creates a token that expires after d. Login uses this with
// LoginTokenTTL; tests use it with negative durations to mint expired tokens.
func (s *TokenService) GenerateWithTTL(userID string, d time.Duration) (string, error) {
	now := time.Now()
	return s.sign(claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	})
}

func (s *TokenService) sign(c claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a JWT string and returns the userID it
// carries. It is pure — no store access, just crypto against the secret.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired, when an expiry claim is present
//   - Issuer matches "surveyd" (rejects tokens minted by other apps)
//   - Algorithm is HS256
//
// ALGORITHM CONFUSION ATTACK:
// Without pinning the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. jwt.WithValidMethods prevents this.
//
// Note there is no jwt.WithExpirationRequired here: registration tokens
// carry no expiry claim on purpose, and must still verify.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
