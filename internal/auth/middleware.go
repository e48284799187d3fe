package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "userID", id), ANY package that knows the string
// "userID" can read or shadow your value. A package-private type prevents
// collisions: only this package can create a contextKey, so only this
// package can read or write userID values in the context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is the gate in front of every survey route. It extracts the
// bearer token from the Authorization header, validates it, and stores the
// userID in the request context for the handlers downstream.
//
// The two failure modes are deliberately distinct:
//   - no Authorization header at all → 401 "authentication required"
//   - a token that fails validation  → 403 "invalid token"
//
// A failed verification is never retried here; the client has to
// re-authenticate. Nothing past this middleware runs without an identity, so
// no handler or repository is ever reached by an anonymous request.
//
// WHY A HEADER AND NOT A COOKIE?
// The API is consumed by a separate frontend (and by curl in every test
// plan). Authorization: Bearer is the standard way for non-browser clients
// to carry a token, and it sidesteps CSRF entirely — a cross-site form
// can't set custom headers.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication_required", "authentication required")
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				writeAuthError(w, http.StatusForbidden, "invalid_token", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if no valid token was presented — which on a
// RequireAuth-protected route should never happen.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// bearerToken pulls the token out of "Authorization: Bearer <token>".
// The scheme comparison is case-insensitive per RFC 9110 §11.1.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// writeAuthError emits the same {error, message} shape the handler package
// uses, without importing it (handler imports auth — the dependency can't
// point both ways).
func writeAuthError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + errType + `","message":"` + message + `"}`))
}
