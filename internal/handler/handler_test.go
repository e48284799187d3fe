package handler_test

// =====================================================================
// FULL-STACK HANDLER TESTS
// =====================================================================
// These drive real handlers over real services and a real in-memory
// SQLite database — the only thing faked is the network (httptest).
// Where a request must be authenticated, it goes through the actual
// RequireAuth middleware with a token from the actual TokenService, so
// the tests cover the same path production requests take.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahir/surveyd/internal/auth"
	"github.com/mahir/surveyd/internal/handler"
	"github.com/mahir/surveyd/internal/model"
	"github.com/mahir/surveyd/internal/repository/sqlite"
	"github.com/mahir/surveyd/internal/service"
)

type testStack struct {
	db     *sqlite.DB
	tokens *auth.TokenService
	auth   *handler.AuthHandler
	survey *handler.SurveyHandler
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-is-long-enough")
	require.NoError(t, err)
	// Low bcrypt cost keeps the register/login tests fast.
	passwords := auth.NewPasswordServiceForTest(4)

	authSvc := service.NewAuthService(db, tokens, passwords, logger)
	surveySvc := service.NewSurveyService(db, db, logger)

	return &testStack{
		db:     db,
		tokens: tokens,
		auth:   handler.NewAuthHandler(authSvc, nil, logger),
		survey: handler.NewSurveyHandler(surveySvc, logger),
	}
}

// protected wraps a handler func in RequireAuth, the way the router does.
func (ts *testStack) protected(h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(ts.tokens)(h)
}

// registerUser creates an account through the real endpoint and returns
// the issued token.
func (ts *testStack) registerUser(t *testing.T, email string) string {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"password":"hunter22","name":"Test User"}`, email)
	rr := httptest.NewRecorder()
	ts.auth.HandleRegister(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, rr.Code, "register failed: %s", rr.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func (ts *testStack) seedQuestion(t *testing.T, title string) string {
	t.Helper()

	questions := []model.Question{{
		Title:    title,
		Type:     model.AnswerTypeText,
		Category: "demographic",
	}}
	require.NoError(t, ts.db.ReplaceAll(context.Background(), questions))

	listed, err := ts.db.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	return listed[0].ID
}

func authedRequest(method, target, body, token string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("returns a usable token", func(t *testing.T) {
		ts := newTestStack(t)

		token := ts.registerUser(t, "alice@example.com")

		userID, err := ts.tokens.Validate(token)
		assert.NoError(t, err)
		assert.NotEmpty(t, userID)
	})

	t.Run("duplicate email answers 400", func(t *testing.T) {
		ts := newTestStack(t)
		ts.registerUser(t, "alice@example.com")

		body := `{"email":"alice@example.com","password":"other-pass","name":"Impostor"}`
		rr := httptest.NewRecorder()
		ts.auth.HandleRegister(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var res handler.ErrorResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "conflict", res.Error)
	})

	t.Run("missing fields answer 400", func(t *testing.T) {
		ts := newTestStack(t)

		rr := httptest.NewRecorder()
		body := `{"email":"","password":"hunter22","name":"No Email"}`
		ts.auth.HandleRegister(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed JSON answers 400", func(t *testing.T) {
		ts := newTestStack(t)

		rr := httptest.NewRecorder()
		ts.auth.HandleRegister(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(`{"email":`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("valid credentials return token and user", func(t *testing.T) {
		ts := newTestStack(t)
		ts.registerUser(t, "alice@example.com")

		body := `{"email":"alice@example.com","password":"hunter22"}`
		rr := httptest.NewRecorder()
		ts.auth.HandleLogin(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body)))

		require.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Token string        `json:"token"`
			User  model.Summary `json:"user"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "alice@example.com", res.User.Email)
		assert.Equal(t, "Test User", res.User.Name)

		// The summary must never leak the hash.
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("wrong password and unknown email answer identically", func(t *testing.T) {
		ts := newTestStack(t)
		ts.registerUser(t, "alice@example.com")

		call := func(body string) (int, handler.ErrorResponse) {
			rr := httptest.NewRecorder()
			ts.auth.HandleLogin(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body)))
			var res handler.ErrorResponse
			_ = json.NewDecoder(rr.Body).Decode(&res)
			return rr.Code, res
		}

		wrongPassStatus, wrongPassBody := call(`{"email":"alice@example.com","password":"not-it"}`)
		noUserStatus, noUserBody := call(`{"email":"nobody@example.com","password":"hunter22"}`)

		assert.Equal(t, http.StatusUnauthorized, wrongPassStatus)
		assert.Equal(t, wrongPassStatus, noUserStatus)
		assert.Equal(t, wrongPassBody, noUserBody)
	})
}

func TestQuestionsEndpoint(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		ts := newTestStack(t)

		rr := httptest.NewRecorder()
		ts.protected(ts.survey.HandleListQuestions).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/questions", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects a garbage token with 403", func(t *testing.T) {
		ts := newTestStack(t)

		rr := httptest.NewRecorder()
		ts.protected(ts.survey.HandleListQuestions).ServeHTTP(rr, authedRequest(http.MethodGet, "/api/questions", "", "not.a.jwt"))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("returns the catalog", func(t *testing.T) {
		ts := newTestStack(t)
		token := ts.registerUser(t, "alice@example.com")
		ts.seedQuestion(t, "What is your age?")

		rr := httptest.NewRecorder()
		ts.protected(ts.survey.HandleListQuestions).ServeHTTP(rr, authedRequest(http.MethodGet, "/api/questions", "", token))

		require.Equal(t, http.StatusOK, rr.Code)

		var questions []model.Question
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&questions))
		require.Len(t, questions, 1)
		assert.Equal(t, "What is your age?", questions[0].Title)
	})

	t.Run("empty catalog is an empty array, not null", func(t *testing.T) {
		ts := newTestStack(t)
		token := ts.registerUser(t, "alice@example.com")

		rr := httptest.NewRecorder()
		ts.protected(ts.survey.HandleListQuestions).ServeHTTP(rr, authedRequest(http.MethodGet, "/api/questions", "", token))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

func TestSubmitResponseEndpoint(t *testing.T) {
	t.Run("first submission inserts, second updates", func(t *testing.T) {
		ts := newTestStack(t)
		token := ts.registerUser(t, "alice@example.com")
		questionID := ts.seedQuestion(t, "What is your age?")

		submit := func(answer string) service.SubmitResult {
			body := fmt.Sprintf(`{"questionId":%q,"answer":%q}`, questionID, answer)
			rr := httptest.NewRecorder()
			ts.protected(ts.survey.HandleSubmitResponse).ServeHTTP(rr, authedRequest(http.MethodPost, "/api/responses", body, token))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			var res service.SubmitResult
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
			return res
		}

		first := submit("29")
		assert.False(t, first.Updated)
		assert.NotEmpty(t, first.ID)

		second := submit("30")
		assert.True(t, second.Updated)
		assert.Equal(t, first.ID, second.ID, "resubmission must rewrite the same row")
	})

	t.Run("unknown question answers 404", func(t *testing.T) {
		ts := newTestStack(t)
		token := ts.registerUser(t, "alice@example.com")

		body := `{"questionId":"no-such-question","answer":"42"}`
		rr := httptest.NewRecorder()
		ts.protected(ts.survey.HandleSubmitResponse).ServeHTTP(rr, authedRequest(http.MethodPost, "/api/responses", body, token))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing question id answers 400", func(t *testing.T) {
		ts := newTestStack(t)
		token := ts.registerUser(t, "alice@example.com")

		body := `{"answer":"42"}`
		rr := httptest.NewRecorder()
		ts.protected(ts.survey.HandleSubmitResponse).ServeHTTP(rr, authedRequest(http.MethodPost, "/api/responses", body, token))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("requires a token", func(t *testing.T) {
		ts := newTestStack(t)

		body := `{"questionId":"q","answer":"42"}`
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/responses", bytes.NewBufferString(body))
		ts.protected(ts.survey.HandleSubmitResponse).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestListResponsesEndpoint(t *testing.T) {
	t.Run("returns only the caller's answers with titles", func(t *testing.T) {
		ts := newTestStack(t)
		aliceToken := ts.registerUser(t, "alice@example.com")
		bobToken := ts.registerUser(t, "bob@example.com")
		questionID := ts.seedQuestion(t, "What is your age?")

		submit := func(token, answer string) {
			body := fmt.Sprintf(`{"questionId":%q,"answer":%q}`, questionID, answer)
			rr := httptest.NewRecorder()
			ts.protected(ts.survey.HandleSubmitResponse).ServeHTTP(rr, authedRequest(http.MethodPost, "/api/responses", body, token))
			require.Equal(t, http.StatusOK, rr.Code)
		}
		submit(aliceToken, "29")
		submit(bobToken, "35")

		rr := httptest.NewRecorder()
		ts.protected(ts.survey.HandleListResponses).ServeHTTP(rr, authedRequest(http.MethodGet, "/api/responses", "", aliceToken))

		require.Equal(t, http.StatusOK, rr.Code)

		var answered []model.AnsweredQuestion
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&answered))
		require.Len(t, answered, 1, "must not see bob's answer")
		assert.Equal(t, "29", answered[0].Answer)
		assert.Equal(t, "What is your age?", answered[0].QuestionTitle)
	})

	t.Run("no answers yet is an empty array", func(t *testing.T) {
		ts := newTestStack(t)
		token := ts.registerUser(t, "alice@example.com")

		rr := httptest.NewRecorder()
		ts.protected(ts.survey.HandleListResponses).ServeHTTP(rr, authedRequest(http.MethodGet, "/api/responses", "", token))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}
