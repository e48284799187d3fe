package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mahir/surveyd/internal/auth"
	"github.com/mahir/surveyd/internal/service"
)

// SurveyHandler serves the question catalog and the response endpoints.
// Every route here sits behind auth.RequireAuth — by the time a request
// arrives, the userID is in the context and is trusted.
type SurveyHandler struct {
	surveySvc *service.SurveyService
	logger    *slog.Logger
}

// NewSurveyHandler creates a SurveyHandler.
func NewSurveyHandler(surveySvc *service.SurveyService, logger *slog.Logger) *SurveyHandler {
	return &SurveyHandler{
		surveySvc: surveySvc,
		logger:    logger,
	}
}

// HandleListQuestions returns the full catalog.
//
// HTTP: GET /api/questions
// Auth: required (the catalog is only for registered participants)
func (h *SurveyHandler) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.surveySvc.ListQuestions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

type submitRequest struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// HandleSubmitResponse records (or rewrites) the caller's answer.
//
// HTTP: POST /api/responses
// Body: {"questionId": "...", "answer": "..."}
// 200:  {"id": "...", "updated": false}  — first answer for this question
//
//	{"id": "...", "updated": true}   — replaced an earlier answer
//
// The user never names themselves in the body — ownership comes from the
// token, so nobody can submit answers as someone else.
func (h *SurveyHandler) HandleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen behind RequireAuth, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.surveySvc.SubmitAnswer(r.Context(), userID, req.QuestionID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleListResponses returns the caller's own answers, newest first, each
// carrying its question's title.
//
// HTTP: GET /api/responses
// 200:  [] when the user hasn't answered anything yet — never an error.
func (h *SurveyHandler) HandleListResponses(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	answered, err := h.surveySvc.ListUserResponses(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answered)
}
