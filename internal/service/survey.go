package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mahir/surveyd/internal/apperror"
	"github.com/mahir/surveyd/internal/model"
	"github.com/mahir/surveyd/internal/repository"
)

// SurveyService orchestrates catalog reads and answer submission. Identity
// is the caller's problem: handlers pass the userID that the auth gate put
// in the request context, and this service trusts it.
type SurveyService struct {
	questions repository.QuestionRepository
	responses repository.ResponseRepository
	logger    *slog.Logger
}

// NewSurveyService creates a SurveyService.
func NewSurveyService(
	questions repository.QuestionRepository,
	responses repository.ResponseRepository,
	logger *slog.Logger,
) *SurveyService {
	return &SurveyService{
		questions: questions,
		responses: responses,
		logger:    logger,
	}
}

// SubmitResult is the outcome of an answer submission: the surviving row's
// ID, and whether the submission replaced an earlier answer.
type SubmitResult struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
}

// ListQuestions returns the shared catalog. Every authenticated user sees
// the same questions — there is no per-user filtering.
func (s *SurveyService) ListQuestions(ctx context.Context) ([]model.Question, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		s.logger.Error("failed to list questions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	return questions, nil
}

// SubmitAnswer records the user's current answer to a question.
//
// The first submission for a (user, question) pair creates a row; every
// later one rewrites that row's answer in place. Either way the pair ends
// up with exactly one row whose answer is the latest submission — the
// repository's conflict-guarded upsert makes that hold even under
// concurrent submissions, so resubmitting after a failure is always safe.
//
// The question must exist in the catalog; an unknown ID is ErrNotFound.
// Answer CONTENT is not validated here — whether "abc" is acceptable for a
// numeric question is the form's concern, and an empty answer is stored as
// given.
func (s *SurveyService) SubmitAnswer(ctx context.Context, userID, questionID, answer string) (*SubmitResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}
	if strings.TrimSpace(questionID) == "" {
		return nil, apperror.ValidationFailed("questionId", "question ID is required")
	}

	if _, err := s.questions.GetByID(ctx, questionID); err != nil {
		// ErrNotFound propagates as-is; the handler maps it to 404.
		return nil, err
	}

	resp := &model.Response{
		QuestionID: questionID,
		UserID:     userID,
		Answer:     answer,
	}
	updated, err := s.responses.Upsert(ctx, resp)
	if err != nil {
		s.logger.Error("failed to submit answer",
			slog.String("userID", userID),
			slog.String("questionID", questionID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("submitting answer: %w", err)
	}

	s.logger.Info("answer submitted",
		slog.String("userID", userID),
		slog.String("questionID", questionID),
		slog.String("responseID", resp.ID),
		slog.Bool("updated", updated),
	)

	return &SubmitResult{ID: resp.ID, Updated: updated}, nil
}

// ListUserResponses returns the caller's own responses, each joined with
// its question's title, most recently answered first. A user with no
// responses gets an empty slice, not an error.
func (s *SurveyService) ListUserResponses(ctx context.Context, userID string) ([]model.AnsweredQuestion, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	answered, err := s.responses.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list responses",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing responses: %w", err)
	}

	return answered, nil
}
