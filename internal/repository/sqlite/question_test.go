package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mahir/surveyd/internal/apperror"
	"github.com/mahir/surveyd/internal/model"
)

func TestQuestionList(t *testing.T) {
	db := newTestDB(t)
	seeded := seedTestQuestions(t, db)

	got, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != len(seeded) {
		t.Fatalf("List() returned %d questions, want %d", len(got), len(seeded))
	}

	// Insertion order is preserved — the catalog is presented in the order
	// it was seeded.
	for i := range seeded {
		if got[i].Title != seeded[i].Title {
			t.Errorf("List()[%d].Title = %q, want %q", i, got[i].Title, seeded[i].Title)
		}
		if got[i].ID == "" {
			t.Errorf("List()[%d].ID is empty", i)
		}
	}
}

func TestQuestionList_EmptyCatalog(t *testing.T) {
	db := newTestDB(t)

	got, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got == nil {
		t.Fatal("List() returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("List() on empty catalog returned %d questions", len(got))
	}
}

func TestQuestionGetByID(t *testing.T) {
	db := newTestDB(t)
	seeded := seedTestQuestions(t, db)

	got, err := db.GetByID(context.Background(), seeded[1].ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != seeded[1].Title {
		t.Errorf("GetByID() Title = %q, want %q", got.Title, seeded[1].Title)
	}
	if got.Type != model.AnswerTypeNumber {
		t.Errorf("GetByID() Type = %q, want %q", got.Type, model.AnswerTypeNumber)
	}
}

func TestQuestionGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	seedTestQuestions(t, db)

	_, err := db.GetByID(context.Background(), "no-such-question")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() = %v, want ErrNotFound", err)
	}
}

func TestQuestionReplaceAll_SwapsCatalog(t *testing.T) {
	db := newTestDB(t)
	seedTestQuestions(t, db)

	replacement := []model.Question{
		{Title: "Only question now", Type: model.AnswerTypeText, Category: "demographic"},
	}
	if err := db.ReplaceAll(context.Background(), replacement); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	got, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List() after ReplaceAll returned %d questions, want 1", len(got))
	}
	if got[0].Title != "Only question now" {
		t.Errorf("List()[0].Title = %q", got[0].Title)
	}
}

// Reseeding assigns an ID to any question that doesn't carry one, and the
// caller's slice sees it (ReplaceAll mutates in place).
func TestQuestionReplaceAll_AssignsIDs(t *testing.T) {
	db := newTestDB(t)

	qs := []model.Question{{Title: "Q", Type: model.AnswerTypeText, Category: "health"}}
	if err := db.ReplaceAll(context.Background(), qs); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	if qs[0].ID == "" {
		t.Error("ReplaceAll() did not assign an ID")
	}
}
