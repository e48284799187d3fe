// Command seed replaces the question catalog with the standard intake
// questionnaire. Safe to re-run: the catalog is swapped atomically, and
// existing responses keep their question IDs only if you haven't reseeded
// (reseeding assigns fresh IDs — it's meant for empty or dev databases).
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mahir/surveyd/internal/model"
	"github.com/mahir/surveyd/internal/repository/sqlite"
)

var catalog = []model.Question{
	// Demographic
	{
		Title:       "What is your age?",
		Description: "Please enter your current age in years.",
		Type:        model.AnswerTypeNumber,
		Category:    "demographic",
	},
	{
		Title:       "What is your gender?",
		Description: "Please select your gender identity.",
		Type:        model.AnswerTypeText,
		Category:    "demographic",
	},
	{
		Title:       "What is your marital status?",
		Description: "Please select your current marital status.",
		Type:        model.AnswerTypeText,
		Category:    "demographic",
	},
	{
		Title:       "Do you have any children?",
		Description: "Please indicate if you have any children.",
		Type:        model.AnswerTypeText,
		Category:    "demographic",
	},
	{
		Title:       "What is your current living situation?",
		Description: "Please describe your current living arrangement.",
		Type:        model.AnswerTypeText,
		Category:    "demographic",
	},

	// Health
	{
		Title:       "Do you have any chronic health conditions?",
		Description: "Please list any chronic health conditions you have been diagnosed with.",
		Type:        model.AnswerTypeText,
		Category:    "health",
	},
	{
		Title:       "How would you rate your overall health?",
		Description: "Please rate your current health status from 1 (Poor) to 5 (Excellent).",
		Type:        model.AnswerTypeNumber,
		Category:    "health",
	},
	{
		Title:       "Do you require assistance with daily activities?",
		Description: "Please indicate if you need help with activities like bathing, dressing, or eating.",
		Type:        model.AnswerTypeText,
		Category:    "health",
	},
	{
		Title:       "Are you currently taking any medications?",
		Description: "Please list any medications you are currently taking.",
		Type:        model.AnswerTypeText,
		Category:    "health",
	},
	{
		Title:       "Have you been hospitalized in the past year?",
		Description: "Please indicate if you have had any hospital stays in the last 12 months.",
		Type:        model.AnswerTypeText,
		Category:    "health",
	},

	// Financial
	{
		Title:       "What is your annual household income?",
		Description: "Please enter your approximate annual household income.",
		Type:        model.AnswerTypeNumber,
		Category:    "financial",
	},
	{
		Title:       "Do you have long-term care insurance?",
		Description: "Please indicate if you have any long-term care insurance coverage.",
		Type:        model.AnswerTypeText,
		Category:    "financial",
	},
	{
		Title:       "What are your primary sources of income?",
		Description: "Please list your main sources of income (e.g., employment, retirement, investments).",
		Type:        model.AnswerTypeText,
		Category:    "financial",
	},
	{
		Title:       "Do you own your home?",
		Description: "Please indicate if you own or rent your primary residence.",
		Type:        model.AnswerTypeText,
		Category:    "financial",
	},
	{
		Title:       "What are your expected future care needs?",
		Description: "Please describe any anticipated future care requirements.",
		Type:        model.AnswerTypeText,
		Category:    "financial",
	},
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/survey.db"
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.ReplaceAll(context.Background(), catalog); err != nil {
		logger.Error("failed to seed questions", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("database seeded",
		slog.String("database", dbPath),
		slog.Int("questions", len(catalog)),
	)
}
