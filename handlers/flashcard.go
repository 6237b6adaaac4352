package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/andrewpaige1/studybuddy/client"
	"github.com/andrewpaige1/studybuddy/models"
	"github.com/andrewpaige1/studybuddy/utils"
	"gorm.io/gorm"
)

// QuestionSource produces question/answer pairs from study notes.
type QuestionSource interface {
	Generate(ctx context.Context, notes string) ([]client.QuestionPair, error)
}

// DBHandler serves the study backend API over a gorm database. It backs
// local development and the integration tests.
type DBHandler struct {
	*gorm.DB
	Questions QuestionSource
}

// Routes registers the five API endpoints on mux.
func (db *DBHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/generate-questions", db.GenerateQuestions)
	mux.HandleFunc("POST /api/save-flashcard", db.SaveFlashcard)
	mux.HandleFunc("GET /api/flashcards", db.GetFlashcards)
	mux.HandleFunc("GET /api/categories", db.GetCategories)
	mux.HandleFunc("DELETE /api/flashcard/{flashcardID}", db.DeleteFlashcard)
}

func (db *DBHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var requestData struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	notes := strings.TrimSpace(requestData.Notes)
	if notes == "" {
		utils.WriteError(w, http.StatusBadRequest, "Please provide study notes")
		return
	}
	if utf8.RuneCountInString(notes) < 50 {
		utils.WriteError(w, http.StatusBadRequest, "Please provide more detailed notes (at least 50 characters)")
		return
	}

	questions, err := db.Questions.Generate(r.Context(), notes)
	if err != nil || len(questions) == 0 {
		slog.Error("error generating questions", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate questions. Please try again.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (db *DBHandler) SaveFlashcard(w http.ResponseWriter, r *http.Request) {
	var requestData struct {
		Question string  `json:"question"`
		Answer   string  `json:"answer"`
		Category *string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	flashcard := models.FlashcardRecord{
		Question: strings.TrimSpace(requestData.Question),
		Answer:   strings.TrimSpace(requestData.Answer),
		Category: models.DefaultCategory,
	}
	if requestData.Category != nil {
		flashcard.Category = strings.TrimSpace(*requestData.Category)
	}

	if flashcard.Question == "" || flashcard.Answer == "" {
		utils.WriteError(w, http.StatusBadRequest, "Question and answer are required")
		return
	}

	if err := db.Create(&flashcard).Error; err != nil {
		slog.Error("error saving flashcard", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save flashcard")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "id": flashcard.ID})
}

func (db *DBHandler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	query := db.Order("created_at DESC").Order("id DESC")
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var flashcards []models.FlashcardRecord
	if err := query.Find(&flashcards).Error; err != nil {
		slog.Error("error retrieving flashcards", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// If no flashcards found, return an empty array instead of null
	if flashcards == nil {
		flashcards = []models.FlashcardRecord{}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"flashcards": flashcards})
}

func (db *DBHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	var categories []string
	err := db.Model(&models.FlashcardRecord{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		slog.Error("error retrieving categories", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if categories == nil {
		categories = []string{}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (db *DBHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	flashcardID, err := strconv.ParseInt(r.PathValue("flashcardID"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Flashcard not found")
		return
	}

	result := db.Delete(&models.FlashcardRecord{}, flashcardID)
	if result.Error != nil {
		slog.Error("error deleting flashcard", "id", flashcardID, "error", result.Error)
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if result.RowsAffected == 0 {
		utils.WriteError(w, http.StatusNotFound, "Flashcard not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
