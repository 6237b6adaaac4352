package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andrewpaige1/studybuddy/client"
	"github.com/andrewpaige1/studybuddy/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var studyNotes = "Photosynthesis converts light energy into chemical energy stored in glucose molecules."

func newTestBackend(t *testing.T, questions QuestionSource) (*httptest.Server, *client.Client) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := config.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	if questions == nil {
		questions = StubQuestions{}
	}
	mux := http.NewServeMux()
	(&DBHandler{DB: db, Questions: questions}).Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, client.New(srv.URL, 0)
}

func TestBackendGenerateQuestions(t *testing.T) {
	_, c := newTestBackend(t, nil)

	pairs, err := c.GenerateQuestions(context.Background(), studyNotes)
	require.NoError(t, err)
	require.Len(t, pairs, 5)
	assert.Equal(t, "What are the main concepts discussed in Photosynthesis converts light energy into?", pairs[0].Question)
}

func TestBackendGenerateValidation(t *testing.T) {
	_, c := newTestBackend(t, nil)

	_, err := c.GenerateQuestions(context.Background(), "   ")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Please provide study notes", apiErr.Message)

	_, err = c.GenerateQuestions(context.Background(), "too short")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Please provide more detailed notes (at least 50 characters)", apiErr.Message)
}

func TestBackendSaveListDelete(t *testing.T) {
	_, c := newTestBackend(t, nil)
	ctx := context.Background()

	first, err := c.SaveFlashcard(ctx, "Q1", "A1", "Biology")
	require.NoError(t, err)
	second, err := c.SaveFlashcard(ctx, "Q2", "A2", "Chemistry")
	require.NoError(t, err)
	_, err = c.SaveFlashcard(ctx, "Q3", "A3", "Biology")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	cards, err := c.ListFlashcards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "Q3", cards[0].Question, "newest first")
	assert.Equal(t, "Q1", cards[2].Question)

	cats, err := c.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Biology", "Chemistry"}, cats)

	require.NoError(t, c.DeleteFlashcard(ctx, second))
	cards, err = c.ListFlashcards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	err = c.DeleteFlashcard(ctx, second)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Flashcard not found", apiErr.Message)
}

func TestBackendSaveRequiresQuestionAndAnswer(t *testing.T) {
	_, c := newTestBackend(t, nil)

	_, err := c.SaveFlashcard(context.Background(), "  ", "A", "General")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Question and answer are required", apiErr.Message)
}

func TestBackendListFiltersByCategory(t *testing.T) {
	srv, c := newTestBackend(t, nil)
	ctx := context.Background()
	_, err := c.SaveFlashcard(ctx, "Q1", "A1", "Biology")
	require.NoError(t, err)
	_, err = c.SaveFlashcard(ctx, "Q2", "A2", "Chemistry")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/flashcards?category=Chemistry")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Flashcards []client.SavedFlashcard `json:"flashcards"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Flashcards, 1)
	assert.Equal(t, "Q2", body.Flashcards[0].Question)
	assert.Equal(t, "Chemistry", body.Flashcards[0].Category)
}

func TestBackendEmptyLists(t *testing.T) {
	_, c := newTestBackend(t, nil)

	cards, err := c.ListFlashcards(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestStubQuestionsShortNotes(t *testing.T) {
	pairs, err := StubQuestions{}.Generate(context.Background(), "one two")
	require.NoError(t, err)
	require.Len(t, pairs, 5)
	assert.Contains(t, pairs[0].Question, "the provided content")
}
