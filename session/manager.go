// Package session holds the per-visitor flashcard state: the batch produced
// by the last generate call, the saved set mirrored from the backend, and
// the view the visitor is looking at.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/andrewpaige1/studybuddy/client"
	"github.com/andrewpaige1/studybuddy/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// MinNotesLength is the shortest trimmed note text, in characters, that
// is sent for generation.
const MinNotesLength = 50

const (
	AllCategoriesLabel = "All Categories"
	DeletePrompt       = "Are you sure you want to delete this flashcard?"
)

// Backend is the subset of the API client the manager needs.
type Backend interface {
	GenerateQuestions(ctx context.Context, notes string) ([]client.QuestionPair, error)
	SaveFlashcard(ctx context.Context, question, answer, category string) (int64, error)
	ListFlashcards(ctx context.Context) ([]client.SavedFlashcard, error)
	ListCategories(ctx context.Context) ([]string, error)
	DeleteFlashcard(ctx context.Context, id int64) error
}

// ConfirmFunc gates destructive operations. Returning false cancels with
// no side effects.
type ConfirmFunc func(prompt string) bool

// CategoryOption is one entry of the saved-view category filter.
type CategoryOption struct {
	Value string
	Label string
}

// SaveReport summarises a SaveAll call.
type SaveReport struct {
	Attempted int
	Saved     int
}

func (r SaveReport) Failed() int {
	return r.Attempted - r.Saved
}

type Option func(*Manager)

// WithClock replaces the clock used for message expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.board = NewBoard(now) }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithTokenSource replaces the card token generator.
func WithTokenSource(next func() (string, error)) Option {
	return func(m *Manager) { m.newToken = next }
}

// Manager is safe for concurrent use. Backend calls are made without
// holding the lock, and cards are always updated through the pointer that
// was picked before the call, never through an index.
type Manager struct {
	backend  Backend
	board    *Board
	logger   *slog.Logger
	newToken func() (string, error)

	mu         sync.Mutex
	batch      []*models.Flashcard
	saved      []models.Flashcard
	categories []string
	filter     string
	view       View
	loading    bool
	pending    map[*models.Flashcard]struct{}

	draftNotes    string
	draftCategory string
}

func NewManager(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		backend:  backend,
		board:    NewBoard(nil),
		logger:   slog.Default(),
		newToken: func() (string, error) { return gonanoid.New() },
		view:     GeneratorView,
		pending:  make(map[*models.Flashcard]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start performs the initial load of the saved set.
func (m *Manager) Start(ctx context.Context) error {
	return m.LoadSaved(ctx)
}

// Generate replaces the current batch with questions generated from notes.
func (m *Manager) Generate(ctx context.Context, notes, category string) error {
	m.SetDraft(notes, category)
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) < MinNotesLength {
		return m.fail(&Error{
			Kind:    ErrValidation,
			Op:      "generate",
			Message: fmt.Sprintf("Please provide at least %d characters of study notes", MinNotesLength),
		})
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = models.DefaultCategory
	}

	if !m.beginLoading() {
		return m.fail(&Error{Kind: ErrValidation, Op: "generate", Message: "Flashcards are already being generated"})
	}
	defer m.endLoading()

	pairs, err := m.backend.GenerateQuestions(ctx, notes)
	if err != nil {
		return m.fail(classify("generate", ErrGeneration, "Failed to generate flashcards.", err))
	}

	batch := make([]*models.Flashcard, 0, len(pairs))
	for _, p := range pairs {
		token, err := m.newToken()
		if err != nil {
			return m.fail(&Error{Kind: ErrGeneration, Op: "generate", Message: "Failed to generate flashcards.", Err: err})
		}
		batch = append(batch, &models.Flashcard{
			Token:    token,
			Question: p.Question,
			Answer:   p.Answer,
			Category: category,
		})
	}

	m.mu.Lock()
	m.batch = batch
	m.mu.Unlock()

	m.logger.Info("generated flashcards", "count", len(batch), "category", category)
	m.board.Post(MessageSuccess, "Flashcards generated successfully!")
	return nil
}

// SaveOne saves the card at index in the current batch.
func (m *Manager) SaveOne(ctx context.Context, index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.batch) {
		m.mu.Unlock()
		return m.fail(&Error{Kind: ErrValidation, Op: "save", Message: fmt.Sprintf("No flashcard at position %d", index)})
	}
	card := m.batch[index]
	m.mu.Unlock()
	return m.save(ctx, card)
}

// SaveCard saves the current-batch card with the given token.
func (m *Manager) SaveCard(ctx context.Context, token string) error {
	m.mu.Lock()
	card := m.findBatchCard(token)
	m.mu.Unlock()
	if card == nil {
		return m.fail(&Error{Kind: ErrValidation, Op: "save", Message: "Flashcard not found"})
	}
	return m.save(ctx, card)
}

func (m *Manager) save(ctx context.Context, card *models.Flashcard) error {
	m.mu.Lock()
	if !m.claim(card) {
		m.mu.Unlock()
		return nil
	}
	question, answer, category := card.Question, card.Answer, card.Category
	m.mu.Unlock()

	id, err := m.backend.SaveFlashcard(ctx, question, answer, category)
	m.settle(card, id, err)
	if err != nil {
		return m.fail(classify("save", ErrSave, "Failed to save flashcard.", err))
	}

	m.board.Post(MessageSuccess, "Flashcard saved successfully!")
	return nil
}

// SaveAll saves every unsaved card in the current batch concurrently and
// waits for all of them. Individual failures are counted, not returned.
func (m *Manager) SaveAll(ctx context.Context) (SaveReport, error) {
	m.mu.Lock()
	var todo []*models.Flashcard
	for _, card := range m.batch {
		if m.claim(card) {
			todo = append(todo, card)
		}
	}
	m.mu.Unlock()

	if len(todo) == 0 {
		m.board.Post(MessageSuccess, "All flashcards are already saved!")
		return SaveReport{}, nil
	}

	var (
		g     errgroup.Group
		saved atomic.Int64
	)
	for _, card := range todo {
		g.Go(func() error {
			id, err := m.backend.SaveFlashcard(ctx, card.Question, card.Answer, card.Category)
			m.settle(card, id, err)
			if err != nil {
				m.logger.Warn("save failed", "token", card.Token, "error", err)
				return nil
			}
			saved.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report := SaveReport{Attempted: len(todo), Saved: int(saved.Load())}
	kind := MessageSuccess
	if report.Failed() > 0 {
		kind = MessageError
	}
	m.logger.Info("saved batch", "attempted", report.Attempted, "saved", report.Saved)
	m.board.Post(kind, fmt.Sprintf("%d of %d flashcard(s) saved successfully!", report.Saved, report.Attempted))
	return report, nil
}

// claim marks card as having a save in flight. It reports false when the
// card is already saved or another save owns it. Callers hold mu.
func (m *Manager) claim(card *models.Flashcard) bool {
	if card.Saved {
		return false
	}
	if _, busy := m.pending[card]; busy {
		return false
	}
	m.pending[card] = struct{}{}
	return true
}

func (m *Manager) settle(card *models.Flashcard, id int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, card)
	if err == nil {
		card.MarkSaved(id)
	}
}

// LoadSaved replaces the saved set with the backend's. On failure the
// previous set is kept.
func (m *Manager) LoadSaved(ctx context.Context) error {
	listed, err := m.backend.ListFlashcards(ctx)
	if err != nil {
		return m.fail(classify("load saved", ErrLoad, "Failed to load saved flashcards.", err))
	}

	saved := make([]models.Flashcard, 0, len(listed))
	for _, c := range listed {
		token, err := m.newToken()
		if err != nil {
			return m.fail(&Error{Kind: ErrLoad, Op: "load saved", Message: "Failed to load saved flashcards.", Err: err})
		}
		card := models.Flashcard{
			Token:    token,
			Question: c.Question,
			Answer:   c.Answer,
			Category: c.Category,
		}
		card.MarkSaved(c.ID)
		saved = append(saved, card)
	}

	m.mu.Lock()
	m.saved = saved
	m.mu.Unlock()
	return nil
}

// LoadCategories refreshes the category filter options. Failures are only
// logged.
func (m *Manager) LoadCategories(ctx context.Context) error {
	cats, err := m.backend.ListCategories(ctx)
	if err != nil {
		serr := classify("load categories", ErrLoad, "Failed to load categories.", err)
		m.logger.Warn("error loading categories", "error", serr)
		return serr
	}

	m.mu.Lock()
	m.categories = append([]string(nil), cats...)
	m.mu.Unlock()
	return nil
}

// FilterByCategory returns the saved cards in the category, or all of them
// when selected is empty. The selection is remembered for rendering.
func (m *Manager) FilterByCategory(selected string) []models.Flashcard {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = selected
	return filterCards(m.saved, selected)
}

func filterCards(cards []models.Flashcard, category string) []models.Flashcard {
	out := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		if category == "" || c.Category == category {
			out = append(out, cloneCard(c))
		}
	}
	return out
}

// DeleteFlashcard deletes a saved card after confirm agrees, drops it from
// the current batch and reloads the saved set.
func (m *Manager) DeleteFlashcard(ctx context.Context, id int64, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(DeletePrompt) {
		return nil
	}

	if err := m.backend.DeleteFlashcard(ctx, id); err != nil {
		return m.fail(classify("delete", ErrDelete, "Failed to delete flashcard.", err))
	}

	m.mu.Lock()
	kept := m.batch[:0:0]
	for _, card := range m.batch {
		if card.ID == nil || *card.ID != id {
			kept = append(kept, card)
		}
	}
	m.batch = kept
	m.mu.Unlock()

	// A failed reload has already been reported.
	_ = m.LoadSaved(ctx)

	m.logger.Info("deleted flashcard", "id", id)
	m.board.Post(MessageSuccess, "Flashcard deleted successfully!")
	return nil
}

// ShowView switches views. Entering the saved view always refetches the
// saved set and the categories.
func (m *Manager) ShowView(ctx context.Context, v View) error {
	m.mu.Lock()
	m.view = v
	if v == SavedView {
		m.filter = ""
	}
	m.mu.Unlock()

	if v != SavedView {
		return nil
	}
	err := m.LoadSaved(ctx)
	_ = m.LoadCategories(ctx)
	return err
}

// fail logs and posts err, then returns it.
func (m *Manager) fail(err *Error) error {
	if err.Kind == ErrValidation {
		m.logger.Debug("rejected operation", "op", err.Op, "reason", err.Message)
	} else {
		m.logger.Error("operation failed", "op", err.Op, "error", err)
	}
	m.board.Post(MessageError, err.Message)
	return err
}

func (m *Manager) beginLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loading {
		return false
	}
	m.loading = true
	return true
}

func (m *Manager) endLoading() {
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}

func (m *Manager) findBatchCard(token string) *models.Flashcard {
	for _, card := range m.batch {
		if card.Token == token {
			return card
		}
	}
	return nil
}

// CurrentBatch returns a copy of the current batch in generation order.
func (m *Manager) CurrentBatch() []models.Flashcard {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Flashcard, len(m.batch))
	for i, card := range m.batch {
		out[i] = cloneCard(*card)
	}
	return out
}

// SavedCards returns a copy of the whole saved set.
func (m *Manager) SavedCards() []models.Flashcard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterCards(m.saved, "")
}

// VisibleSavedCards applies the remembered filter to the saved set.
func (m *Manager) VisibleSavedCards() []models.Flashcard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterCards(m.saved, m.filter)
}

// Categories returns the filter options, "all categories" first.
func (m *Manager) Categories() []CategoryOption {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CategoryOption, 0, len(m.categories)+1)
	out = append(out, CategoryOption{Value: "", Label: AllCategoriesLabel})
	for _, c := range m.categories {
		out = append(out, CategoryOption{Value: c, Label: c})
	}
	return out
}

// SetDraft remembers the notes and category as the user last typed them,
// so a re-rendered form can be filled in again.
func (m *Manager) SetDraft(notes, category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draftNotes, m.draftCategory = notes, category
}

func (m *Manager) Draft() (notes, category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draftNotes, m.draftCategory
}

func (m *Manager) Filter() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter
}

func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Loading reports whether a generate call is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Messages returns the transient messages that are still visible.
func (m *Manager) Messages() []Message {
	return m.board.Active()
}

func cloneCard(c models.Flashcard) models.Flashcard {
	if c.ID != nil {
		id := *c.ID
		c.ID = &id
	}
	return c
}
