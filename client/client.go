// Package client talks to the study backend's JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError is an application-level failure reported in a response body,
// either as {"error": "..."} or {"success": false, "error": "..."}.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

// TransportError covers everything that did not produce a readable
// response: network failures and undecodable bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// QuestionPair is one generated question and its answer.
type QuestionPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SavedFlashcard is a card as listed by the backend.
type SavedFlashcard struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// Client calls the five backend endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the backend rooted at baseURL. A zero timeout
// leaves the transport defaults in charge.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient is New with a caller supplied http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

type envelope struct {
	Error   string `json:"error,omitempty"`
	Success *bool  `json:"success,omitempty"`
}

func (e envelope) failure(status int) *APIError {
	if e.Error != "" || (e.Success != nil && !*e.Success) {
		return &APIError{Status: status, Message: e.Error}
	}
	return nil
}

// GenerateQuestions asks the backend for question/answer pairs.
func (c *Client) GenerateQuestions(ctx context.Context, notes string) ([]QuestionPair, error) {
	var resp struct {
		envelope
		Questions []QuestionPair `json:"questions"`
	}
	status, err := c.do(ctx, "generate questions", http.MethodPost, "/api/generate-questions", map[string]string{"notes": notes}, &resp)
	if err != nil {
		return nil, err
	}
	if apiErr := resp.failure(status); apiErr != nil {
		return nil, apiErr
	}
	if resp.Questions == nil {
		return nil, &TransportError{Op: "generate questions", Err: errors.New("response has no questions field")}
	}
	return resp.Questions, nil
}

// SaveFlashcard persists one card and returns the backend id.
func (c *Client) SaveFlashcard(ctx context.Context, question, answer, category string) (int64, error) {
	body := map[string]string{
		"question": question,
		"answer":   answer,
		"category": category,
	}
	var resp struct {
		envelope
		ID json.RawMessage `json:"id"`
	}
	status, err := c.do(ctx, "save flashcard", http.MethodPost, "/api/save-flashcard", body, &resp)
	if err != nil {
		return 0, err
	}
	if apiErr := resp.failure(status); apiErr != nil {
		return 0, apiErr
	}
	if resp.Success == nil {
		return 0, &APIError{Status: status, Message: "Failed to save flashcard"}
	}
	id, err := parseID(resp.ID)
	if err != nil {
		return 0, &TransportError{Op: "save flashcard", Err: err}
	}
	return id, nil
}

// ListFlashcards returns every saved card in backend order.
func (c *Client) ListFlashcards(ctx context.Context) ([]SavedFlashcard, error) {
	var resp struct {
		envelope
		Flashcards []SavedFlashcard `json:"flashcards"`
	}
	status, err := c.do(ctx, "list flashcards", http.MethodGet, "/api/flashcards", nil, &resp)
	if err != nil {
		return nil, err
	}
	if apiErr := resp.failure(status); apiErr != nil {
		return nil, apiErr
	}
	if resp.Flashcards == nil {
		resp.Flashcards = []SavedFlashcard{}
	}
	return resp.Flashcards, nil
}

// ListCategories returns the distinct categories known to the backend.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var resp struct {
		envelope
		Categories []string `json:"categories"`
	}
	status, err := c.do(ctx, "list categories", http.MethodGet, "/api/categories", nil, &resp)
	if err != nil {
		return nil, err
	}
	if apiErr := resp.failure(status); apiErr != nil {
		return nil, apiErr
	}
	return resp.Categories, nil
}

// DeleteFlashcard removes a saved card.
func (c *Client) DeleteFlashcard(ctx context.Context, id int64) error {
	var resp envelope
	path := "/api/flashcard/" + strconv.FormatInt(id, 10)
	status, err := c.do(ctx, "delete flashcard", http.MethodDelete, path, nil, &resp)
	if err != nil {
		return err
	}
	if apiErr := resp.failure(status); apiErr != nil {
		return apiErr
	}
	if resp.Success == nil {
		return &APIError{Status: status, Message: "Failed to delete flashcard"}
	}
	return nil
}

// do sends the request and decodes the body into out whatever the status,
// since the backend reports application errors with non-2xx codes.
func (c *Client) do(ctx context.Context, op, method, path string, in any, out any) (int, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return 0, &TransportError{Op: op, Err: err}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	slog.Debug("backend call", "op", op, "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, &TransportError{Op: op, Err: fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)}
	}
	return resp.StatusCode, nil
}

// parseID accepts the id as a JSON number or a numeric string.
func parseID(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New("response has no id")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("invalid id %s", raw)
		}
		n = json.Number(s)
	}
	id, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("invalid id %s", raw)
	}
	return id, nil
}
