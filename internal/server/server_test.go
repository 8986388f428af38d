package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"jobscout/internal/extraction"
)

const testDatabank = `
questions:
  "Why do you want to work here?": "I admire the product."
personal_info:
  full_name: Jane van Dorp
  email: jane@example.com
`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	databankPath := filepath.Join(dir, "qa_databank.yaml")
	if err := os.WriteFile(databankPath, []byte(testDatabank), 0o644); err != nil {
		t.Fatalf("writing databank fixture: %v", err)
	}

	return New(Config{
		Address:      "127.0.0.1:0",
		DatabankPath: databankPath,
		HistoryPath:  filepath.Join(dir, "history", "answer_usage_history.json"),
	}, extraction.New(nil, zap.NewNop()), zap.NewNop())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(into); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}

func TestParseAndAnswer(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/parse-and-answer", map[string]string{
		"pageText": "Application form:\nFirst Name\nEmail\nWhy do you want to work here?\n",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}

	var body parseResponse
	decodeBody(t, rec, &body)

	if body.TotalQuestions == 0 {
		t.Fatalf("expected questions to be extracted, got %+v", body)
	}
	if body.FromDatabank == 0 {
		t.Fatalf("expected at least one databank answer, got %+v", body)
	}
	if body.TotalQuestions != body.FromDatabank+body.NotFound {
		t.Fatalf("tally does not add up: %+v", body)
	}
}

func TestParseAndAnswerEmptyPageText(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/parse-and-answer", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty page text, got %d", rec.Code)
	}
}

func TestParseAndAnswerNoQuestions(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/parse-and-answer", map[string]string{
		"pageText": "We are a fast growing startup building widgets.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body parseResponse
	decodeBody(t, rec, &body)
	if body.Message != "no questions found on page" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
	if body.Answers == nil || len(body.Answers) != 0 {
		t.Fatalf("expected empty answers array, got %v", body.Answers)
	}
}

func TestParseAndAnswerWrongMethod(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/parse-and-answer", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestTrackAnswerValidation(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/track-answer", map[string]string{
		"question": "What is your notice period?",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rec.Code)
	}
}

func TestTrackAnswerAndHistory(t *testing.T) {
	handler := newTestServer(t).Handler()

	for i := range 3 {
		rec := doJSON(t, handler, http.MethodPost, "/api/track-answer", map[string]any{
			"question": fmt.Sprintf("Question %d", i),
			"answer":   "An answer",
			"source":   "databank",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("track-answer %d: unexpected status %d", i, rec.Code)
		}
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/answer-history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body struct {
		History []HistoryEntry `json:"history"`
		Total   int            `json:"total"`
	}
	decodeBody(t, rec, &body)

	if body.Total != 3 {
		t.Fatalf("expected 3 history entries, got %d", body.Total)
	}
	// Newest first.
	if body.History[0].Question != "Question 2" {
		t.Fatalf("expected newest entry first, got %q", body.History[0].Question)
	}
	if body.History[0].Timestamp == "" {
		t.Fatalf("expected entry to be timestamped")
	}
}

func TestAnswerHistoryLimit(t *testing.T) {
	handler := newTestServer(t).Handler()

	for i := range 5 {
		doJSON(t, handler, http.MethodPost, "/api/track-answer", map[string]any{
			"question": fmt.Sprintf("Question %d", i),
			"answer":   "An answer",
			"source":   "databank",
		})
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/answer-history?limit=2", nil)

	var body struct {
		History []HistoryEntry `json:"history"`
		Total   int            `json:"total"`
	}
	decodeBody(t, rec, &body)

	if len(body.History) != 2 {
		t.Fatalf("expected 2 entries with limit=2, got %d", len(body.History))
	}
	if body.Total != 5 {
		t.Fatalf("expected total 5, got %d", body.Total)
	}
}

func TestAnswerHistoryInvalidLimit(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/answer-history?limit=banana", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid limit, got %d", rec.Code)
	}
}

func TestDebugExtract(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/debug/extract-questions", map[string]string{
		"pageText": "First Name\nEmail\nWhy are you interested in this position?\n",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)

	if body["method_used"] != "regex" {
		t.Fatalf("expected regex method without an ai strategy, got %v", body["method_used"])
	}
	if _, ok := body["regex_extraction"]; !ok {
		t.Fatalf("expected regex_extraction section, got %v", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/parse-and-answer", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS headers on preflight response")
	}
}

func TestHistoryCap(t *testing.T) {
	srv := newTestServer(t)

	for i := range maxHistoryEntries + 10 {
		entry := HistoryEntry{
			Question: fmt.Sprintf("Question %d", i),
			Answer:   "An answer",
			Source:   "databank",
		}
		if err := srv.appendHistory(entry); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	history, err := srv.loadHistory()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != maxHistoryEntries {
		t.Fatalf("expected history capped at %d, got %d", maxHistoryEntries, len(history))
	}
	// Oldest entries are the ones discarded.
	if history[0].Question != "Question 10" {
		t.Fatalf("expected oldest entries dropped, first is %q", history[0].Question)
	}
}
