package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"jobscout/internal/matching"
)

// parseRequest is the body of parse-and-answer and debug extraction calls.
type parseRequest struct {
	PageText string            `json:"pageText"`
	Context  map[string]string `json:"context"`
}

type parseResponse struct {
	Answers        []matching.Answer `json:"answers"`
	TotalQuestions int               `json:"total_questions"`
	FromDatabank   int               `json:"from_databank"`
	NotFound       int               `json:"not_found"`
	Message        string            `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "backend is running",
	})
}

// handleParseAndAnswer extracts questions from the page text and answers each
// independently from the databank. Questions with no answer come back with an
// explicit not_found marker so the extension can prompt the user instead of
// submitting a guess.
func (s *Server) handleParseAndAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PageText == "" {
		jsonError(w, "no page text provided", http.StatusBadRequest)
		return
	}

	matcher, err := s.matcher()
	if err != nil {
		s.logger.Error("loading databank", zap.Error(err))
		jsonError(w, "failed to load databank", http.StatusInternalServerError)
		return
	}

	questions := s.extractor.Extract(r.Context(), req.PageText)
	if len(questions) == 0 {
		writeJSON(w, http.StatusOK, parseResponse{
			Answers: []matching.Answer{},
			Message: "no questions found on page",
		})
		return
	}

	answers, tally := matcher.MatchAll(questions)

	writeJSON(w, http.StatusOK, parseResponse{
		Answers:        answers,
		TotalQuestions: tally.Total,
		FromDatabank:   tally.FromDatabank,
		NotFound:       tally.NotFound,
	})
}

func (s *Server) handleTrackAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var entry HistoryEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if entry.Question == "" || entry.Answer == "" || entry.Source == "" {
		jsonError(w, "missing required fields", http.StatusBadRequest)
		return
	}

	if err := s.appendHistory(entry); err != nil {
		s.logger.Error("saving answer history", zap.Error(err))
		jsonError(w, "failed to save history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "answer tracked",
	})
}

func (s *Server) handleAnswerHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			jsonError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	history, err := s.loadHistory()
	if err != nil {
		s.logger.Error("loading answer history", zap.Error(err))
		jsonError(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	// Newest first.
	recent := make([]HistoryEntry, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		recent = append(recent, history[i])
	}
	if len(recent) > limit {
		recent = recent[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"history": recent,
		"total":   len(history),
	})
}

// handleDebugExtract runs both strategies side by side so extraction problems
// can be diagnosed without involving the matcher.
func (s *Server) handleDebugExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PageText == "" {
		jsonError(w, "no page text provided", http.StatusBadRequest)
		return
	}

	report := s.extractor.Debug(r.Context(), req.PageText)

	preview := req.PageText
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page_text_length":  len(req.PageText),
		"page_text_preview": preview,
		"primary_extraction": map[string]any{
			"questions": report.Primary,
			"count":     len(report.Primary),
			"error":     report.PrimaryError,
		},
		"regex_extraction": map[string]any{
			"questions": report.Fallback,
			"count":     len(report.Fallback),
		},
		"method_used": report.MethodUsed,
	})
}
