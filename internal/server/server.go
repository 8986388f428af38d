// Package server implements the local answer API consumed by the browser
// extension.
//
// Routes:
//
//	GET  /api/health                  → liveness probe
//	POST /api/parse-and-answer        → extract questions, answer from databank
//	POST /api/track-answer            → record an answer usage event
//	GET  /api/answer-history          → recent usage events, newest first
//	POST /api/debug/extract-questions → raw output of both extraction strategies
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"jobscout/internal/extraction"
	"jobscout/internal/matching"
	"jobscout/internal/profile"
)

// Config holds the server settings and file locations.
type Config struct {
	Address      string
	DatabankPath string
	HistoryPath  string
}

// Server binds the extractor and matcher to the HTTP boundary. The databank
// is reloaded per request so edits take effect without a restart.
type Server struct {
	cfg       Config
	extractor *extraction.Extractor
	logger    *zap.Logger

	// histMu serializes whole-file rewrites of the answer history.
	histMu sync.Mutex
}

func New(cfg Config, extractor *extraction.Extractor, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:       cfg,
		extractor: extractor,
		logger:    logger,
	}
}

// Handler returns the route multiplexer; split out for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/parse-and-answer", s.handleParseAndAnswer)
	mux.HandleFunc("/api/track-answer", s.handleTrackAnswer)
	mux.HandleFunc("/api/answer-history", s.handleAnswerHistory)
	mux.HandleFunc("/api/debug/extract-questions", s.handleDebugExtract)
	return withCORS(mux)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("answer api listening", zap.String("address", s.cfg.Address))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// matcher loads the databank fresh and builds a matcher for this request.
func (s *Server) matcher() (*matching.Matcher, error) {
	bank, err := profile.LoadDatabank(s.cfg.DatabankPath)
	if err != nil {
		return nil, err
	}
	return matching.New(bank, s.logger), nil
}

// withCORS allows requests from the extension's origin.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
