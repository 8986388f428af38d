package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// maxHistoryEntries caps the history file so it never grows unbounded; older
// entries are discarded on append.
const maxHistoryEntries = 1000

// HistoryEntry records one answer being used on an application form.
type HistoryEntry struct {
	Timestamp string  `json:"timestamp"`
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Source    string  `json:"source"`
	WasEdited bool    `json:"was_edited"`
	JobURL    string  `json:"job_url,omitempty"`
	JobTitle  string  `json:"job_title,omitempty"`
	Company   string  `json:"company,omitempty"`
	Outcome   *string `json:"outcome"`
}

func (s *Server) loadHistory() ([]HistoryEntry, error) {
	data, err := os.ReadFile(s.cfg.HistoryPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var history []HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// appendHistory stamps the entry and rewrites the whole history file. Single
// writer; callers go through the mutex.
func (s *Server) appendHistory(entry HistoryEntry) error {
	s.histMu.Lock()
	defer s.histMu.Unlock()

	history, err := s.loadHistory()
	if err != nil {
		return err
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().Format(time.RFC3339)
	}
	history = append(history, entry)

	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}

	if err := os.MkdirAll(filepath.Dir(s.cfg.HistoryPath), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.cfg.HistoryPath, data, 0o644)
}
