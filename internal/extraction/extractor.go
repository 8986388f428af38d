// Package extraction pulls application-form questions out of raw page text.
//
// Two interchangeable strategies exist: a Gemini-backed extractor and a
// conservative offline regex extractor. The regex strategy is always
// available; the AI strategy is used first when configured and any failure
// falls back silently. Extraction failures are never surfaced to callers as
// hard errors.
package extraction

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	// maxQuestions caps the result regardless of strategy. Typical forms
	// have 5-15 fields; anything beyond that is hallucination or leakage.
	maxQuestions = 15

	// leakageSuspect marks the candidate count above which the page text
	// almost certainly bled job-description content into the result.
	leakageSuspect = 20
)

// Strategy extracts candidate question strings from page text.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, pageText string) ([]string, error)
}

// Extractor selects between a primary strategy and the regex fallback, then
// applies the shared post-processing invariants.
type Extractor struct {
	primary  Strategy
	fallback Strategy
	logger   *zap.Logger
}

// New builds an extractor. primary may be nil, in which case only the regex
// strategy runs.
func New(primary Strategy, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		primary:  primary,
		fallback: NewRegexStrategy(),
		logger:   logger,
	}
}

// Extract returns at most 15 question strings found in pageText, in
// first-seen order. The job-description filter is applied as the last step no
// matter which strategy produced the candidates: it is the final defense
// against the AI path copying job requirements as "questions".
func (e *Extractor) Extract(ctx context.Context, pageText string) []string {
	questions, method := e.run(ctx, pageText)

	kept := make([]string, 0, len(questions))
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" || IsJobDescription(q) {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, q)
	}

	if len(kept) > leakageSuspect {
		e.logger.Warn("too many extracted questions, truncating",
			zap.String("method", method),
			zap.Int("count", len(kept)),
			zap.String("hint", "page text likely contains job description content"),
		)
	}
	if len(kept) > maxQuestions {
		kept = kept[:maxQuestions]
	}

	e.logger.Debug("extracted questions",
		zap.String("method", method),
		zap.Int("count", len(kept)),
	)

	return kept
}

// Report carries the raw output of both strategies for the debug endpoint.
type Report struct {
	Primary      []string
	PrimaryError string
	Fallback     []string
	MethodUsed   string
}

// Debug runs both strategies without post-processing so their raw results can
// be compared side by side.
func (e *Extractor) Debug(ctx context.Context, pageText string) Report {
	report := Report{MethodUsed: e.fallback.Name()}

	if e.primary != nil {
		questions, err := e.primary.Extract(ctx, pageText)
		if err != nil {
			report.PrimaryError = err.Error()
		} else {
			report.Primary = questions
			if len(questions) > 0 {
				report.MethodUsed = e.primary.Name()
			}
		}
	}

	fallback, _ := e.fallback.Extract(ctx, pageText)
	report.Fallback = fallback

	return report
}

func (e *Extractor) run(ctx context.Context, pageText string) ([]string, string) {
	if e.primary != nil {
		questions, err := e.primary.Extract(ctx, pageText)
		if err == nil {
			return questions, e.primary.Name()
		}
		e.logger.Warn("primary extraction failed, falling back",
			zap.String("strategy", e.primary.Name()),
			zap.Error(err),
		)
	}

	questions, err := e.fallback.Extract(ctx, pageText)
	if err != nil {
		// The regex strategy cannot actually fail; guard anyway.
		e.logger.Warn("fallback extraction failed", zap.Error(err))
		return nil, e.fallback.Name()
	}
	return questions, e.fallback.Name()
}
