// Package matching answers extracted application-form questions from the
// user's Q&A databank.
package matching

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"jobscout/internal/profile"
)

// Answer sources reported to the API consumer.
const (
	SourceDatabank = "databank"
	SourceNotFound = "not_found"
)

// similarityThreshold is the minimum Jaccard similarity for a bank entry to
// count as a match. Kept low on purpose: stored questions rarely repeat
// verbatim across application forms.
const similarityThreshold = 0.3

// Answer is the result of matching one question.
type Answer struct {
	Question   string  `json:"question"`
	Text       string  `json:"answer"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// Tally counts match outcomes over a page's questions.
type Tally struct {
	Total        int `json:"total_questions"`
	FromDatabank int `json:"from_databank"`
	NotFound     int `json:"not_found"`
}

// Matcher resolves questions against a databank. It holds no state between
// calls beyond the bank itself.
type Matcher struct {
	bank   *profile.Databank
	logger *zap.Logger
}

func New(bank *profile.Databank, logger *zap.Logger) *Matcher {
	if bank == nil {
		bank = &profile.Databank{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{bank: bank, logger: logger}
}

// Match resolves a single question.
//
// Tier 1 scans the stored questions for the best Jaccard match above the
// threshold, skipping entries with empty answers; ties keep the first entry
// in bank order. Tier 2 runs the ordered semantic field rules, which win over
// any fuzzy match and carry confidence 1.0. When neither tier produces an
// answer, the caller gets an explicit not_found marker with confidence 0 so
// it can prompt the user instead of guessing.
func (m *Matcher) Match(question string) Answer {
	bestAnswer := ""
	bestScore := 0.0

	for _, entry := range m.bank.Questions {
		if entry.Answer == "" {
			continue
		}
		score := Similarity(question, entry.Question)
		if score > bestScore && score > similarityThreshold {
			bestScore = score
			bestAnswer = entry.Answer
		}
	}

	lower := strings.ToLower(question)
	for _, rule := range fieldRules {
		if !rule.matches(lower) {
			continue
		}
		if value := rule.value(m.bank); value != "" {
			return Answer{Question: question, Text: value, Source: SourceDatabank, Confidence: 1.0}
		}
	}

	if bestAnswer != "" {
		return Answer{Question: question, Text: bestAnswer, Source: SourceDatabank, Confidence: bestScore}
	}

	return Answer{Question: question, Source: SourceNotFound, Confidence: 0}
}

// MatchAll resolves each question independently and tallies the outcomes.
func (m *Matcher) MatchAll(questions []string) ([]Answer, Tally) {
	answers := make([]Answer, 0, len(questions))
	tally := Tally{Total: len(questions)}

	for _, question := range questions {
		answer := m.Match(question)
		if answer.Source == SourceDatabank {
			tally.FromDatabank++
		} else {
			tally.NotFound++
		}
		answers = append(answers, answer)
	}

	m.logger.Debug("matched questions",
		zap.Int("total", tally.Total),
		zap.Int("from_databank", tally.FromDatabank),
		zap.Int("not_found", tally.NotFound),
	)

	return answers, tally
}

var punctuation = regexp.MustCompile(`[^\w\s]`)

// Similarity computes Jaccard similarity between the normalized word sets of
// two strings: |intersection| / |union|. It is symmetric and returns 1.0 for
// strings that are identical after normalization.
func Similarity(a, b string) float64 {
	wordsA := normalizeWords(a)
	wordsB := normalizeWords(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection

	return float64(intersection) / float64(union)
}

func normalizeWords(text string) map[string]struct{} {
	text = punctuation.ReplaceAllString(strings.ToLower(text), "")

	words := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		words[word] = struct{}{}
	}
	return words
}
