package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"jobscout/internal/util"
)

//go:embed prompt.md
var promptTemplate string

// maxPageTextChars bounds how much page text is sent to the model.
const maxPageTextChars = 8000

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiStrategy asks the language model for the form-field labels literally
// present in the page text. The prompt forbids inferring common-but-absent
// fields; the shared post-filter in Extractor still guards against the model
// copying job requirements anyway.
type GeminiStrategy struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewGeminiStrategy(generator contentGenerator, maxLogLength int, logger *zap.Logger) *GeminiStrategy {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiStrategy{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (s *GeminiStrategy) Name() string { return "gemini" }

// Extract sends the truncated page text to the model and parses the response
// as a JSON array of strings. Any error, including malformed JSON, is
// returned to the caller so the Extractor can fall back to regex.
func (s *GeminiStrategy) Extract(ctx context.Context, pageText string) ([]string, error) {
	if s.generator == nil {
		return nil, errors.New("content generator is not configured")
	}

	if len(pageText) > maxPageTextChars {
		pageText = pageText[:maxPageTextChars]
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{PAGE_TEXT}}", pageText)

	s.logger.Debug("gemini extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, s.maxLogLen)),
	)

	return parseQuestionArray(raw)
}

// parseQuestionArray decodes the model response, tolerating markdown code
// fences around the JSON payload.
func parseQuestionArray(raw string) ([]string, error) {
	cleaned := stripFences(raw)

	var questions []string
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}
	return questions, nil
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}
