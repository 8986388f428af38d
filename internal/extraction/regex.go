package extraction

import (
	"context"
	"regexp"
	"strings"
)

// questionPatterns match sentences that are clearly directed at the
// applicant. The length bounds after each anchor keep a match from swallowing
// a whole paragraph.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(Why (?:are you|do you want)[^.?\n]{10,100}\?)`),
	regexp.MustCompile(`(?i)(What (?:is your|are your)[^.?\n]{5,80}\?)`),
	regexp.MustCompile(`(?i)(Do you (?:have|require|need)[^.?\n]{5,60}\?)`),
	regexp.MustCompile(`(?i)(Are you (?:authorized|eligible|willing)[^.?\n]{5,60}\?)`),
	regexp.MustCompile(`(?i)(Tell us about (?:yourself|your)[^.?\n]{5,60})`),
	regexp.MustCompile(`(?i)(Describe your [^.?\n]{5,60})`),
	regexp.MustCompile(`(?i)(Please (?:provide|describe|explain) [^.?\n]{5,60})`),
}

// formFieldLabels are literal labels looked up with a case-insensitive
// substring scan.
var formFieldLabels = []string{
	"First Name", "Last Name", "Full Name", "Email", "Email Address",
	"Phone", "Phone Number", "Mobile Number", "Address", "City",
	"Postcode", "Post Code", "Zip Code", "Country", "LinkedIn",
	"Expected Salary", "Current Salary", "Notice Period", "Start Date",
	"Cover Letter", "Resume", "CV",
}

// descriptionMarkers flag text that describes the job rather than asks the
// applicant for input. Anything containing one of these must never be treated
// as a form question.
var descriptionMarkers = []string{
	"experience with", "experience in", "knowledge of", "proficiency in",
	"ability to", "responsible for", "you will", "we are looking",
	"the ideal candidate", "requirements", "qualifications",
	"must have", "should have", "preferred", "required",
	"years of experience", "degree in", "background in",
	"skills in", "familiarity with", "understanding of",
}

// IsJobDescription reports whether text looks like job-description content
// instead of a form field.
func IsJobDescription(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range descriptionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// RegexStrategy is the offline, deterministic extraction fallback. It only
// surfaces text that is literally present in the page.
type RegexStrategy struct{}

func NewRegexStrategy() *RegexStrategy {
	return &RegexStrategy{}
}

func (s *RegexStrategy) Name() string { return "regex" }

// Extract merges applicant-directed question matches with known form-field
// labels, preserving first-seen order. It never returns an error.
func (s *RegexStrategy) Extract(_ context.Context, pageText string) ([]string, error) {
	var questions []string
	seen := make(map[string]bool)

	add := func(q string) {
		q = strings.TrimSpace(q)
		key := strings.ToLower(q)
		if q == "" || seen[key] {
			return
		}
		seen[key] = true
		questions = append(questions, q)
	}

	for _, pattern := range questionPatterns {
		for _, match := range pattern.FindAllString(pageText, -1) {
			if !IsJobDescription(match) {
				add(match)
			}
		}
	}

	lower := strings.ToLower(pageText)
	for _, label := range formFieldLabels {
		if strings.Contains(lower, strings.ToLower(label)) {
			add(label)
		}
	}

	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	return questions, nil
}
