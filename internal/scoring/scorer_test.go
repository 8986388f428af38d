package scoring

import (
	"testing"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
)

func testProfile() *profile.Profile {
	p := &profile.Profile{}
	p.User.Skills.Required = []string{"python"}
	p.User.Skills.Preferred = []string{"docker"}
	p.User.Locations.Preferred = []string{"london"}
	p.User.Dealbreakers = []string{"unpaid"}
	return p
}

func newTestScorer(t *testing.T, p *profile.Profile) *Scorer {
	t.Helper()
	scorer, err := New(p, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return scorer
}

func TestScoreDealbreakerVeto(t *testing.T) {
	scorer := newTestScorer(t, testProfile())

	job := &jobs.Posting{
		Title:       "Junior Python Developer",
		Description: "Exciting role requiring Python. Unpaid internship.",
		Location:    "London, UK",
	}

	if got := scorer.Score(job); got != 0 {
		t.Fatalf("expected dealbreaker to force score 0, got %d", got)
	}
}

func TestScorePerfectMatch(t *testing.T) {
	scorer := newTestScorer(t, testProfile())

	job := &jobs.Posting{
		Title:       "Junior Python Developer",
		Description: "Exciting role requiring Python and Docker",
		Location:    "London, UK",
	}

	if got := scorer.Score(job); got != 100 {
		t.Fatalf("expected score 100, got %d", got)
	}
}

func TestScoreNeutralForEmptySkillLists(t *testing.T) {
	scorer := newTestScorer(t, &profile.Profile{})

	// required 50*0.40 + preferred 50*0.25 + location 0*0.20 + title 50*0.15
	job := &jobs.Posting{Title: "Gardener", Description: "Tend the gardens"}

	if got := scorer.Score(job); got != 40 {
		t.Fatalf("expected neutral score 40, got %d", got)
	}
}

func TestScoreLocationTiers(t *testing.T) {
	p := &profile.Profile{}
	p.User.Locations.Preferred = []string{"london"}
	p.User.Locations.Acceptable = []string{"manchester"}
	scorer := newTestScorer(t, p)

	cases := []struct {
		location string
		expected int
	}{
		{"London, UK", 60},
		{"Manchester, UK", 50},
		{"Paris, France", 40},
		{"", 40},
	}

	previous := 101
	for _, tc := range cases {
		job := &jobs.Posting{Title: "Gardener", Location: tc.location}
		got := scorer.Score(job)
		if got != tc.expected {
			t.Fatalf("location %q: expected %d, got %d", tc.location, tc.expected, got)
		}
		if got > previous {
			t.Fatalf("location tier is not monotonic: %q scored %d after %d", tc.location, got, previous)
		}
		previous = got
	}
}

func TestScorePartialWordMatches(t *testing.T) {
	p := &profile.Profile{}
	p.User.Skills.Required = []string{"java"}
	scorer := newTestScorer(t, p)

	// Substring matching is the documented behavior: "java" matches
	// "javascript".
	job := &jobs.Posting{Title: "Frontend Role", Description: "We use javascript everywhere"}

	// required 100*0.40 + preferred 50*0.25 + location 0 + title 50*0.15
	if got := scorer.Score(job); got != 60 {
		t.Fatalf("expected partial-word match score 60, got %d", got)
	}
}

func TestScoreWeightsNotRenormalized(t *testing.T) {
	p := &profile.Profile{}
	p.User.Skills.Required = []string{"go"}
	p.Scoring.Weights = map[string]float64{
		CriterionRequiredSkills:  0.5,
		CriterionPreferredSkills: 0,
		CriterionLocation:        0,
		CriterionTitleRelevance:  0,
	}
	scorer := newTestScorer(t, p)

	job := &jobs.Posting{Title: "Backend Role", Description: "go services"}

	// Weights sum to 0.5 and the formula must not renormalize: 100*0.5 = 50.
	if got := scorer.Score(job); got != 50 {
		t.Fatalf("expected non-renormalized score 50, got %d", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := newTestScorer(t, testProfile())

	job := &jobs.Posting{
		Title:       "Python Engineer",
		Description: "Python and Docker in London",
		Location:    "London",
	}

	first := scorer.Score(job)
	second := scorer.Score(job)
	if first != second {
		t.Fatalf("scoring is not deterministic: %d vs %d", first, second)
	}
}

func TestScoreAllSortsDescendingAndStable(t *testing.T) {
	scorer := newTestScorer(t, testProfile())

	high := &jobs.Posting{Title: "Python Developer", Description: "Python and Docker", Location: "London"}
	lowA := &jobs.Posting{Title: "Gardener A", Description: "Tend the gardens"}
	lowB := &jobs.Posting{Title: "Gardener B", Description: "Tend the gardens"}

	collection := &jobs.Collection{Items: []*jobs.Posting{lowA, high, lowB}}
	summary := scorer.ScoreAll(collection)

	if summary.Total != 3 {
		t.Fatalf("expected 3 scored jobs, got %d", summary.Total)
	}

	if collection.Items[0] != high {
		t.Fatalf("expected highest scoring job first, got %q", collection.Items[0].Title)
	}

	// Equal scores keep their input order.
	if collection.Items[1] != lowA || collection.Items[2] != lowB {
		t.Fatalf("tie order not preserved: got %q then %q", collection.Items[1].Title, collection.Items[2].Title)
	}

	for _, job := range collection.Items {
		if !job.Scored() {
			t.Fatalf("job %q was not annotated with a fit score", job.Title)
		}
	}
}

func TestScoreAllCountsDealbreakers(t *testing.T) {
	scorer := newTestScorer(t, testProfile())

	collection := &jobs.Collection{Items: []*jobs.Posting{
		{Title: "Python Developer", Description: "Python and Docker", Location: "London"},
		{Title: "Python Intern", Description: "Unpaid internship with Python"},
	}}

	summary := scorer.ScoreAll(collection)
	if summary.Positive != 1 {
		t.Fatalf("expected 1 positive score, got %d", summary.Positive)
	}
	if summary.Dealbreakers != 1 {
		t.Fatalf("expected 1 dealbreaker-filtered job, got %d", summary.Dealbreakers)
	}
}

func TestNewRequiresProfile(t *testing.T) {
	if _, err := New(nil, zap.NewNop()); err == nil {
		t.Fatalf("expected error for missing profile")
	}
}
