// Package scoring computes 0-100 fit scores for job postings against a user
// profile.
//
// Matching is plain case-insensitive substring search over the combined
// description and title. There is no tokenization or stemming, so partial
// words count: "java" matches "javascript". That is intentional and must not
// be "fixed" without a product decision; the scorer's behavior is relied on
// to be stable across runs.
package scoring

import (
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
)

// Scorer evaluates postings against a single user profile. It performs no I/O
// and is safe to reuse across batches.
type Scorer struct {
	user    profile.User
	weights map[string]float64
	logger  *zap.Logger
}

// Summary describes the outcome of scoring a batch.
type Summary struct {
	Total        int
	Positive     int
	Dealbreakers int
	Average      float64
}

// New builds a scorer for the given profile. A nil profile is a hard error:
// scoring with fabricated defaults would silently mislead the user.
func New(p *profile.Profile, logger *zap.Logger) (*Scorer, error) {
	if p == nil {
		return nil, errors.New("user profile is required for scoring")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		user:    p.User,
		weights: mergeWeights(p.Scoring.Weights),
		logger:  logger,
	}, nil
}

// Score returns the fit score for a single posting.
//
// Dealbreakers short-circuit everything: any dealbreaker keyword found in the
// posting text forces a score of 0 regardless of how well skills match. The
// remaining criteria produce sub-scores in [0,100] which are combined as a
// weighted sum. The sum is deliberately not renormalized when the configured
// weights do not add up to 1.0.
func (s *Scorer) Score(job *jobs.Posting) int {
	blob := strings.ToLower(job.Description + " " + job.Title)

	for _, dealbreaker := range s.user.Dealbreakers {
		if dealbreaker == "" {
			continue
		}
		if strings.Contains(blob, strings.ToLower(dealbreaker)) {
			return 0
		}
	}

	total := 0.0
	for _, criterion := range criteria {
		weight, ok := s.weights[criterion.name]
		if !ok {
			continue
		}
		total += weight * criterion.eval(&s.user, job, blob)
	}

	return int(math.Round(total))
}

// ScoreAll annotates every posting with its fit score and re-sorts the
// collection by descending score. The sort is stable, so equal scores keep
// their input order. One posting never affects another; scoring a batch is a
// per-item pure computation.
func (s *Scorer) ScoreAll(c *jobs.Collection) Summary {
	sum := 0
	summary := Summary{Total: c.Len()}

	for _, job := range c.Items {
		score := s.Score(job)
		job.SetFitScore(score)
		sum += score
		if score > 0 {
			summary.Positive++
		}
	}
	summary.Dealbreakers = summary.Total - summary.Positive

	if summary.Total > 0 {
		summary.Average = float64(sum) / float64(summary.Total)
	}

	c.SortByFitScore()

	if c.Len() > 0 {
		top := c.Items[0]
		s.logger.Info("scored jobs",
			zap.Int("total", summary.Total),
			zap.Int("positive", summary.Positive),
			zap.Int("dealbreaker_filtered", summary.Dealbreakers),
			zap.Float64("average", summary.Average),
			zap.Int("top_score", top.Score()),
			zap.String("top_title", top.Title),
			zap.String("top_company", top.Company),
		)
	}

	return summary
}
