package serpapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"jobscout/internal/jobs"
)

const engine = "google_jobs"

// SearchParams configures a scraping run. Titles each become their own query;
// with no titles the keywords are joined into a single query.
type SearchParams struct {
	Titles           []string `mapstructure:"titles"`
	Keywords         []string `mapstructure:"keywords"`
	Location         string   `mapstructure:"location"`
	PostedWithinDays int      `mapstructure:"posted-within-days"`
	MaxResults       int      `mapstructure:"max-results"`
	Pages            int      `mapstructure:"pages"`
}

// Queries returns the search queries derived from the params.
func (p *SearchParams) Queries() []string {
	if len(p.Titles) > 0 {
		return p.Titles
	}
	if len(p.Keywords) > 0 {
		return []string{strings.Join(p.Keywords, " ")}
	}
	return nil
}

// rawJob mirrors the jobs_results entries of the Google Jobs engine.
type rawJob struct {
	Title              string `json:"title"`
	CompanyName        string `json:"company_name"`
	Location           string `json:"location"`
	ShareLink          string `json:"share_link"`
	JobID              string `json:"job_id"`
	Via                string `json:"via"`
	Description        string `json:"description"`
	DetectedExtensions struct {
		PostedAt string `json:"posted_at"`
		Salary   string `json:"salary"`
	} `json:"detected_extensions"`
}

type searchResponse struct {
	JobsResults []any `json:"jobs_results"`
	Pagination  struct {
		NextPageToken string `json:"next_page_token"`
	} `json:"serpapi_pagination"`
	Error string `json:"error"`
}

// Search runs every configured query, merges the results and returns a
// normalized, deduplicated collection ready for scoring.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*jobs.Collection, error) {
	queries := params.Queries()
	if len(queries) == 0 {
		return nil, fmt.Errorf("no titles or keywords configured")
	}

	collection := &jobs.Collection{}
	for _, query := range queries {
		c.logger.Info("searching",
			zap.String("query", query),
			zap.String("location", params.Location),
		)

		found, err := c.fetchQuery(ctx, query, params)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", query, err)
		}
		collection.Append(found...)
	}

	dropped := collection.Dedupe()
	c.logger.Info("search finished",
		zap.Int("unique_jobs", collection.Len()),
		zap.Int("duplicates_dropped", dropped),
	)

	return collection, nil
}

// fetchQuery pages through the results for one query. A mid-pagination API
// error stops further pages but keeps what was already fetched; one bad page
// never aborts the whole run.
func (c *Client) fetchQuery(ctx context.Context, query string, params *SearchParams) ([]*jobs.Posting, error) {
	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}
	pages := params.Pages
	if pages <= 0 {
		pages = 3
	}

	var postings []*jobs.Posting
	nextPageToken := ""

	for page := 0; page < pages; page++ {
		q := url.Values{}
		q.Set("engine", engine)
		q.Set("q", query)
		q.Set("location", params.Location)
		q.Set("chips", "date_posted:"+dateChip(params.PostedWithinDays))
		if nextPageToken != "" {
			q.Set("next_page_token", nextPageToken)
		}

		var resp searchResponse
		if err := c.getJSON(ctx, q, &resp); err != nil {
			if page == 0 {
				return nil, err
			}
			c.logger.Warn("pagination aborted",
				zap.Int("page", page+1),
				zap.Error(err),
			)
			break
		}
		if resp.Error != "" {
			if page == 0 {
				return nil, fmt.Errorf("serpapi: %s", resp.Error)
			}
			c.logger.Warn("pagination aborted", zap.Int("page", page+1), zap.String("error", resp.Error))
			break
		}

		if len(resp.JobsResults) == 0 {
			c.logger.Debug("no more results", zap.Int("page", page+1))
			break
		}

		decoded, err := decodeJobs(resp.JobsResults)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		for _, raw := range decoded {
			posting := &jobs.Posting{
				Title:       raw.Title,
				Company:     raw.CompanyName,
				Location:    raw.Location,
				URL:         raw.ShareLink,
				DatePosted:  raw.DetectedExtensions.PostedAt,
				Salary:      raw.DetectedExtensions.Salary,
				Description: raw.Description,
			}
			if posting.URL == "" {
				posting.URL = raw.JobID
			}
			posting.Normalize(sourceTag(raw.Via), now)
			postings = append(postings, posting)
		}

		c.logger.Debug("fetched page",
			zap.Int("page", page+1),
			zap.Int("jobs", len(decoded)),
			zap.Int("total", len(postings)),
		)

		if len(postings) >= maxResults {
			postings = postings[:maxResults]
			break
		}

		nextPageToken = resp.Pagination.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	return postings, nil
}

func decodeJobs(items []any) ([]*rawJob, error) {
	var decoded []*rawJob
	cfg := &mapstructure.DecoderConfig{
		Result:  &decoded,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding jobs_results: %w", err)
	}
	return decoded, nil
}

func sourceTag(via string) string {
	if via == "" {
		return engine
	}
	return fmt.Sprintf("%s (%s)", engine, via)
}

// dateChip converts the posted_within_days setting to the engine's
// date_posted chip value.
func dateChip(days int) string {
	switch {
	case days <= 1:
		return "today"
	case days <= 3:
		return "3days"
	case days <= 7:
		return "week"
	default:
		return "month"
	}
}
