// Package serpapi fetches job listings from the SerpAPI Google Jobs engine,
// which aggregates postings from LinkedIn, Indeed, Glassdoor and other boards.
package serpapi

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://serpapi.com/search"
	contentEncoding = "gzip, deflate, br"

	// SerpAPI free-tier friendly pacing.
	requestsPerSecond = 1
)

// Client talks to the SerpAPI search endpoint.
type Client struct {
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter

	HTTPClient *http.Client
	BaseURL    string
}

// New creates a SerpAPI client. The key is required; the caller fails fast
// before constructing one if it is missing.
func New(apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:  apiKey,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// getJSON performs a rate-limited GET against the API and decodes the
// gzip-aware JSON response into target.
func (c *Client) getJSON(ctx context.Context, q url.Values, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return err
	}

	q.Set("api_key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept-Encoding", contentEncoding)

	c.logger.Debug("make request", zap.String("url", req.URL.Redacted()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return err
	}

	return nil
}
