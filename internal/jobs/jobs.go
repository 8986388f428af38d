package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Postings are immutable once scraped; scoring only annotates FitScore.
const maxDescriptionChars = 2000

// Posting is a single scraped job listing.
type Posting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url,omitempty"`
	DatePosted  string `json:"date_posted,omitempty"`
	Salary      string `json:"salary,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	ScrapedAt   string `json:"scraped_at,omitempty"`
	FitScore    *int   `json:"fit_score,omitempty"`
}

// Normalize trims every text field, truncates the description and stamps the
// posting with its source tag and scrape time.
func (p *Posting) Normalize(source string, now time.Time) {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Location = strings.TrimSpace(p.Location)
	p.URL = strings.TrimSpace(p.URL)
	p.DatePosted = strings.TrimSpace(p.DatePosted)
	p.Salary = strings.TrimSpace(p.Salary)

	desc := strings.TrimSpace(p.Description)
	if len(desc) > maxDescriptionChars {
		desc = desc[:maxDescriptionChars]
	}
	p.Description = desc

	p.Source = source
	p.ScrapedAt = now.UTC().Format(time.RFC3339)
}

// SetFitScore annotates the posting with its fit score.
func (p *Posting) SetFitScore(score int) {
	p.FitScore = &score
}

// Score returns the annotated fit score, or 0 when the posting is unscored.
func (p *Posting) Score() int {
	if p.FitScore == nil {
		return 0
	}
	return *p.FitScore
}

// Scored reports whether the posting has been annotated with a fit score.
func (p *Posting) Scored() bool {
	return p.FitScore != nil
}

// Collection is an ordered sequence of postings.
type Collection struct {
	Items []*Posting `json:"items"`
}

func (c *Collection) Len() int {
	return len(c.Items)
}

func (c *Collection) Append(items ...*Posting) {
	c.Items = append(c.Items, items...)
}

// Dedupe removes duplicate postings, keyed on URL and on the lowercased
// (title, company) pair. The first occurrence wins and order is preserved.
// Returns the number of postings dropped.
func (c *Collection) Dedupe() int {
	seenURL := make(map[string]bool, len(c.Items))
	seenTitleCompany := make(map[string]bool, len(c.Items))

	unique := make([]*Posting, 0, len(c.Items))
	for _, p := range c.Items {
		key := strings.ToLower(p.Title) + "\x00" + strings.ToLower(p.Company)
		if seenTitleCompany[key] {
			continue
		}
		if p.URL != "" && seenURL[p.URL] {
			continue
		}
		seenTitleCompany[key] = true
		if p.URL != "" {
			seenURL[p.URL] = true
		}
		unique = append(unique, p)
	}

	dropped := len(c.Items) - len(unique)
	c.Items = unique
	return dropped
}

// SortByFitScore orders the collection by descending fit score. The sort is
// stable: postings with equal scores keep their relative input order.
func (c *Collection) SortByFitScore() {
	sort.SliceStable(c.Items, func(i, j int) bool {
		return c.Items[i].Score() > c.Items[j].Score()
	})
}

// ReportByCompany groups postings per company for interactive reporting.
func (c *Collection) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, p := range c.Items {
		entry := map[string]string{
			"title":    p.Title,
			"location": p.Location,
			"url":      p.URL,
			"salary":   p.Salary,
			"source":   p.Source,
		}
		if p.Scored() {
			entry["fit_score"] = fmt.Sprintf("%d", p.Score())
		}
		report[p.Company] = append(report[p.Company], entry)
	}
	return report
}

// DumpToTmpFile writes the collection to a temporary JSON file and returns
// its name.
func (c *Collection) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Save writes the collection to path as an indented JSON snapshot. Each call
// rewrites the whole file; snapshots are never updated incrementally.
func (c *Collection) Save(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Items)
}

// Load reads a collection previously written by Save or by a raw-results dump.
func Load(path string) (*Collection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return &Collection{}, nil
	}

	var items []*Posting
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return &Collection{Items: items}, nil
}
