// Package jsearch is the HTTP adapter for the JSearch job-search API.
package jsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	httpTimeout    = 15 * time.Second
)

// Client fetches job offers from the JSearch API.
// If APIKey is empty, Search returns (nil, nil) gracefully — callers will
// simply skip the upstream for that round and log a warning.
type Client struct {
	APIKey  string
	APIHost string
	BaseURL string // overridable for tests
	client  *http.Client
}

// NewClient constructs a Client with a shared HTTP client.
func NewClient(apiKey, apiHost string) *Client {
	return &Client{
		APIKey:  apiKey,
		APIHost: apiHost,
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// searchResponse mirrors the top-level JSearch JSON response.
type searchResponse struct {
	Status string `json:"status"`
	Data   []Job  `json:"data"`
}

// Job mirrors a single raw JSearch job record.
type Job struct {
	JobID             string          `json:"job_id"`
	EmployerName      string          `json:"employer_name"`
	EmployerLogo      string          `json:"employer_logo"`
	JobTitle          string          `json:"job_title"`
	JobDescription    string          `json:"job_description"`
	JobCity           string          `json:"job_city"`
	JobState          string          `json:"job_state"`
	JobCountry        string          `json:"job_country"`
	JobLocation       string          `json:"job_location"`
	JobIsRemote       bool            `json:"job_is_remote"`
	JobEmploymentType string          `json:"job_employment_type"`
	JobPostedAt       string          `json:"job_posted_at_datetime_utc"`
	JobMinSalary      *float64        `json:"job_min_salary"`
	JobMaxSalary      *float64        `json:"job_max_salary"`
	JobApplyLink      string          `json:"job_apply_link"`
	JobHighlights     Highlights      `json:"job_highlights"`
	EstimatedSalaries []EstimatedPay  `json:"estimated_salaries"`
}

// Highlights carries the bullet-point sections of a listing.
type Highlights struct {
	Qualifications   []string `json:"Qualifications"`
	Responsibilities []string `json:"Responsibilities"`
	Benefits         []string `json:"Benefits"`
}

// EstimatedPay is an upstream salary estimate attached to a record that has
// no explicit min/max.
type EstimatedPay struct {
	MinSalary float64 `json:"min_salary"`
	MaxSalary float64 `json:"max_salary"`
}

// Search issues a single paginated search query. numPages asks the upstream
// to expand the response across several result pages starting at page.
//
// Non-2xx status is an error. A malformed body or a non-OK upstream status
// yields an empty result with no error — one attempt, no retry.
func (c *Client) Search(ctx context.Context, query, location string, page, numPages int) ([]Job, error) {
	if c.APIKey == "" {
		log.Println("[jsearch] JSEARCH_API_KEY not set — skipping upstream call")
		return nil, nil
	}

	q := query
	if location != "" {
		q = query + " in " + location
	}

	params := url.Values{}
	params.Set("query", q)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", strconv.Itoa(numPages))

	reqURL := c.BaseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.APIHost)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jsearch returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp searchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		log.Printf("[jsearch] malformed response for %q: %v", q, err)
		return nil, nil
	}
	if apiResp.Status != "OK" {
		log.Printf("[jsearch] upstream status %q for %q", apiResp.Status, q)
		return nil, nil
	}

	return apiResp.Data, nil
}
