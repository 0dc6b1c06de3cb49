package docapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/greatwalks/availability-scraper/internal/models"
)

// DefaultURL is the production availability search endpoint of the DOC
// booking system.
const DefaultURL = "https://prod-nz-rdr.recreation-management.tylerapp.com/nzrdr/rdr/search/greatwalkplacefacility"

const defaultTimeout = 30 * time.Second

// ErrAccessDenied is returned when the booking API rejects a request with
// 403. That usually means the source IP is being blocked, so further
// requests in the same run are pointless.
var ErrAccessDenied = errors.New("access denied by booking API")

// StatusError is returned for unexpected (non-200, non-403) responses.
// It keeps the raw body for diagnostics.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("booking API returned status %d: %s", e.StatusCode, body)
}

// Config holds booking API client settings.
type Config struct {
	// URL overrides the search endpoint. Empty means DefaultURL.
	URL string
	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration
}

// Client talks to the booking API's availability search.
type Client struct {
	http *resty.Client
	url  string
}

// NewClient creates a booking API client.
func NewClient(cfg Config) *Client {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := resty.New()
	httpClient.SetTimeout(timeout)
	httpClient.SetHeaders(browserHeaders())

	return &Client{
		http: httpClient,
		url:  url,
	}
}

// Search runs one availability search and returns the decoded response.
func (c *Client) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("availability search: %w", err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, ErrAccessDenied
	default:
		return nil, &StatusError{StatusCode: res.StatusCode(), Body: res.Body()}
	}

	var out models.SearchResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode availability response: %w", err)
	}

	return &out, nil
}

// browserHeaders returns the fixed header set sent with every request.
// The booking API only answers requests that look like they come from its
// own web frontend.
func browserHeaders() map[string]string {
	return map[string]string{
		"accept":             "application/json",
		"accept-language":    "en,en-AU;q=0.9,en-NZ;q=0.8,en-GB;q=0.7,en-US;q=0.6",
		"content-type":       "application/json",
		"dnt":                "1",
		"origin":             "https://bookings.doc.govt.nz",
		"priority":           "u=1, i",
		"referer":            "https://bookings.doc.govt.nz/",
		"sec-ch-ua":          `"Chromium";v="140", "Not=A?Brand";v="24", "Google Chrome";v="140"`,
		"sec-ch-ua-mobile":   "?0",
		"sec-ch-ua-platform": `"Windows"`,
		"sec-fetch-dest":     "empty",
		"sec-fetch-mode":     "cors",
		"sec-fetch-site":     "cross-site",
		"user-agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36",
	}
}
