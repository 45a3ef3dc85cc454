package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matsen/pubsync/internal/logger"
	"github.com/matsen/pubsync/internal/publication"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the ORCID public API base URL.
	BaseURL = "https://pub.orcid.org/v3.0"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second

	// BatchSize is the most put-codes the bulk works endpoint accepts.
	BatchSize = 50

	// RateLimit stays well under the public API's 24 requests per second.
	RateLimit = 8.0
)

// Client is a rate-limited client for one researcher's ORCID record.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	orcidID    string
	batchSize  int
	log        logger.Logger
	timeout    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the per-request timeout. It applies to the client from
// WithHTTPClient too, whichever order the options come in.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBatchSize sets how many put-codes go into one bulk request.
// Values outside 1..BatchSize are ignored.
func WithBatchSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 && n <= BatchSize {
			c.batchSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the given ORCID iD.
func NewClient(orcidID string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		orcidID:    orcidID,
		batchSize:  BatchSize,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// FetchWorks returns the researcher's journal articles as publications.
// Works without a title or publication year are dropped. Any transport or
// API failure is returned; the caller treats it as fatal.
func (c *Client) FetchWorks(ctx context.Context) ([]publication.Publication, error) {
	log := c.log.With(logger.String("orcid", c.orcidID))
	log.Info("fetching works from ORCID")

	var listing WorksResponse
	if err := c.getJSON(ctx, c.worksURL(), &listing); err != nil {
		return nil, fmt.Errorf("listing works: %w", err)
	}

	codes := journalArticleCodes(listing.Group)
	log.Info("found work groups",
		logger.Int("groups", len(listing.Group)),
		logger.Int("journal_articles", len(codes)))
	if len(codes) == 0 {
		return nil, nil
	}

	works, err := c.fetchFullWorks(ctx, codes)
	if err != nil {
		return nil, err
	}

	pubs := make([]publication.Publication, 0, len(works))
	for _, w := range works {
		if pub, ok := MapWork(w); ok {
			pubs = append(pubs, pub)
		}
	}
	log.Info("valid publications",
		logger.Int("valid", len(pubs)),
		logger.Int("dropped", len(works)-len(pubs)))
	return pubs, nil
}

// fetchFullWorks reads full records one batch at a time. Batches run
// sequentially to respect the upstream bulk limits.
func (c *Client) fetchFullWorks(ctx context.Context, codes []int64) ([]Work, error) {
	var works []Work
	for i, batch := range chunk(codes, c.batchSize) {
		var bulk BulkResponse
		if err := c.getJSON(ctx, c.bulkURL(batch), &bulk); err != nil {
			return nil, fmt.Errorf("fetching works batch %d: %w", i+1, err)
		}
		for _, entry := range bulk.Bulk {
			if entry.Work != nil {
				works = append(works, *entry.Work)
			}
		}
		c.log.Debug("fetched works batch",
			logger.Int("batch", i+1),
			logger.Int("requested", len(batch)))
	}
	return works, nil
}

func (c *Client) worksURL() string {
	return fmt.Sprintf("%s/%s/works", c.baseURL, c.orcidID)
}

func (c *Client) bulkURL(codes []int64) string {
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = strconv.FormatInt(code, 10)
	}
	return fmt.Sprintf("%s/%s/works/%s", c.baseURL, c.orcidID, strings.Join(parts, ","))
}

// getJSON performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrInvalidResponse, url, err)
	}
	return nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Request.URL)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        resp.Request.URL.String(),
		}
	}
	return nil
}
