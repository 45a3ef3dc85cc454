package openalex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matsen/pubsync/internal/logger"
	"github.com/matsen/pubsync/internal/publication"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the OpenAlex API base URL.
	BaseURL = "https://api.openalex.org"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second

	// PerPage is the page size of the single works request. Works beyond the
	// first page are not fetched.
	PerPage = 200

	// RateLimit is 10 requests per second per OpenAlex documentation.
	RateLimit = 10.0
)

// Client is a client for one author's OpenAlex works.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	authorID   string
	apiKey     string
	log        logger.Logger
	timeout    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key. Without one the client fetches nothing.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

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

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the given OpenAlex author ID.
func NewClient(authorID string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		authorID:   authorID,
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

// Enabled reports whether the client has a credential and will query the API.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// FetchWorks returns the author's articles as publications. It never fails:
// a missing key, network error, timeout or bad status is logged and yields
// no publications.
func (c *Client) FetchWorks(ctx context.Context) []publication.Publication {
	if !c.Enabled() {
		c.log.Info("no OpenAlex API key, skipping OpenAlex")
		return nil
	}

	pubs, err := c.Fetch(ctx)
	if err != nil {
		c.log.Warn("OpenAlex failed, continuing with ORCID only", logger.Error(err))
		return nil
	}
	return pubs
}

// Fetch performs the works request and reports errors to the caller.
func (c *Client) Fetch(ctx context.Context) ([]publication.Publication, error) {
	if !c.Enabled() {
		return nil, ErrNoAPIKey
	}
	log := c.log.With(logger.String("openalex_author", c.authorID))
	log.Info("fetching works from OpenAlex")

	var resp WorksResponse
	if err := c.getJSON(ctx, c.worksURL(), &resp); err != nil {
		return nil, err
	}

	if omitted := resp.Meta.Count - len(resp.Results); omitted > 0 && len(resp.Results) >= PerPage {
		log.Warn("only the first page of OpenAlex works is fetched",
			logger.Int("total", resp.Meta.Count),
			logger.Int("omitted", omitted))
	}

	pubs := make([]publication.Publication, 0, len(resp.Results))
	for _, w := range resp.Results {
		if pub, ok := MapWork(w); ok {
			pubs = append(pubs, pub)
		}
	}
	log.Info("valid publications",
		logger.Int("valid", len(pubs)),
		logger.Int("dropped", len(resp.Results)-len(pubs)))
	return pubs, nil
}

// worksURL builds the single-page works query, most cited first.
func (c *Client) worksURL() string {
	q := url.Values{}
	q.Set("filter", "authorships.author.id:"+c.authorID+",type:article")
	q.Set("sort", "cited_by_count:desc")
	q.Set("per_page", strconv.Itoa(PerPage))
	q.Set("api_key", c.apiKey)
	return c.baseURL + "/works?" + q.Encode()
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, stripURL(err))
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// stripURL drops the request URL from transport errors so the API key in
// the query string is never logged.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func checkHTTPErrors(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}
