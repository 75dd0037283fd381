// Package knowledge talks to the external lookup-by-name API used to
// corroborate entities and claims. The source is treated as unreliable:
// every call is rate limited, bounded by the caller's context, and retried
// once on transient failure.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/veracity/internal/model"
)

// ErrNotFound means the query has no page in the knowledge source. It is
// terminal: not-found is never retried.
var ErrNotFound = errors.New("knowledge: no page found")

// sleepFunc is the delay between retry attempts (injectable for tests).
var sleepFunc = time.Sleep

const (
	lookupMaxAttempts = 2 // one retry on transient failure
	retryBackoff      = 200 * time.Millisecond
	maxBodyBytes      = 1 << 20
)

// Result is a resolved knowledge-source page.
type Result struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"url"`
}

// Client looks up page summaries over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sourceName string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a knowledge client from configuration.
func NewClient(cfg model.KnowledgeConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	name := cfg.SourceName
	if name == "" {
		name = "Wikipedia"
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		sourceName: name,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// SourceName returns the human-readable name of the knowledge source.
func (c *Client) SourceName() string {
	return c.sourceName
}

// Lookup resolves a query through the page-summary endpoint. Transient
// failures (5xx, 429, reset connections) are retried once with a short
// backoff; 4xx results return ErrNotFound immediately. The context bounds
// the whole call, retries included.
func (c *Client) Lookup(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	var lastErr error
	for attempt := 0; attempt < lookupMaxAttempts; attempt++ {
		if attempt > 0 {
			sleepFunc(retryBackoff)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		res, retryable, err := c.lookupOnce(ctx, query)
		if err == nil {
			return res, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) lookupOnce(ctx context.Context, query string) (*Result, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	title := strings.ReplaceAll(query, " ", "_")
	endpoint := c.baseURL + "/page/summary/" + url.PathEscape(title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, isRetryableNetworkError(err), fmt.Errorf("lookup %q: %w", query, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("lookup %q: status %d", query, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("lookup %q: unexpected status %d", query, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, isRetryableNetworkError(err), fmt.Errorf("read summary: %w", err)
	}

	var payload struct {
		Title       string `json:"title"`
		Extract     string `json:"extract"`
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("decode summary: %w", err)
	}
	if payload.Extract == "" {
		return nil, false, ErrNotFound
	}

	pageURL := payload.ContentURLs.Desktop.Page
	if pageURL == "" {
		pageURL = endpoint
	}

	return &Result{
		Title:   payload.Title,
		Extract: payload.Extract,
		URL:     pageURL,
	}, false, nil
}

// isRetryableNetworkError matches transient transport failures. A context
// deadline is not transient: the verifier's per-lookup budget is spent.
func isRetryableNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "connection reset") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "broken pipe") ||
		strings.Contains(s, "eof")
}
