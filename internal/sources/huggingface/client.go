package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

const (
	// DefaultBaseURL is the public datasets-server endpoint.
	DefaultBaseURL = "https://datasets-server.huggingface.co"

	// DefaultMaxAttempts caps retries for one page fetch.
	DefaultMaxAttempts = 5

	// DefaultBaseDelay is the first backoff delay; it doubles per
	// attempt (1s, 2s, 4s, 8s, 16s).
	DefaultBaseDelay = time.Second

	// requestTimeout bounds one HTTP round trip. Only the source
	// reader has network timeouts; the rest of the pipeline is local.
	requestTimeout = 30 * time.Second

	// proactiveRate throttles requests so paging a large corpus stays
	// well inside the datasets-server limits.
	proactiveRate = 2.0
)

// rowsResponse is the subset of the /rows payload the reader consumes.
type rowsResponse struct {
	Rows []struct {
		RowIdx int             `json:"row_idx"`
		Row    json.RawMessage `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// Client fetches dataset pages from the datasets-server rows API with
// proactive throttling and exponential backoff on transient failures.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseDelay   time.Duration
}

// NewClient creates a rows API client with default limits.
func NewClient() *Client {
	return &Client{
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: requestTimeout},
		limiter:     rate.NewLimiter(rate.Limit(proactiveRate), 1),
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
	}
}

// FetchRows retrieves one page of rows. Transient failures (network
// errors, 5xx, 429) are retried with exponential backoff up to the
// attempt cap; anything else, or an exhausted cap, is reported wrapped
// in domain.ErrSourceUnavailable.
func (c *Client) FetchRows(ctx context.Context, dataset, config, split string, offset, length int) (*rowsResponse, error) {
	q := url.Values{}
	q.Set("dataset", dataset)
	q.Set("config", config)
	q.Set("split", split)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("length", strconv.Itoa(length))
	endpoint := c.baseURL + "/rows?" + q.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.baseDelay<<(attempt-2)); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, retryable, err := c.fetchOnce(ctx, endpoint)
		if err == nil {
			return resp, nil
		}
		if !retryable {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %d attempts: %v", domain.ErrSourceUnavailable, c.maxAttempts, lastErr)
}

// fetchOnce performs a single request. The second return reports
// whether a failure is worth retrying.
func (c *Client) fetchOnce(ctx context.Context, endpoint string) (*rowsResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var page rowsResponse
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			return nil, false, fmt.Errorf("decode rows response: %v", err)
		}
		return &page, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("status %d", resp.StatusCode)
	}
}

// sleep waits for the backoff delay, honouring cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
