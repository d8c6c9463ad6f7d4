package validator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/tradepulse/livetest/internal/common"
)

// RequestFailedError is returned for non-2xx oracle responses.
type RequestFailedError struct {
	Status     int
	StatusText string
	Endpoint   string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("GET %s failed: %d %s", e.Endpoint, e.Status, e.StatusText)
}

// RequestTimedOutError is returned when the per-call timeout elapses before
// the oracle responds.
type RequestTimedOutError struct {
	Endpoint string
	Timeout  time.Duration
}

func (e *RequestTimedOutError) Error() string {
	return fmt.Sprintf("GET %s timed out after %v", e.Endpoint, e.Timeout)
}

// Client issues read-only GETs against the backend API. Every call carries
// the configured per-request timeout and an optional bearer credential, and
// outbound traffic is rate-limited so validation batches cannot hammer the
// backend.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewClient builds an oracle client from the run configuration.
func NewClient(cfg *common.Config, logger arbor.ILogger) *Client {
	limit := rate.Inf
	if cfg.Timing.APIRateLimit > 0 {
		limit = rate.Every(cfg.Timing.APIRateLimit.Std())
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Target.APIBaseURL, "/"),
		token:   cfg.Target.APIToken,
		timeout: cfg.Timing.RequestTimeout.Std(),
		http:    &http.Client{Timeout: cfg.Timing.RequestTimeout.Std()},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Get fetches an endpoint and returns the raw body. Failures are typed:
// *RequestTimedOutError when the deadline elapsed, *RequestFailedError for
// non-2xx responses.
func (c *Client) Get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug().Str("endpoint", endpoint).Msg("Fetching ground truth from API")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, &RequestTimedOutError{Endpoint: endpoint, Timeout: c.timeout}
		}
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestFailedError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Endpoint:   endpoint,
		}
	}
	return body, nil
}
