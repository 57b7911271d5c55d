package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/stats"
)

// ErrUnavailable matches every failure to reach or use the statistics
// service.
var ErrUnavailable = errors.New("statistics service unavailable")

// UnavailableError carries the failing operation and the underlying cause.
// errors.Is(err, ErrUnavailable) is true for it.
type UnavailableError struct {
	Op      string
	Wrapped error
}

func (e *UnavailableError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", ErrUnavailable, e.Op, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", ErrUnavailable, e.Op)
}

func (e *UnavailableError) Unwrap() error {
	return e.Wrapped
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// Client talks to the statistics service over HTTP.
type Client struct {
	baseURL string       // e.g. "http://localhost:8080"
	client  *http.Client // reused across calls
	retries int          // attempts for idempotent reads
}

const defaultRetries = 2

// New creates a client. timeout bounds each HTTP round trip.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		retries: defaultRetries,
	}
}

// WithRetries returns a copy of c that makes n attempts per read.
func (c *Client) WithRetries(n int) *Client {
	cp := *c
	if n < 1 {
		n = 1
	}
	cp.retries = n
	return &cp
}

// ============================================================================
// History
// ============================================================================

// FetchPastResults returns the most recent results, newest first.
func (c *Client) FetchPastResults(ctx context.Context) ([]result.SessionResult, error) {
	var out []result.SessionResult
	if err := c.get(ctx, "fetch past results", "/results", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchRuleAccuracyHistory returns per-rule counts. Percentages are
// recomputed locally from the counts.
func (c *Client) FetchRuleAccuracyHistory(ctx context.Context) ([]stats.RuleAccuracy, error) {
	var raw []stats.RuleAccuracy
	if err := c.get(ctx, "fetch rule accuracy", "/stats/rules", &raw); err != nil {
		return nil, err
	}
	out := make([]stats.RuleAccuracy, len(raw))
	for i, r := range raw {
		out[i] = stats.AccuracyFromCounts(r.RuleCategory, r.TotalAttempts, r.CorrectAttempts)
	}
	return out, nil
}

// FetchErrorPatternHistory returns the most frequent mistakes.
func (c *Client) FetchErrorPatternHistory(ctx context.Context) ([]stats.ErrorPattern, error) {
	var out []stats.ErrorPattern
	if err := c.get(ctx, "fetch error patterns", "/stats/errors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type persistResponse struct {
	ID      int64 `json:"id"`
	Success bool  `json:"success"`
}

// PersistSessionResult stores a finished session and returns its id.
// It makes a single attempt; retrying is the caller's choice.
func (c *Client) PersistSessionResult(ctx context.Context, r result.SessionResult) (int64, error) {
	const op = "persist session result"

	body, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}

	var resp persistResponse
	if err := c.do(ctx, op, http.MethodPost, "/results", body, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, &UnavailableError{Op: op, Wrapped: errors.New("service reported failure")}
	}
	return resp.ID, nil
}

// ============================================================================
// HTTP plumbing
// ============================================================================

// get retries transport errors and 5xx responses up to c.retries times.
func (c *Client) get(ctx context.Context, op, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		err := c.do(ctx, op, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && se.code < 500 {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("service returned status %d", e.code)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &UnavailableError{Op: op, Wrapped: fmt.Errorf("failed to create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &UnavailableError{Op: op, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UnavailableError{Op: op, Wrapped: &statusError{code: resp.StatusCode}}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UnavailableError{Op: op, Wrapped: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
