package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"assetscope/internal/logger"
	"assetscope/internal/pkg/circuit"
	"assetscope/internal/pkg/text"
)

// ErrUnavailable marks a soft upstream failure: non-2xx status, rate limit,
// transport error, undecodable body or an open breaker.
var ErrUnavailable = errors.New("upstream unavailable")

const (
	maxBodyBytes    = 32 << 20
	maxExcerptRunes = 200
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL    string
	Status int
	// Body is a one-line excerpt of the response, if any.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}

// RateLimited reports whether the upstream throttled the call.
func (e *StatusError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds while the
// cause stays visible in the message.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Fetcher issues GET requests against one upstream host through a breaker.
type Fetcher struct {
	Name    string
	Client  *http.Client
	Breaker *circuit.Breaker
}

// Get returns the body of a 2xx response.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if f == nil || f.Client == nil {
		return nil, fmt.Errorf("fetcher not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var body []byte
	start := time.Now()
	err := f.Breaker.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		resp, err := f.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
			return &StatusError{
				URL:    url,
				Status: resp.StatusCode,
				Body:   text.Truncate(text.OneLine(string(excerpt)), maxExcerptRunes),
			}
		}
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return err
	}, countsAsFailure)
	logger.Debugf("%s GET %s dur=%s err=%v", f.Name, url, time.Since(start).Round(time.Millisecond), err)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetJSON decodes a 2xx JSON body into out.
func (f *Fetcher) GetJSON(ctx context.Context, url string, out any) error {
	body, err := f.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// countsAsFailure keeps client errors other than 429 from tripping the
// breaker; an unknown id is not an outage.
func countsAsFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.RateLimited() || se.Status >= 500
	}
	return true
}
