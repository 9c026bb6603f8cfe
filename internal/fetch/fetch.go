// Package fetch retrieves remote XML documents with retry logic.
package fetch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pubxml/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with a non-200 status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Fetcher downloads XML documents with config-driven retry behavior.
type Fetcher struct {
	client *http.Client
	retry  config.RetryPolicy
}

// NewFetcher creates a fetcher with the default retry policy.
func NewFetcher() *Fetcher {
	return NewFetcherWithPolicy(config.DefaultRetryPolicy())
}

// NewFetcherWithPolicy creates a fetcher with a custom retry policy.
func NewFetcherWithPolicy(retry config.RetryPolicy) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: retry.Timeout()},
		retry:  retry,
	}
}

// Fetch retrieves the document at url, retrying with exponential
// backoff on transport errors and non-200 responses.
func (f *Fetcher) Fetch(url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= f.retry.MaxAttempts; attempt++ {
		if delay := f.retry.RetryDelay(attempt); delay > 0 {
			time.Sleep(delay)
		}

		body, err := f.fetchOnce(url)
		if err == nil {
			return body, nil
		}

		lastErr = err
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", f.retry.MaxAttempts, lastErr)
}

func (f *Fetcher) fetchOnce(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, */*;q=0.8")
	req.Header.Set("User-Agent", "pubxml-etl/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d for %s", ErrUnexpectedStatusCode, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
