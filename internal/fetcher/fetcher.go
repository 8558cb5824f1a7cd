// Package fetcher retrieves raw markup for monitored pages. One uncached
// GET per call, no retries; bounding the body is the normalizer's job.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	userAgent    = "CompetitiveScrape/1.0 (+https://github.com/bajij/competitive-scrape)"
	acceptHeader = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status code error: [%d] %s", e.StatusCode, e.URL)
}

type Fetcher struct {
	log    *slog.Logger
	client *http.Client
}

// New creates a Fetcher whose requests are bounded by the given timeout.
func New(log *slog.Logger, timeout time.Duration) *Fetcher {
	return &Fetcher{log: log, client: &http.Client{Timeout: timeout}}
}

// Fetch performs a single GET against rawURL and returns the response
// body verbatim. Non-2xx responses yield a *StatusError; transport
// failures are wrapped and returned as-is.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	const opn = "fetcher.Fetch"

	reqURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%s: failed to parse URL %s: %w", opn, rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%s: failed to create request %s: %w", opn, reqURL.String(), err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	f.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL)

	res, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: failed to request %s: %w", opn, rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{URL: rawURL, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%s: failed to read response body: %w", opn, err)
	}

	f.log.InfoContext(ctx, "Successfully fetched page", "URL", rawURL, "status code", res.StatusCode, "bytes", len(body))

	return string(body), nil
}
