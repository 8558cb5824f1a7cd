package fetcher_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bajij/competitive-scrape/internal/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *fetcher.Fetcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fetcher.New(logger, 5*time.Second)
}

func TestFetch_Success(t *testing.T) {
	const body = "<html><body>hello</body></html>"

	var gotUserAgent, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	got, err := newTestFetcher().Fetch(t.Context(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, body, got)
	assert.Contains(t, gotUserAgent, "CompetitiveScrape/1.0")
	assert.Contains(t, gotAccept, "text/html")
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(t.Context(), srv.URL)

	require.Error(t, err)

	var statusErr *fetcher.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, srv.URL, statusErr.URL)
}

func TestFetch_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	_, err := newTestFetcher().Fetch(t.Context(), url)

	require.Error(t, err)
	var statusErr *fetcher.StatusError
	assert.NotErrorAs(t, err, &statusErr)
}

func TestFetch_InvalidURL(t *testing.T) {
	_, err := newTestFetcher().Fetch(t.Context(), "://not-a-url")

	require.Error(t, err)
}
