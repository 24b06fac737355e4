// Package httputil provides the shared HTTP plumbing for upstream
// provider calls: pooled clients in timeout tiers, bounded body reads,
// and retry with backoff for flaky upstreams.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// MaxResponseSize caps response body reads. Transcripts can run long
// but a multi-megabyte response from a metadata endpoint is a fault.
const MaxResponseSize = 10 * 1024 * 1024

// One transport for every provider client so TCP connections are reused
// across metadata, comment, and transcript fetches.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          64,
	MaxIdleConnsPerHost:   8,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// TimeoutTier categorizes upstream calls by how long they may run.
type TimeoutTier int

const (
	// TierFast for metadata lookups and health probes (5s).
	TierFast TimeoutTier = iota
	// TierMedium for comment pagination (15s).
	TierMedium
	// TierSlow for transcript downloads, which can be large (45s).
	TierSlow
)

var timeoutDurations = map[TimeoutTier]time.Duration{
	TierFast:   5 * time.Second,
	TierMedium: 15 * time.Second,
	TierSlow:   45 * time.Second,
}

var (
	clientFast   *http.Client
	clientMedium *http.Client
	clientSlow   *http.Client
	clientOnce   sync.Once
)

func initClients() {
	clientFast = &http.Client{Timeout: timeoutDurations[TierFast], Transport: sharedTransport}
	clientMedium = &http.Client{Timeout: timeoutDurations[TierMedium], Transport: sharedTransport}
	clientSlow = &http.Client{Timeout: timeoutDurations[TierSlow], Transport: sharedTransport}
}

// Client returns the shared client for a tier. Providers use these
// instead of constructing their own clients so the pool stays shared.
func Client(tier TimeoutTier) *http.Client {
	clientOnce.Do(initClients)
	switch tier {
	case TierFast:
		return clientFast
	case TierSlow:
		return clientSlow
	default:
		return clientMedium
	}
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d for %s", e.Status, e.URL)
}

// GetWithRetry issues a GET and retries 5xx responses and transport
// errors with doubling backoff. 4xx responses fail immediately: the
// upstream has answered and retrying will not change its mind. The
// caller owns the returned body.
func GetWithRetry(ctx context.Context, client *http.Client, url string, attempts int) (*http.Response, error) {
	if attempts <= 0 {
		attempts = 3
	}
	backoff := 250 * time.Millisecond
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			DrainAndClose(resp.Body)
			lastErr = &StatusError{Status: resp.StatusCode, URL: url}
			continue
		}
		if resp.StatusCode >= 400 {
			DrainAndClose(resp.Body)
			return nil, &StatusError{Status: resp.StatusCode, URL: url}
		}
		return resp, nil
	}
	return nil, lastErr
}

// ReadBody reads a response body with a size cap.
func ReadBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = MaxResponseSize
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// DrainAndClose drains and closes a response body so the connection
// returns to the pool.
func DrainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
		_ = body.Close()
	}
}
