// Package providers implements the evidence provider interfaces against
// a YouTube-compatible data API and a timedtext transcript endpoint.
package providers

import (
	"time"

	"github.com/safeharbor-labs/vidguard/pkg/httputil"
)

// Observer receives fetch timings. telemetry.Metrics satisfies it; nil
// disables recording.
type Observer interface {
	ObserveProviderFetch(provider string, d time.Duration, err error)
}

// API holds the connection details shared by the metadata and comment
// providers. The semaphore bounds concurrent upstream calls across all
// providers built from one API value.
type API struct {
	BaseURL string
	APIKey  string
	Limiter *httputil.Semaphore
	Metrics Observer
}

// NewAPI builds the shared API handle. maxConcurrent bounds in-flight
// upstream requests; non-positive picks the semaphore default.
func NewAPI(baseURL, apiKey string, maxConcurrent int) *API {
	return &API{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Limiter: httputil.NewSemaphore(maxConcurrent),
	}
}

func (a *API) observe(provider string, start time.Time, err error) {
	if a.Metrics != nil {
		a.Metrics.ObserveProviderFetch(provider, time.Since(start), err)
	}
}
