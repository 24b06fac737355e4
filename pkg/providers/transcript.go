package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/safeharbor-labs/vidguard/pkg/httputil"
)

// TranscriptProvider fetches caption tracks from a timedtext endpoint
// and flattens them into one transcript string. Items without captions
// return ("", nil): absence is data, not an error.
type TranscriptProvider struct {
	BaseURL  string
	Language string
	Limiter  *httputil.Semaphore
	Metrics  Observer
}

func NewTranscriptProvider(baseURL string, api *API) *TranscriptProvider {
	return &TranscriptProvider{
		BaseURL:  baseURL,
		Language: "en",
		Limiter:  api.Limiter,
		Metrics:  api.Metrics,
	}
}

// timedtext json3 format: a flat event list with text segments.
type timedtextResponse struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func (p *TranscriptProvider) FetchTranscript(ctx context.Context, key string) (text string, err error) {
	start := time.Now()
	defer func() {
		if p.Metrics != nil {
			p.Metrics.ObserveProviderFetch("transcript", time.Since(start), err)
		}
	}()

	if err = p.Limiter.Acquire(ctx); err != nil {
		return "", err
	}
	defer p.Limiter.Release()

	q := url.Values{}
	q.Set("v", key)
	q.Set("lang", p.Language)
	q.Set("fmt", "json3")
	endpoint := p.BaseURL + "/api/timedtext?" + q.Encode()

	resp, rerr := httputil.GetWithRetry(ctx, httputil.Client(httputil.TierSlow), endpoint, 3)
	if rerr != nil {
		if se, ok := rerr.(*httputil.StatusError); ok && se.Status == 404 {
			return "", nil
		}
		err = fmt.Errorf("fetch transcript: %w", rerr)
		return "", err
	}
	body, rerr := httputil.ReadBody(resp.Body, 0)
	httputil.DrainAndClose(resp.Body)
	if rerr != nil {
		err = fmt.Errorf("read transcript response: %w", rerr)
		return "", err
	}
	// The endpoint answers 200 with an empty body when no track exists.
	if len(body) == 0 {
		return "", nil
	}
	var parsed timedtextResponse
	if rerr := json.Unmarshal(body, &parsed); rerr != nil {
		err = fmt.Errorf("decode transcript response: %w", rerr)
		return "", err
	}

	var sb strings.Builder
	for _, ev := range parsed.Events {
		for _, seg := range ev.Segs {
			if seg.UTF8 == "" || seg.UTF8 == "\n" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.TrimSpace(seg.UTF8))
		}
	}
	return sb.String(), nil
}
