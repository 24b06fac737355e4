package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/httputil"
)

// MetadataProvider fetches title, description, channel and tags from the
// videos endpoint.
type MetadataProvider struct {
	api *API
}

func NewMetadataProvider(api *API) *MetadataProvider {
	return &MetadataProvider{api: api}
}

type videoListResponse struct {
	Items []struct {
		Snippet struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			ChannelTitle string   `json:"channelTitle"`
			Tags         []string `json:"tags"`
		} `json:"snippet"`
	} `json:"items"`
}

func (p *MetadataProvider) FetchMetadata(ctx context.Context, key string) (meta *evidence.Metadata, err error) {
	start := time.Now()
	defer func() { p.api.observe("metadata", start, err) }()

	if err = p.api.Limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer p.api.Limiter.Release()

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", key)
	q.Set("key", p.api.APIKey)
	endpoint := p.api.BaseURL + "/videos?" + q.Encode()

	resp, err := httputil.GetWithRetry(ctx, httputil.Client(httputil.TierFast), endpoint, 3)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	defer httputil.DrainAndClose(resp.Body)

	body, err := httputil.ReadBody(resp.Body, 0)
	if err != nil {
		return nil, fmt.Errorf("read metadata response: %w", err)
	}
	var parsed videoListResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("no metadata for %s", key)
	}

	s := parsed.Items[0].Snippet
	return &evidence.Metadata{
		Title:       s.Title,
		Description: s.Description,
		Channel:     s.ChannelTitle,
		Tags:        s.Tags,
	}, nil
}
