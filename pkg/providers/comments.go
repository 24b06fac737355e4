package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/httputil"
)

// maxCommentTextLen truncates individual comment bodies; the matcher
// only needs the leading text and some comments are essays.
const maxCommentTextLen = 1000

// maxCommentsPerPage is the upstream page size cap.
const maxCommentsPerPage = 100

// CommentProvider fetches top-level comments ordered by relevance.
type CommentProvider struct {
	api *API
}

func NewCommentProvider(api *API) *CommentProvider {
	return &CommentProvider{api: api}
}

type commentThreadsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					TextDisplay       string `json:"textDisplay"`
					LikeCount         int    `json:"likeCount"`
					AuthorDisplayName string `json:"authorDisplayName"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

func (p *CommentProvider) FetchComments(ctx context.Context, key string, limit int) (out []evidence.Comment, err error) {
	start := time.Now()
	defer func() { p.api.observe("comments", start, err) }()

	if err = p.api.Limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer p.api.Limiter.Release()

	pageToken := ""
	for len(out) < limit {
		page := limit - len(out)
		if page > maxCommentsPerPage {
			page = maxCommentsPerPage
		}

		q := url.Values{}
		q.Set("part", "snippet")
		q.Set("videoId", key)
		q.Set("order", "relevance")
		q.Set("maxResults", strconv.Itoa(page))
		q.Set("key", p.api.APIKey)
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		endpoint := p.api.BaseURL + "/commentThreads?" + q.Encode()

		resp, rerr := httputil.GetWithRetry(ctx, httputil.Client(httputil.TierMedium), endpoint, 3)
		if rerr != nil {
			// Comments disabled on the item surfaces as a 403; with some
			// comments already paged in, serve what we have.
			if len(out) > 0 {
				return out, nil
			}
			err = fmt.Errorf("fetch comments: %w", rerr)
			return nil, err
		}
		body, rerr := httputil.ReadBody(resp.Body, 0)
		httputil.DrainAndClose(resp.Body)
		if rerr != nil {
			err = fmt.Errorf("read comments response: %w", rerr)
			return nil, err
		}
		var parsed commentThreadsResponse
		if rerr := json.Unmarshal(body, &parsed); rerr != nil {
			err = fmt.Errorf("decode comments response: %w", rerr)
			return nil, err
		}

		for _, item := range parsed.Items {
			s := item.Snippet.TopLevelComment.Snippet
			text := s.TextDisplay
			if len(text) > maxCommentTextLen {
				// Rune-safe truncation; comments are user text.
				r := []rune(text)
				if len(r) > maxCommentTextLen {
					r = r[:maxCommentTextLen]
				}
				text = string(r)
			}
			out = append(out, evidence.Comment{
				Text:   text,
				Likes:  s.LikeCount,
				Author: s.AuthorDisplayName,
			})
			if len(out) >= limit {
				break
			}
		}

		if parsed.NextPageToken == "" || len(parsed.Items) == 0 {
			break
		}
		pageToken = parsed.NextPageToken
	}
	return out, nil
}
