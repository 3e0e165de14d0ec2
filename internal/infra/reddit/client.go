// Package reddit is the HTTP adapter for the public Reddit JSON API. It
// implements trend.ContentSource using stdlib net/http.
// Endpoints used:
//   - GET /subreddits/popular.json — trending subreddits
//   - GET /r/{subreddit}/hot.json  — popular links of one subreddit
//   - GET /comments/{article}.json — comment listing of one link
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/matiasleandrokruk/trendwords/internal/domain/trend"
)

// Client calls the Reddit JSON API. An optional client-side limiter paces
// outgoing requests across all three endpoints; this is a courtesy to the
// remote API and is independent of the pipeline's own per-stage throttles.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client with a 30s request timeout. requestsPerSecond
// bounds outgoing calls when positive; zero or negative disables pacing.
// Reddit rejects default Go user agents, so callers should pass a descriptive
// one.
func NewClient(baseURL, userAgent string, requestsPerSecond float64) *Client {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: limiter,
	}
}

// ─── Reddit listing JSON types ───────────────────────────────────────────────

type listing struct {
	Data struct {
		Children []struct {
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type subredditData struct {
	DisplayName string `json:"display_name"`
}

type linkData struct {
	ID string `json:"id"`
}

type commentData struct {
	Body string `json:"body"`
}

// ─── trend.ContentSource implementation ──────────────────────────────────────

// TrendingTopics returns the currently popular subreddits via
// GET /subreddits/popular.json.
func (c *Client) TrendingTopics(ctx context.Context) ([]trend.Topic, error) {
	body, err := c.doGet(ctx, "/subreddits/popular.json")
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	var page listing
	if decodeErr := json.NewDecoder(body).Decode(&page); decodeErr != nil {
		return nil, fmt.Errorf("decode popular subreddits: %w", decodeErr)
	}

	topics := make([]trend.Topic, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		var sub subredditData
		if unmarshalErr := json.Unmarshal(child.Data, &sub); unmarshalErr != nil {
			return nil, fmt.Errorf("decode subreddit entry: %w", unmarshalErr)
		}
		if sub.DisplayName == "" {
			continue
		}
		topics = append(topics, trend.Topic(sub.DisplayName))
	}
	return topics, nil
}

// PopularLinks returns one page of hot links via GET /r/{subreddit}/hot.json.
func (c *Client) PopularLinks(ctx context.Context, topic trend.Topic) ([]trend.Link, error) {
	body, err := c.doGet(ctx, fmt.Sprintf("/r/%s/hot.json", topic))
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	var page listing
	if decodeErr := json.NewDecoder(body).Decode(&page); decodeErr != nil {
		return nil, fmt.Errorf("decode hot links for r/%s: %w", topic, decodeErr)
	}

	links := make([]trend.Link, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		var ld linkData
		if unmarshalErr := json.Unmarshal(child.Data, &ld); unmarshalErr != nil {
			return nil, fmt.Errorf("decode link entry for r/%s: %w", topic, unmarshalErr)
		}
		if ld.ID == "" {
			continue
		}
		links = append(links, trend.Link{Topic: topic, ID: ld.ID})
	}
	return links, nil
}

// PopularComments returns one page of comments via GET /comments/{article}.json.
// Reddit answers with a two-element array: the submission listing followed by
// the comment listing; only the latter is used.
func (c *Client) PopularComments(ctx context.Context, link trend.Link) ([]trend.Comment, error) {
	body, err := c.doGet(ctx, fmt.Sprintf("/comments/%s.json", link.ID))
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	var pages []listing
	if decodeErr := json.NewDecoder(body).Decode(&pages); decodeErr != nil {
		return nil, fmt.Errorf("decode comments for %s: %w", link.ID, decodeErr)
	}
	if len(pages) < 2 {
		return nil, fmt.Errorf("decode comments for %s: expected [submission, comments] listings, got %d", link.ID, len(pages))
	}

	children := pages[1].Data.Children
	comments := make([]trend.Comment, 0, len(children))
	for _, child := range children {
		var cd commentData
		if unmarshalErr := json.Unmarshal(child.Data, &cd); unmarshalErr != nil {
			return nil, fmt.Errorf("decode comment entry for %s: %w", link.ID, unmarshalErr)
		}
		if cd.Body == "" {
			// "more comments" stubs and deleted comments have no body.
			continue
		}
		comments = append(comments, trend.Comment{Topic: link.Topic, Body: cd.Body})
	}
	return comments, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// doGet sends a GET request to baseURL+path and returns the response body.
// Caller is responsible for closing the returned ReadCloser.
func (c *Client) doGet(ctx context.Context, path string) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("reddit get %s: %w", path, err)
		}
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit get %s: build request: %w", path, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit get %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("reddit get %s: status %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}
