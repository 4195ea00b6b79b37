package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"course-builder/internal/gateway"
)

const (
	DefaultBaseURL    = "https://www.googleapis.com/youtube/v3"
	DefaultMaxResults = 10
	DefaultTimeout    = 15 * time.Second

	maxResponseBytes = 4 << 20
)

// Config configures a Client. Zero values fall back to the defaults.
type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
	Retry      gateway.Options
}

// Client wraps the two Data API v3 calls the course pipeline relies on.
// Every call goes through the shared gateway.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	retry      gateway.Options
	httpClient *http.Client
	gw         *gateway.Gateway
}

// New creates a client that dispatches through gw.
func New(cfg Config, gw *gateway.Gateway) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry == (gateway.Options{}) {
		cfg.Retry = gateway.DefaultOptions()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxResults: cfg.MaxResults,
		retry:      cfg.Retry,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		gw:         gw,
	}
}

// Configured reports whether an API key is present. Without one the client
// is never called.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search finds long, high definition videos for query ordered by relevance.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("videoDuration", "long")
	params.Set("videoDefinition", "high")
	params.Set("order", "relevance")
	params.Set("maxResults", strconv.Itoa(c.maxResults))

	body, err := c.gw.Throttle(ctx, c.get("search", params), c.retry)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]SearchResult, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, SearchResult{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}
	return results, nil
}

// Videos fetches snippet, duration and statistics for ids in one batch call.
func (c *Client) Videos(ctx context.Context, ids []string) ([]Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))

	body, err := c.gw.Throttle(ctx, c.get("videos", params), c.retry)
	if err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}

	var decoded videosResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode videos response: %w", err)
	}

	out := make([]Candidate, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		out = append(out, Candidate{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Thumbnails: Thumbnails{
				Default: item.Snippet.Thumbnails.Default.URL,
				Medium:  item.Snippet.Thumbnails.Medium.URL,
				High:    item.Snippet.Thumbnails.High.URL,
			},
			Duration:  item.ContentDetails.Duration,
			ViewCount: item.Statistics.ViewCount,
		})
	}
	return out, nil
}

// get builds a gateway call for GET {baseURL}/{resource}?params&key=...
func (c *Client) get(resource string, params url.Values) gateway.Call {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + "/" + resource + "?" + params.Encode()

	return func(ctx context.Context) (*gateway.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// url.Error embeds the full URL, API key included.
			var urlErr *url.Error
			if errors.As(err, &urlErr) {
				err = urlErr.Err
			}
			return nil, fmt.Errorf("GET %s: %w", resource, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", resource, err)
		}
		return &gateway.Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
	}
}
