package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	requestTimeout = 15 * time.Second
)

// Client calls the YouTube Data API v3 for search and video metadata
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new YouTube API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithHTTPClient is intended for tests; it avoids network access by
// using a custom http.Client (typically with a fake RoundTripper).
func NewClientWithHTTPClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	c := NewClient(apiKey)
	if baseURL != "" {
		c.baseURL = baseURL
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// APIError represents a non-success response from the YouTube API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube api: status %d: %s", e.StatusCode, e.Body)
}

// SearchOptions control a search call
type SearchOptions struct {
	MaxResults int
	SafeSearch string // "strict", "moderate", "none"
	Duration   string // "short", "medium", "long"
	Order      string // "relevance", "date", "viewCount"
}

// SearchResult is one candidate video returned by search
type SearchResult struct {
	ID          string
	Title       string
	Description string
	Channel     string
	Thumbnail   string
	PublishedAt time.Time
}

// Video is full metadata for a single video
type Video struct {
	ID              string
	Title           string
	Description     string
	Channel         string
	Thumbnail       string
	DurationSeconds int
	ViewCount       int64
	LikeCount       int64
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

type snippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnails   struct {
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
	} `json:"thumbnails"`
}

type videosResponse struct {
	Items []struct {
		ID             string  `json:"id"`
		Snippet        snippet `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Search queries the API for videos matching the query
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("key", c.apiKey)
	if opts.MaxResults > 0 {
		params.Set("maxResults", strconv.Itoa(opts.MaxResults))
	}
	if opts.SafeSearch != "" {
		params.Set("safeSearch", opts.SafeSearch)
	}
	if opts.Duration != "" {
		params.Set("videoDuration", opts.Duration)
	}
	if opts.Order != "" {
		params.Set("order", opts.Order)
	}

	var parsed searchResponse
	if err := c.getJSON(ctx, "/search", params, &parsed); err != nil {
		return nil, fmt.Errorf("search %q failed: %w", query, err)
	}

	results := make([]SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID.VideoID == "" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		results = append(results, SearchResult{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Channel:     item.Snippet.ChannelTitle,
			Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
			PublishedAt: publishedAt,
		})
	}

	return results, nil
}

// Details fetches full metadata (duration, view count) for a set of video ids
func (c *Client) Details(ctx context.Context, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", c.apiKey)

	var parsed videosResponse
	if err := c.getJSON(ctx, "/videos", params, &parsed); err != nil {
		return nil, fmt.Errorf("video details failed: %w", err)
	}

	videos := make([]Video, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		duration, err := ParseISODuration(item.ContentDetails.Duration)
		if err != nil {
			duration = 0
		}
		viewCount, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		likeCount, _ := strconv.ParseInt(item.Statistics.LikeCount, 10, 64)
		videos = append(videos, Video{
			ID:              item.ID,
			Title:           item.Snippet.Title,
			Description:     item.Snippet.Description,
			Channel:         item.Snippet.ChannelTitle,
			Thumbnail:       item.Snippet.Thumbnails.Medium.URL,
			DurationSeconds: duration,
			ViewCount:       viewCount,
			LikeCount:       likeCount,
		})
	}

	return videos, nil
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	fullURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
