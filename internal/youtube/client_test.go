package youtube

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

// fakeTransport returns canned responses keyed by URL path
type fakeTransport struct {
	responses map[string]fakeResponse
	lastURL   string
}

type fakeResponse struct {
	status int
	body   string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.lastURL = req.URL.String()
	resp, ok := f.responses[req.URL.Path]
	if !ok {
		resp = fakeResponse{status: 404, body: `{"error":"not found"}`}
	}
	return &http.Response{
		StatusCode: resp.status,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Header:     make(http.Header),
	}, nil
}

func newFakeClient(t *testing.T, responses map[string]fakeResponse) (*Client, *fakeTransport) {
	t.Helper()
	transport := &fakeTransport{responses: responses}
	client := NewClientWithHTTPClient("test-key", "https://yt.test/v3", &http.Client{Transport: transport})
	return client, transport
}

func TestSearchDecodesResults(t *testing.T) {
	body := `{
		"items": [
			{
				"id": {"videoId": "abc123"},
				"snippet": {
					"title": "How Volcanoes Work",
					"description": "Lava and magma explained",
					"channelTitle": "SciShow Kids",
					"publishedAt": "2023-05-01T12:00:00Z",
					"thumbnails": {"medium": {"url": "https://img.test/abc123.jpg"}}
				}
			},
			{
				"id": {},
				"snippet": {"title": "channel result, no videoId"}
			}
		]
	}`

	client, transport := newFakeClient(t, map[string]fakeResponse{
		"/v3/search": {status: 200, body: body},
	})

	results, err := client.Search(context.Background(), "volcanoes", SearchOptions{
		MaxResults: 5,
		SafeSearch: "strict",
		Duration:   "medium",
		Order:      "relevance",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result (entries without videoId skipped), got %d", len(results))
	}
	r := results[0]
	if r.ID != "abc123" || r.Title != "How Volcanoes Work" || r.Channel != "SciShow Kids" {
		t.Errorf("unexpected result: %+v", r)
	}

	for _, param := range []string{"safeSearch=strict", "videoDuration=medium", "order=relevance", "maxResults=5"} {
		if !strings.Contains(transport.lastURL, param) {
			t.Errorf("request URL missing %s: %s", param, transport.lastURL)
		}
	}
}

func TestSearchAPIError(t *testing.T) {
	client, _ := newFakeClient(t, map[string]fakeResponse{
		"/v3/search": {status: 403, body: `{"error":{"message":"quota exceeded"}}`},
	})

	_, err := client.Search(context.Background(), "volcanoes", SearchOptions{})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error should carry status code, got %v", err)
	}
}

func TestDetailsDecodesVideos(t *testing.T) {
	body := `{
		"items": [
			{
				"id": "abc123",
				"snippet": {
					"title": "How Volcanoes Work",
					"channelTitle": "SciShow Kids",
					"thumbnails": {"medium": {"url": "https://img.test/abc123.jpg"}}
				},
				"contentDetails": {"duration": "PT6M30S"},
				"statistics": {"viewCount": "150000", "likeCount": "4200"}
			}
		]
	}`

	client, _ := newFakeClient(t, map[string]fakeResponse{
		"/v3/videos": {status: 200, body: body},
	})

	videos, err := client.Details(context.Background(), []string{"abc123"})
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}

	v := videos[0]
	if v.DurationSeconds != 390 {
		t.Errorf("duration = %d, want 390", v.DurationSeconds)
	}
	if v.ViewCount != 150000 {
		t.Errorf("view count = %d, want 150000", v.ViewCount)
	}
}

func TestDetailsEmptyIDs(t *testing.T) {
	client, transport := newFakeClient(t, nil)

	videos, err := client.Details(context.Background(), nil)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if videos != nil {
		t.Errorf("expected nil for empty input, got %v", videos)
	}
	if transport.lastURL != "" {
		t.Error("no request should be made for empty id list")
	}
}
