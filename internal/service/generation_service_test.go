package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"kidlanes/internal/genai"
	"kidlanes/internal/models"
	"kidlanes/internal/validation"
	"kidlanes/internal/youtube"
)

// fakeGenerator replays canned JSON responses in call order
type fakeGenerator struct {
	responses []string
	calls     int
	prompts   []string
}

func (f *fakeGenerator) GenerateStructured(ctx context.Context, prompt string, out any, opts genai.Options) error {
	f.prompts = append(f.prompts, prompt)
	if f.calls >= len(f.responses) {
		return errors.New("no response scripted for this call")
	}
	response := f.responses[f.calls]
	f.calls++
	return json.Unmarshal([]byte(response), out)
}

type searchCall struct {
	query string
	opts  youtube.SearchOptions
}

// fakeSearch serves canned results keyed by the planned query (without the
// appended suffix) and records every call
type fakeSearch struct {
	mu          sync.Mutex
	results     map[string][]youtube.SearchResult
	failQueries map[string]bool
	calls       []searchCall
	details     []youtube.Video
	detailsErr  error
}

const querySuffix = " for kids educational"

func (f *fakeSearch) Search(ctx context.Context, query string, opts youtube.SearchOptions) ([]youtube.SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{query: query, opts: opts})
	f.mu.Unlock()

	key := query[:len(query)-len(querySuffix)]
	if f.failQueries[key] {
		return nil, errors.New("quota exceeded")
	}
	return f.results[key], nil
}

func (f *fakeSearch) Details(ctx context.Context, ids []string) ([]youtube.Video, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.details, nil
}

func planJSON(queries ...string) string {
	plan := map[string]any{
		"title":       "Space for Kids",
		"description": "Fun videos about space",
		"category":    "science",
		"queries":     queries,
	}
	b, _ := json.Marshal(plan)
	return string(b)
}

func rankJSON(selections ...map[string]any) string {
	b, _ := json.Marshal(map[string]any{"selections": selections})
	return string(b)
}

func results(ids ...string) []youtube.SearchResult {
	out := make([]youtube.SearchResult, 0, len(ids))
	for _, id := range ids {
		out = append(out, youtube.SearchResult{
			ID:      id,
			Title:   "Video " + id,
			Channel: "Channel " + id,
		})
	}
	return out
}

func TestGenerateLaneRejectsEmptyPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewGenerationService(gen, &fakeSearch{})

	_, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "   "})
	var validationErr validation.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times before validation", gen.calls)
	}
}

func TestGenerateLaneDeduplicatesAcrossQueries(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		planJSON("planets", "solar system"),
		rankJSON(
			map[string]any{"index": 1, "score": 0.9, "reason": "great"},
			map[string]any{"index": 2, "score": 0.8, "reason": "good"},
			map[string]any{"index": 3, "score": 0.7, "reason": "fine"},
		),
	}}
	search := &fakeSearch{results: map[string][]youtube.SearchResult{
		"planets":      results("a", "b"),
		"solar system": results("b", "c"),
	}}
	svc := NewGenerationService(gen, search)

	lane, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space videos"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Candidates were a, b, c in first-seen order; the duplicate b from the
	// second query must not appear twice.
	gotIDs := make([]string, 0, len(lane.Items))
	for _, item := range lane.Items {
		gotIDs = append(gotIDs, item.VideoID)
	}
	want := []string{"a", "b", "c"}
	if len(gotIDs) != len(want) {
		t.Fatalf("got items %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Errorf("item %d = %s, want %s", i, gotIDs[i], want[i])
		}
	}
}

func TestGenerateLaneSearchOptions(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		planJSON("planets"),
		rankJSON(map[string]any{"index": 1, "score": 0.9, "reason": "great"}),
	}}
	search := &fakeSearch{results: map[string][]youtube.SearchResult{
		"planets": results("a"),
	}}
	svc := NewGenerationService(gen, search)

	if _, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(search.calls) != 1 {
		t.Fatalf("expected 1 search call, got %d", len(search.calls))
	}
	call := search.calls[0]
	if call.query != "planets"+querySuffix {
		t.Errorf("query = %q, want suffix %q appended", call.query, querySuffix)
	}
	if call.opts.SafeSearch != "strict" {
		t.Errorf("safeSearch = %q, want strict", call.opts.SafeSearch)
	}
	if call.opts.Duration != "medium" {
		t.Errorf("duration = %q, want medium", call.opts.Duration)
	}
	if call.opts.Order != "relevance" {
		t.Errorf("order = %q, want relevance", call.opts.Order)
	}
	if call.opts.MaxResults != 5 {
		t.Errorf("maxResults = %d, want 5", call.opts.MaxResults)
	}
}

func TestGenerateLaneCapsQueriesAtFour(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		planJSON("q1", "q2", "q3", "q4", "q5", "q6"),
		rankJSON(map[string]any{"index": 1, "score": 0.9, "reason": "great"}),
	}}
	search := &fakeSearch{results: map[string][]youtube.SearchResult{
		"q1": results("a"),
	}}
	svc := NewGenerationService(gen, search)

	if _, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(search.calls) != 4 {
		t.Errorf("expected 4 search calls, got %d", len(search.calls))
	}
}

func TestGenerateLaneToleratesQueryFailure(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		planJSON("planets", "rockets"),
		rankJSON(map[string]any{"index": 1, "score": 0.9, "reason": "great"}),
	}}
	search := &fakeSearch{
		results:     map[string][]youtube.SearchResult{"planets": results("a")},
		failQueries: map[string]bool{"rockets": true},
	}
	svc := NewGenerationService(gen, search)

	lane, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"})
	if err != nil {
		t.Fatalf("a single failing query must not fail the pipeline: %v", err)
	}
	if len(lane.Items) != 1 || lane.Items[0].VideoID != "a" {
		t.Errorf("expected the surviving query's result, got %+v", lane.Items)
	}
}

func TestGenerateLaneDropsOutOfRangeIndices(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		planJSON("planets"),
		rankJSON(
			map[string]any{"index": 0, "score": 0.9, "reason": "below range"},
			map[string]any{"index": 2, "score": 0.8, "reason": "keep"},
			map[string]any{"index": 7, "score": 0.7, "reason": "above range"},
			map[string]any{"index": -3, "score": 0.6, "reason": "negative"},
		),
	}}
	search := &fakeSearch{results: map[string][]youtube.SearchResult{
		"planets": results("a", "b"),
	}}
	svc := NewGenerationService(gen, search)

	lane, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lane.Items) != 1 {
		t.Fatalf("expected 1 surviving item, got %d", len(lane.Items))
	}
	if lane.Items[0].VideoID != "b" {
		t.Errorf("surviving item = %s, want b", lane.Items[0].VideoID)
	}
}

func TestGenerateLaneSortsByScoreStable(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		planJSON("planets"),
		rankJSON(
			map[string]any{"index": 1, "score": 0.5, "reason": "first tie"},
			map[string]any{"index": 2, "score": 0.9, "reason": "best"},
			map[string]any{"index": 3, "score": 0.5, "reason": "second tie"},
		),
	}}
	search := &fakeSearch{results: map[string][]youtube.SearchResult{
		"planets": results("a", "b", "c"),
	}}
	svc := NewGenerationService(gen, search)

	lane, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"b", "a", "c"} // highest score first, ties keep selection order
	for i, item := range lane.Items {
		if item.VideoID != want[i] {
			t.Errorf("item %d = %s, want %s", i, item.VideoID, want[i])
		}
	}
}

func TestGenerateLaneTruncatesToMaxResultCount(t *testing.T) {
	ids := make([]string, 6)
	selections := make([]map[string]any, 6)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%d", i)
		selections[i] = map[string]any{"index": i + 1, "score": 0.9 - float64(i)*0.1, "reason": "ok"}
	}
	gen := &fakeGenerator{responses: []string{
		planJSON("planets"),
		rankJSON(selections...),
	}}
	search := &fakeSearch{results: map[string][]youtube.SearchResult{
		"planets": results(ids...),
	}}
	svc := NewGenerationService(gen, search)

	lane, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space", MaxResultCount: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lane.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(lane.Items))
	}
}

func TestGenerateLaneEmptyCandidatesSkipsRanking(t *testing.T) {
	gen := &fakeGenerator{responses: []string{planJSON("planets")}}
	search := &fakeSearch{results: map[string][]youtube.SearchResult{}}
	svc := NewGenerationService(gen, search)

	lane, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"})
	if err != nil {
		t.Fatalf("zero candidates must not fail: %v", err)
	}
	if len(lane.Items) != 0 {
		t.Errorf("expected empty item list, got %+v", lane.Items)
	}
	if gen.calls != 1 {
		t.Errorf("ranking should be skipped with no candidates, generator called %d times", gen.calls)
	}
	if lane.Title != "Space for Kids" || lane.Category != "science" {
		t.Errorf("plan metadata lost: %+v", lane)
	}
}

func TestGenerateLaneUsesDetailsMetadata(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		planJSON("planets"),
		rankJSON(map[string]any{"index": 1, "score": 0.9, "reason": "great"}),
	}}
	search := &fakeSearch{
		results: map[string][]youtube.SearchResult{"planets": results("a")},
		details: []youtube.Video{{ID: "a", DurationSeconds: 253, ViewCount: 12000}},
	}
	svc := NewGenerationService(gen, search)

	lane, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lane.Items[0].DurationSeconds != 253 {
		t.Errorf("duration = %d, want 253", lane.Items[0].DurationSeconds)
	}
	if lane.Items[0].ViewCount != 12000 {
		t.Errorf("views = %d, want 12000", lane.Items[0].ViewCount)
	}
}

func TestGenerateLaneSurvivesDetailsFailure(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		planJSON("planets"),
		rankJSON(map[string]any{"index": 1, "score": 0.9, "reason": "great"}),
	}}
	search := &fakeSearch{
		results:    map[string][]youtube.SearchResult{"planets": results("a")},
		detailsErr: errors.New("quota exceeded"),
	}
	svc := NewGenerationService(gen, search)

	lane, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"})
	if err != nil {
		t.Fatalf("details failure must degrade, not fail: %v", err)
	}
	if len(lane.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(lane.Items))
	}
	if lane.Items[0].DurationSeconds != 0 {
		t.Errorf("duration should fall back to 0, got %d", lane.Items[0].DurationSeconds)
	}
}

func TestGenerateLaneInvalidPlanCategoryFallsBack(t *testing.T) {
	plan := map[string]any{
		"title":       "Space",
		"description": "Space videos",
		"category":    "rocketry", // not in the closed set
		"queries":     []string{"planets"},
	}
	planBytes, _ := json.Marshal(plan)
	gen := &fakeGenerator{responses: []string{
		string(planBytes),
		rankJSON(map[string]any{"index": 1, "score": 0.9, "reason": "great"}),
	}}
	search := &fakeSearch{results: map[string][]youtube.SearchResult{
		"planets": results("a"),
	}}
	svc := NewGenerationService(gen, search)

	lane, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lane.Category != "education" {
		t.Errorf("category = %q, want fallback education", lane.Category)
	}
}

func TestGenerateLaneDefaultsAgeBracket(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		planJSON("planets"),
		rankJSON(map[string]any{"index": 1, "score": 0.9, "reason": "great"}),
	}}
	search := &fakeSearch{results: map[string][]youtube.SearchResult{
		"planets": results("a"),
	}}
	svc := NewGenerationService(gen, search)

	if _, err := svc.GenerateLane(context.Background(), GenerateLaneRequest{Prompt: "space"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantRange := models.DefaultAgeBracket.AgeRange()
	if len(gen.prompts) == 0 || !strings.Contains(gen.prompts[0], wantRange) {
		t.Errorf("planning prompt should mention the default age range %q", wantRange)
	}
}
