package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"kidlanes/internal/genai"
	"kidlanes/internal/models"
	"kidlanes/internal/validation"
	"kidlanes/internal/youtube"
)

const (
	maxSearchQueries    = 4
	resultsPerQuery     = 5
	defaultResultCount  = 8
	rankDescriptionChar = 120
)

// Generator produces structured data from prompts
type Generator interface {
	GenerateStructured(ctx context.Context, prompt string, out any, opts genai.Options) error
}

// SearchProvider finds candidate videos and resolves their metadata
type SearchProvider interface {
	Search(ctx context.Context, query string, opts youtube.SearchOptions) ([]youtube.SearchResult, error)
	Details(ctx context.Context, ids []string) ([]youtube.Video, error)
}

// trustedChannels is a per-age-bracket allow-list passed to the ranking
// prompt as a hint, not a hard filter.
var trustedChannels = map[models.AgeBracket][]string{
	models.AgePreschool: {"Super Simple Songs", "Sesame Street", "Cocomelon"},
	models.AgeEarly:     {"SciShow Kids", "Art for Kids Hub", "StoryBots", "National Geographic Kids"},
	models.AgeMiddle:    {"SciShow Kids", "Crash Course Kids", "TED-Ed", "National Geographic Kids"},
	models.AgePreteen:   {"Crash Course", "TED-Ed", "Veritasium", "MinutePhysics"},
}

// GenerateLaneRequest carries the parent's generation input
type GenerateLaneRequest struct {
	Prompt         string
	AgeBracket     models.AgeBracket
	MaxResultCount int
	ProfileName    string
}

// lanePlan is the structured planning response
type lanePlan struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Queries     []string `json:"queries"`
}

type rankSelection struct {
	Index  int     `json:"index"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

type rankResponse struct {
	Selections []rankSelection `json:"selections"`
}

// GenerationService orchestrates planning, search and ranking to produce a
// candidate lane. It never persists anything itself.
type GenerationService struct {
	generator Generator
	search    SearchProvider
}

// NewGenerationService creates a new generation service
func NewGenerationService(generator Generator, search SearchProvider) *GenerationService {
	return &GenerationService{
		generator: generator,
		search:    search,
	}
}

// GenerateLane runs the full pipeline: plan queries, search, deduplicate,
// rank, and assemble an ordered candidate lane.
func (s *GenerationService) GenerateLane(ctx context.Context, req GenerateLaneRequest) (*models.GeneratedLane, error) {
	if err := validation.ValidatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	if req.AgeBracket == "" {
		req.AgeBracket = models.DefaultAgeBracket
	}
	if !models.ValidAgeBracket(req.AgeBracket) {
		return nil, validation.ValidationError{Field: "ageBracket", Message: fmt.Sprintf("unknown age bracket: %q", req.AgeBracket)}
	}
	if req.MaxResultCount <= 0 {
		req.MaxResultCount = defaultResultCount
	}

	plan, err := s.plan(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates := s.collectCandidates(ctx, plan.Queries)

	lane := &models.GeneratedLane{
		Title:       plan.Title,
		Description: plan.Description,
		Category:    plan.Category,
		Items:       []models.GeneratedItem{},
	}
	if len(candidates) == 0 {
		return lane, nil
	}

	items, err := s.rank(ctx, req, candidates)
	if err != nil {
		return nil, err
	}
	lane.Items = items
	return lane, nil
}

func (s *GenerationService) plan(ctx context.Context, req GenerateLaneRequest) (*lanePlan, error) {
	prompt := fmt.Sprintf(`A parent wants a playlist of YouTube videos for their child (age %s).
Parent's request: %q

Respond with a JSON object with these fields:
- "title": a short playlist title, at most 30 characters
- "description": one sentence describing the playlist, at most 100 characters
- "category": exactly one of %s
- "queries": 3 to 5 YouTube search queries that would find good videos for this request`,
		req.AgeBracket.AgeRange(), req.Prompt, strings.Join(models.LaneCategories, ", "))

	var plan lanePlan
	err := s.generator.GenerateStructured(ctx, prompt, &plan, genai.Options{
		Temperature:  0.7,
		MaxTokens:    500,
		SystemPrompt: "You plan safe, educational video playlists for children. Respond only with JSON.",
		JSONMode:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to plan lane: %w", err)
	}

	if !models.ValidCategory(plan.Category) {
		plan.Category = "education"
	}
	if len(plan.Queries) == 0 {
		plan.Queries = []string{req.Prompt}
	}
	if len(plan.Queries) > maxSearchQueries {
		plan.Queries = plan.Queries[:maxSearchQueries]
	}
	return &plan, nil
}

// collectCandidates fans out the planned queries and deduplicates results by
// video id in first-seen order. A failing query is logged and skipped.
func (s *GenerationService) collectCandidates(ctx context.Context, queries []string) []youtube.SearchResult {
	perQuery := make([][]youtube.SearchResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			results, err := s.search.Search(gctx, query+" for kids educational", youtube.SearchOptions{
				MaxResults: resultsPerQuery,
				SafeSearch: "strict",
				Duration:   "medium",
				Order:      "relevance",
			})
			if err != nil {
				log.Printf("search query %q failed, skipping: %v", query, err)
				return nil
			}
			perQuery[i] = results
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	var candidates []youtube.SearchResult
	for _, results := range perQuery {
		for _, r := range results {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			candidates = append(candidates, r)
		}
	}
	return candidates
}

func (s *GenerationService) rank(ctx context.Context, req GenerateLaneRequest, candidates []youtube.SearchResult) ([]models.GeneratedItem, error) {
	details := s.lookupDetails(ctx, candidates)

	var sb strings.Builder
	fmt.Fprintf(&sb, "A parent asked for: %q. The child is age %s.\n", req.Prompt, req.AgeBracket.AgeRange())
	if channels := trustedChannels[req.AgeBracket]; len(channels) > 0 {
		fmt.Fprintf(&sb, "Channels known to be trustworthy for this age: %s.\n", strings.Join(channels, ", "))
	}
	sb.WriteString("\nCandidate videos:\n")
	for i, c := range candidates {
		d := details[c.ID]
		desc := c.Description
		if len(desc) > rankDescriptionChar {
			desc = desc[:rankDescriptionChar]
		}
		fmt.Fprintf(&sb, "%d. %q by %s (%s, %d views): %s\n",
			i+1, c.Title, c.Channel, youtube.FormatDuration(d.DurationSeconds), d.ViewCount, desc)
	}
	fmt.Fprintf(&sb, `
Pick the best %d videos by relevance, educational value, age-appropriateness,
channel trustworthiness, topic variety and duration fit.
Respond with a JSON object: {"selections": [{"index": <1-based candidate number>, "score": <0.0-1.0>, "reason": "<at most 15 words>"}]}`,
		req.MaxResultCount)

	var ranked rankResponse
	err := s.generator.GenerateStructured(ctx, sb.String(), &ranked, genai.Options{
		Temperature:  0.2,
		MaxTokens:    1000,
		SystemPrompt: "You curate safe, educational videos for children. Respond only with JSON.",
		JSONMode:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}

	items := make([]models.GeneratedItem, 0, len(ranked.Selections))
	for _, sel := range ranked.Selections {
		// Model output is untrusted; indices outside [1, N] are dropped.
		if sel.Index < 1 || sel.Index > len(candidates) {
			log.Printf("ranking returned out-of-range index %d (have %d candidates), dropping", sel.Index, len(candidates))
			continue
		}
		c := candidates[sel.Index-1]
		d := details[c.ID]
		items = append(items, models.GeneratedItem{
			VideoID:         c.ID,
			Title:           c.Title,
			Description:     c.Description,
			Channel:         c.Channel,
			Thumbnail:       c.Thumbnail,
			DurationSeconds: d.DurationSeconds,
			ViewCount:       d.ViewCount,
			Score:           sel.Score,
			Reason:          sel.Reason,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > req.MaxResultCount {
		items = items[:req.MaxResultCount]
	}
	return items, nil
}

// lookupDetails fetches duration and view counts for the candidates. A
// failed lookup degrades to search metadata only.
func (s *GenerationService) lookupDetails(ctx context.Context, candidates []youtube.SearchResult) map[string]youtube.Video {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	byID := make(map[string]youtube.Video, len(ids))
	videos, err := s.search.Details(ctx, ids)
	if err != nil {
		log.Printf("video details lookup failed, continuing without durations: %v", err)
		return byID
	}
	for _, v := range videos {
		byID[v.ID] = v
	}
	return byID
}
