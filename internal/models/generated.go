package models

// GeneratedItem is one ranked candidate produced by the generation
// pipeline. It is never persisted directly; a parent confirms a subset
// which is then written as lane items.
type GeneratedItem struct {
	VideoID         string  `json:"videoId"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Channel         string  `json:"channel"`
	Thumbnail       string  `json:"thumbnail"`
	DurationSeconds int     `json:"durationSeconds"`
	ViewCount       int64   `json:"viewCount"`
	Score           float64 `json:"score"`
	Reason          string  `json:"reason"`
}

// GeneratedLane is the ephemeral result of the generation pipeline
type GeneratedLane struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Items       []GeneratedItem `json:"items"`
}
