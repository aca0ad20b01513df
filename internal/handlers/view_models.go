package handlers

import (
	"time"

	"kidlanes/internal/models"
)

type profileView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	AgeBracket  string `json:"ageBracket"`
	AvatarColor string `json:"avatarColor"`
	HasPIN      bool   `json:"hasPin"`
}

func toProfileView(p *models.Profile) profileView {
	return profileView{
		ID:          p.ID,
		Name:        p.Name,
		Role:        string(p.Role),
		AgeBracket:  string(p.AgeBracket),
		AvatarColor: p.AvatarColor,
		HasPIN:      p.HasPIN(),
	}
}

type laneView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

func toLaneView(l *models.Lane) laneView {
	return laneView{
		ID:       l.ID,
		Name:     l.Name,
		Category: l.Category,
		Position: l.Position,
		Active:   l.Active,
	}
}

type itemView struct {
	ID              int64  `json:"id"`
	LaneID          int64  `json:"laneId"`
	Kind            string `json:"kind"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Position        int    `json:"position"`
	VideoID         string `json:"videoId,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	Channel         string `json:"channel,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	URL             string `json:"url,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
}

func toItemView(i *models.LaneItem) itemView {
	return itemView{
		ID:              i.ID,
		LaneID:          i.LaneID,
		Kind:            string(i.Kind),
		Title:           i.Title,
		Description:     i.Description,
		Position:        i.Position,
		VideoID:         i.VideoID,
		DurationSeconds: i.DurationSeconds,
		Channel:         i.Channel,
		Thumbnail:       i.Thumbnail,
		URL:             i.URL,
		ImageURL:        i.ImageURL,
	}
}

type laneWithItemsView struct {
	laneView
	Items []itemView `json:"items"`
}

func toLaneWithItemsView(l *models.LaneWithItems) laneWithItemsView {
	items := make([]itemView, 0, len(l.Items))
	for i := range l.Items {
		items = append(items, toItemView(&l.Items[i]))
	}
	return laneWithItemsView{laneView: toLaneView(&l.Lane), Items: items}
}

type watchView struct {
	ItemID          int64      `json:"itemId"`
	LaneID          int64      `json:"laneId"`
	PositionSeconds float64    `json:"positionSeconds"`
	ProgressPercent int        `json:"progressPercent"`
	Completed       bool       `json:"completed"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func toWatchView(r *models.WatchRecord) watchView {
	return watchView{
		ItemID:          r.ItemID,
		LaneID:          r.LaneID,
		PositionSeconds: r.PositionSeconds,
		ProgressPercent: r.ProgressPercent,
		Completed:       r.Completed,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
	}
}

type badgeView struct {
	Kind     string    `json:"kind"`
	Label    string    `json:"label"`
	LaneID   *int64    `json:"laneId,omitempty"`
	EarnedAt time.Time `json:"earnedAt"`
}

func toBadgeViews(badges []models.EarnedBadge) []badgeView {
	views := make([]badgeView, 0, len(badges))
	for _, badge := range badges {
		views = append(views, badgeView{
			Kind:     string(badge.Kind),
			Label:    models.BadgeLabel(badge.Kind),
			LaneID:   badge.LaneID,
			EarnedAt: badge.EarnedAt,
		})
	}
	return views
}
