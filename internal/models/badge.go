package models

import "time"

// BadgeKind names an achievement a profile can unlock
type BadgeKind string

const (
	BadgeFirstWatch       BadgeKind = "first_watch"
	BadgeFiveVideos       BadgeKind = "five_videos"
	BadgeTenVideos        BadgeKind = "ten_videos"
	BadgeTwentyFiveVideos BadgeKind = "twenty_five_videos"
	BadgeLaneMaster       BadgeKind = "lane_master"
	BadgeExplorer         BadgeKind = "explorer"
)

// BadgeLabel returns a display name for a badge kind
func BadgeLabel(kind BadgeKind) string {
	switch kind {
	case BadgeFirstWatch:
		return "First Watch"
	case BadgeFiveVideos:
		return "Five Videos"
	case BadgeTenVideos:
		return "Ten Videos"
	case BadgeTwentyFiveVideos:
		return "Twenty-Five Videos"
	case BadgeLaneMaster:
		return "Lane Master"
	case BadgeExplorer:
		return "Explorer"
	}
	return string(kind)
}

// EarnedBadge records that a profile unlocked a badge. At most one row
// exists per (profile, kind); LaneID carries optional metadata about the
// lane that triggered the award.
type EarnedBadge struct {
	ID        int64
	ProfileID int64
	Kind      BadgeKind
	LaneID    *int64
	EarnedAt  time.Time
}
