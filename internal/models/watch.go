package models

import "time"

// WatchRecord is the durable progress state for one (profile, item) pair.
// CompletedAt is set exactly once, on the first transition to completed,
// and Completed never reverts to false afterwards.
type WatchRecord struct {
	ID              int64
	ProfileID       int64
	LaneID          int64
	ItemID          int64
	PositionSeconds float64
	DurationSeconds float64
	ProgressPercent int
	Completed       bool
	StartedAt       time.Time
	CompletedAt     *time.Time
	UpdatedAt       time.Time
}
