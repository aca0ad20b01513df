package service

import (
	"fmt"
	"math"
	"time"

	"kidlanes/internal/models"
)

const completionThreshold = 90

// watchStore is the slice of the watch repository the tracker needs
type watchStore interface {
	GetRecord(profileID, itemID int64) (*models.WatchRecord, error)
	CreateRecord(record *models.WatchRecord) (int64, error)
	UpdateRecord(record *models.WatchRecord) error
}

// ProgressService turns raw playback samples into durable watch state
type ProgressService struct {
	watchRepo watchStore
}

// NewProgressService creates a new progress service
func NewProgressService(watchRepo watchStore) *ProgressService {
	return &ProgressService{watchRepo: watchRepo}
}

// RecordProgress stores a playback sample for a (profile, item) pair. The
// returned flag is true exactly when this sample moved the record from
// not-completed to completed; that transition is the only trigger for badge
// evaluation. A sample with zero duration is a no-op.
func (s *ProgressService) RecordProgress(profileID, laneID, itemID int64, position, duration float64) (*models.WatchRecord, bool, error) {
	if duration <= 0 {
		return nil, false, nil
	}

	percent := int(math.Round(100 * position / duration))
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	completed := percent >= completionThreshold
	now := time.Now()

	record, err := s.watchRepo.GetRecord(profileID, itemID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get watch record: %w", err)
	}

	if record == nil {
		record = &models.WatchRecord{
			ProfileID:       profileID,
			LaneID:          laneID,
			ItemID:          itemID,
			PositionSeconds: position,
			DurationSeconds: duration,
			ProgressPercent: percent,
			Completed:       completed,
			StartedAt:       now,
			UpdatedAt:       now,
		}
		if completed {
			record.CompletedAt = &now
		}
		id, err := s.watchRepo.CreateRecord(record)
		if err != nil {
			return nil, false, fmt.Errorf("failed to create watch record: %w", err)
		}
		record.ID = id
		return record, completed, nil
	}

	newlyCompleted := completed && !record.Completed

	record.PositionSeconds = position
	record.DurationSeconds = duration
	record.ProgressPercent = percent
	// Completion never reverts once reached.
	record.Completed = record.Completed || completed
	record.UpdatedAt = now
	if newlyCompleted {
		record.CompletedAt = &now
	}

	if err := s.watchRepo.UpdateRecord(record); err != nil {
		return nil, false, fmt.Errorf("failed to update watch record: %w", err)
	}
	return record, newlyCompleted, nil
}
