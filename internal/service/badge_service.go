package service

import (
	"fmt"

	"kidlanes/internal/models"
)

// badgeStore is the slice of the badge repository the engine needs
type badgeStore interface {
	Award(profileID int64, kind models.BadgeKind, laneID *int64) (*models.EarnedBadge, error)
	GetProfileBadges(profileID int64) ([]models.EarnedBadge, error)
}

// watchHistory exposes a profile's completed watch records
type watchHistory interface {
	GetCompletedRecords(profileID int64) ([]models.WatchRecord, error)
}

// laneCatalogue exposes a profile's lanes and their items
type laneCatalogue interface {
	GetProfileLanes(profileID int64) ([]models.Lane, error)
	GetLaneItems(laneID int64) ([]models.LaneItem, error)
}

// countBadge pairs a completed-item threshold with the badge it unlocks
var countBadges = []struct {
	threshold int
	kind      models.BadgeKind
}{
	{1, models.BadgeFirstWatch},
	{5, models.BadgeFiveVideos},
	{10, models.BadgeTenVideos},
	{25, models.BadgeTwentyFiveVideos},
}

// BadgeService derives which achievements a profile has unlocked from its
// watch history and lane catalogue
type BadgeService struct {
	badgeRepo badgeStore
	watchRepo watchHistory
	laneRepo  laneCatalogue
}

// NewBadgeService creates a new badge service
func NewBadgeService(badgeRepo badgeStore, watchRepo watchHistory, laneRepo laneCatalogue) *BadgeService {
	return &BadgeService{
		badgeRepo: badgeRepo,
		watchRepo: watchRepo,
		laneRepo:  laneRepo,
	}
}

// Evaluate re-runs every badge predicate for the profile and returns only
// the badges newly awarded by this call. Re-running after every completion
// is safe: awarding is idempotent per (profile, kind).
func (s *BadgeService) Evaluate(profileID int64) ([]models.EarnedBadge, error) {
	completed, err := s.watchRepo.GetCompletedRecords(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed records: %w", err)
	}
	if len(completed) == 0 {
		return nil, nil
	}

	lanes, err := s.laneRepo.GetProfileLanes(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lanes: %w", err)
	}

	completedItems := make(map[int64]bool, len(completed))
	for _, rec := range completed {
		completedItems[rec.ItemID] = true
	}

	var newBadges []models.EarnedBadge

	award := func(kind models.BadgeKind, laneID *int64) error {
		badge, err := s.badgeRepo.Award(profileID, kind, laneID)
		if err != nil {
			return fmt.Errorf("failed to award %s: %w", kind, err)
		}
		if badge != nil {
			newBadges = append(newBadges, *badge)
		}
		return nil
	}

	for _, cb := range countBadges {
		if len(completed) >= cb.threshold {
			if err := award(cb.kind, nil); err != nil {
				return newBadges, err
			}
		}
	}

	masterLane, err := s.findMasteredLane(lanes, completedItems)
	if err != nil {
		return newBadges, err
	}
	if masterLane != nil {
		laneID := masterLane.ID
		if err := award(models.BadgeLaneMaster, &laneID); err != nil {
			return newBadges, err
		}
	}

	if s.distinctCategories(lanes, completed) >= 4 {
		if err := award(models.BadgeExplorer, nil); err != nil {
			return newBadges, err
		}
	}

	return newBadges, nil
}

// findMasteredLane returns the first lane, in display order, that has at
// least one item and whose every item has a completed record
func (s *BadgeService) findMasteredLane(lanes []models.Lane, completedItems map[int64]bool) (*models.Lane, error) {
	for _, lane := range lanes {
		items, err := s.laneRepo.GetLaneItems(lane.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get items for lane %d: %w", lane.ID, err)
		}
		if len(items) == 0 {
			continue
		}
		mastered := true
		for _, item := range items {
			if !completedItems[item.ID] {
				mastered = false
				break
			}
		}
		if mastered {
			return &lane, nil
		}
	}
	return nil, nil
}

// distinctCategories counts how many lane categories the completed records
// span. Records pointing at a deleted lane are skipped.
func (s *BadgeService) distinctCategories(lanes []models.Lane, completed []models.WatchRecord) int {
	categoryByLane := make(map[int64]string, len(lanes))
	for _, lane := range lanes {
		categoryByLane[lane.ID] = lane.Category
	}

	categories := make(map[string]bool)
	for _, rec := range completed {
		if category, ok := categoryByLane[rec.LaneID]; ok {
			categories[category] = true
		}
	}
	return len(categories)
}

// GetProfileBadges lists everything a profile has earned so far
func (s *BadgeService) GetProfileBadges(profileID int64) ([]models.EarnedBadge, error) {
	badges, err := s.badgeRepo.GetProfileBadges(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get badges: %w", err)
	}
	return badges, nil
}
