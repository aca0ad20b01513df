package service

import (
	"errors"
	"fmt"

	"kidlanes/internal/models"
	"kidlanes/internal/repository"
	"kidlanes/internal/validation"
)

var (
	ErrLaneNotFound = errors.New("lane not found")
	ErrItemNotFound = errors.New("item not found")
)

// LaneService handles lane and lane item management
type LaneService struct {
	laneRepo    *repository.LaneRepository
	profileRepo *repository.ProfileRepository
}

// NewLaneService creates a new lane service
func NewLaneService(laneRepo *repository.LaneRepository, profileRepo *repository.ProfileRepository) *LaneService {
	return &LaneService{
		laneRepo:    laneRepo,
		profileRepo: profileRepo,
	}
}

// verifyLaneOwner loads a lane and checks it belongs to one of the
// account's profiles
func (s *LaneService) verifyLaneOwner(accountID, laneID int64) (*models.Lane, error) {
	lane, err := s.laneRepo.GetLaneByID(laneID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lane: %w", err)
	}
	if lane == nil {
		return nil, ErrLaneNotFound
	}

	profile, err := s.profileRepo.GetProfileByID(lane.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lane profile: %w", err)
	}
	if profile == nil || profile.AccountID != accountID {
		return nil, ErrNotAuthorized
	}

	return lane, nil
}

// CreateLane creates an empty lane at the end of the profile's lane order
func (s *LaneService) CreateLane(profileID int64, name, category string) (*models.Lane, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if !models.ValidCategory(category) {
		return nil, fmt.Errorf("unknown lane category: %q", category)
	}

	position, err := s.laneRepo.CountProfileLanes(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lanes: %w", err)
	}

	lane, err := s.laneRepo.CreateLane(profileID, name, category, position)
	if err != nil {
		return nil, fmt.Errorf("failed to create lane: %w", err)
	}
	return lane, nil
}

// GetLane retrieves a lane owned by the account
func (s *LaneService) GetLane(accountID, laneID int64) (*models.Lane, error) {
	return s.verifyLaneOwner(accountID, laneID)
}

// GetLaneWithItems retrieves a lane and its ordered items
func (s *LaneService) GetLaneWithItems(accountID, laneID int64) (*models.LaneWithItems, error) {
	lane, err := s.verifyLaneOwner(accountID, laneID)
	if err != nil {
		return nil, err
	}
	items, err := s.laneRepo.GetLaneItems(lane.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lane items: %w", err)
	}
	return &models.LaneWithItems{Lane: *lane, Items: items}, nil
}

// GetProfileLanes returns all lanes for a profile in display order
func (s *LaneService) GetProfileLanes(profileID int64) ([]models.Lane, error) {
	lanes, err := s.laneRepo.GetProfileLanes(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lanes: %w", err)
	}
	return lanes, nil
}

// GetChildLanes returns the active lanes with items, as shown to the child
func (s *LaneService) GetChildLanes(profileID int64) ([]models.LaneWithItems, error) {
	lanes, err := s.laneRepo.GetActiveProfileLanes(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active lanes: %w", err)
	}

	result := make([]models.LaneWithItems, 0, len(lanes))
	for _, lane := range lanes {
		items, err := s.laneRepo.GetLaneItems(lane.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get items for lane %d: %w", lane.ID, err)
		}
		result = append(result, models.LaneWithItems{Lane: lane, Items: items})
	}
	return result, nil
}

// GetChildItem loads an item after checking the lane belongs to the
// child's profile and the item belongs to the lane.
func (s *LaneService) GetChildItem(profileID, laneID, itemID int64) (*models.LaneItem, error) {
	lane, err := s.laneRepo.GetLaneByID(laneID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lane: %w", err)
	}
	if lane == nil || lane.ProfileID != profileID {
		return nil, ErrLaneNotFound
	}

	item, err := s.laneRepo.GetItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil || item.LaneID != laneID {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// UpdateLane renames a lane, moves it between categories or toggles visibility
func (s *LaneService) UpdateLane(accountID, laneID int64, name, category string, active bool) (*models.Lane, error) {
	lane, err := s.verifyLaneOwner(accountID, laneID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if !models.ValidCategory(category) {
		return nil, fmt.Errorf("unknown lane category: %q", category)
	}

	if err := s.laneRepo.UpdateLane(lane.ID, name, category, active); err != nil {
		return nil, fmt.Errorf("failed to update lane: %w", err)
	}
	return s.laneRepo.GetLaneByID(lane.ID)
}

// ReorderLanes applies a new display order. orderedIDs must name every lane
// of the profile exactly once.
func (s *LaneService) ReorderLanes(accountID, profileID int64, orderedIDs []int64) error {
	lanes, err := s.laneRepo.GetProfileLanes(profileID)
	if err != nil {
		return fmt.Errorf("failed to list lanes: %w", err)
	}
	if len(orderedIDs) != len(lanes) {
		return fmt.Errorf("reorder expects %d lane ids, got %d", len(lanes), len(orderedIDs))
	}

	owned := make(map[int64]bool, len(lanes))
	for _, lane := range lanes {
		owned[lane.ID] = true
	}
	for _, id := range orderedIDs {
		if !owned[id] {
			return ErrLaneNotFound
		}
	}

	for position, id := range orderedIDs {
		if _, err := s.verifyLaneOwner(accountID, id); err != nil {
			return err
		}
		if err := s.laneRepo.UpdateLanePosition(id, position); err != nil {
			return fmt.Errorf("failed to move lane %d: %w", id, err)
		}
	}
	return nil
}

// DeleteLane removes a lane and all of its items atomically
func (s *LaneService) DeleteLane(accountID, laneID int64) error {
	lane, err := s.verifyLaneOwner(accountID, laneID)
	if err != nil {
		return err
	}
	if err := s.laneRepo.DeleteLane(lane.ID); err != nil {
		return fmt.Errorf("failed to delete lane: %w", err)
	}
	return nil
}

// AddItem appends a content item to a lane
func (s *LaneService) AddItem(accountID, laneID int64, item models.LaneItem) (*models.LaneItem, error) {
	lane, err := s.verifyLaneOwner(accountID, laneID)
	if err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, validation.ValidationError{Field: "item", Message: err.Error()}
	}

	existing, err := s.laneRepo.GetLaneItems(lane.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lane items: %w", err)
	}

	item.LaneID = lane.ID
	item.Position = len(existing)
	created, err := s.laneRepo.CreateItem(&item)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return created, nil
}

// UpdateItem replaces an item's content in place
func (s *LaneService) UpdateItem(accountID, itemID int64, item models.LaneItem) (*models.LaneItem, error) {
	existing, err := s.laneRepo.GetItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if existing == nil {
		return nil, ErrItemNotFound
	}
	if _, err := s.verifyLaneOwner(accountID, existing.LaneID); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, validation.ValidationError{Field: "item", Message: err.Error()}
	}

	item.ID = existing.ID
	item.LaneID = existing.LaneID
	item.Position = existing.Position
	if err := s.laneRepo.UpdateItem(&item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return s.laneRepo.GetItemByID(item.ID)
}

// DeleteItem removes a single item from a lane
func (s *LaneService) DeleteItem(accountID, itemID int64) error {
	existing, err := s.laneRepo.GetItemByID(itemID)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}
	if existing == nil {
		return ErrItemNotFound
	}
	if _, err := s.verifyLaneOwner(accountID, existing.LaneID); err != nil {
		return err
	}
	if err := s.laneRepo.DeleteItem(existing.ID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// ConfirmGeneratedLane persists a generated candidate lane as a real lane.
// selectedIndexes picks which candidates to keep (zero-based, in the order
// they should appear); an empty selection keeps all of them.
func (s *LaneService) ConfirmGeneratedLane(profileID int64, gen *models.GeneratedLane, selectedIndexes []int) (*models.LaneWithItems, error) {
	if gen == nil || gen.Title == "" {
		return nil, validation.ValidationError{Field: "lane", Message: "generated lane is empty"}
	}
	category := gen.Category
	if !models.ValidCategory(category) {
		category = "education"
	}

	if len(selectedIndexes) == 0 {
		selectedIndexes = make([]int, len(gen.Items))
		for i := range gen.Items {
			selectedIndexes[i] = i
		}
	}

	items := make([]models.LaneItem, 0, len(selectedIndexes))
	for _, idx := range selectedIndexes {
		if idx < 0 || idx >= len(gen.Items) {
			return nil, validation.ValidationError{Field: "items", Message: fmt.Sprintf("selection index %d out of range", idx)}
		}
		candidate := gen.Items[idx]
		items = append(items, models.LaneItem{
			Kind:            models.KindVideo,
			Title:           candidate.Title,
			Description:     candidate.Description,
			Position:        len(items),
			VideoID:         candidate.VideoID,
			DurationSeconds: candidate.DurationSeconds,
			Channel:         candidate.Channel,
			Thumbnail:       candidate.Thumbnail,
		})
	}

	position, err := s.laneRepo.CountProfileLanes(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lanes: %w", err)
	}

	created, err := s.laneRepo.CreateLaneWithItems(profileID, gen.Title, category, position, items)
	if err != nil {
		return nil, fmt.Errorf("failed to save generated lane: %w", err)
	}
	return created, nil
}
