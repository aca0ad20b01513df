package repository

import (
	"database/sql"
	"fmt"
	"time"

	"kidlanes/internal/database"
	"kidlanes/internal/models"
)

// LaneRepository handles database operations for lanes and their items
type LaneRepository struct {
	db *database.DB
}

// NewLaneRepository creates a new lane repository
func NewLaneRepository(db *database.DB) *LaneRepository {
	return &LaneRepository{db: db}
}

const laneColumns = "id, profile_id, name, category, position, active, created_at, updated_at"

// CreateLane creates a new lane for a profile
func (r *LaneRepository) CreateLane(profileID int64, name, category string, position int) (*models.Lane, error) {
	return r.createLane(r.db, profileID, name, category, position)
}

func (r *LaneRepository) createLane(db database.DBTX, profileID int64, name, category string, position int) (*models.Lane, error) {
	query := "INSERT INTO lanes (profile_id, name, category, position, active) VALUES (?, ?, ?, ?, ?)"
	id, err := db.ExecReturningID(query, profileID, name, category, position, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create lane: %w", err)
	}

	return &models.Lane{
		ID:        id,
		ProfileID: profileID,
		Name:      name,
		Category:  category,
		Position:  position,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func scanLaneRow(scan func(dest ...interface{}) error) (*models.Lane, error) {
	lane := &models.Lane{}
	err := scan(
		&lane.ID,
		&lane.ProfileID,
		&lane.Name,
		&lane.Category,
		&lane.Position,
		&lane.Active,
		&lane.CreatedAt,
		&lane.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lane, nil
}

// GetLaneByID retrieves a lane by ID, or nil if none exists
func (r *LaneRepository) GetLaneByID(id int64) (*models.Lane, error) {
	query := "SELECT " + laneColumns + " FROM lanes WHERE id = ?"
	lane, err := scanLaneRow(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lane: %w", err)
	}
	return lane, nil
}

// GetProfileLanes retrieves all lanes for a profile in sort order
func (r *LaneRepository) GetProfileLanes(profileID int64) ([]models.Lane, error) {
	query := "SELECT " + laneColumns + " FROM lanes WHERE profile_id = ? ORDER BY position ASC, id ASC"
	rows, err := r.db.Query(query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lanes: %w", err)
	}
	defer rows.Close()

	var lanes []models.Lane
	for rows.Next() {
		lane, err := scanLaneRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lane: %w", err)
		}
		lanes = append(lanes, *lane)
	}

	return lanes, rows.Err()
}

// GetActiveProfileLanes retrieves only active lanes for a profile in sort order
func (r *LaneRepository) GetActiveProfileLanes(profileID int64) ([]models.Lane, error) {
	query := "SELECT " + laneColumns + " FROM lanes WHERE profile_id = ? AND active = ? ORDER BY position ASC, id ASC"
	rows, err := r.db.Query(query, profileID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query active lanes: %w", err)
	}
	defer rows.Close()

	var lanes []models.Lane
	for rows.Next() {
		lane, err := scanLaneRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lane: %w", err)
		}
		lanes = append(lanes, *lane)
	}

	return lanes, rows.Err()
}

// CountProfileLanes returns the number of lanes a profile has
func (r *LaneRepository) CountProfileLanes(profileID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM lanes WHERE profile_id = ?"
	if err := r.db.QueryRow(query, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lanes: %w", err)
	}
	return count, nil
}

// UpdateLane updates a lane's name, category, and active flag
func (r *LaneRepository) UpdateLane(id int64, name, category string, active bool) error {
	query := "UPDATE lanes SET name = ?, category = ?, active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, name, category, active, id); err != nil {
		return fmt.Errorf("failed to update lane: %w", err)
	}
	return nil
}

// UpdateLanePosition moves a lane to a new sort position
func (r *LaneRepository) UpdateLanePosition(id int64, position int) error {
	query := "UPDATE lanes SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, position, id); err != nil {
		return fmt.Errorf("failed to update lane position: %w", err)
	}
	return nil
}

// DeleteLane deletes a lane together with all of its items in a single
// transaction, so a failure leaves both untouched
func (r *LaneRepository) DeleteLane(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM lane_items WHERE lane_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete lane items: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM lanes WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete lane: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lane delete: %w", err)
	}
	return nil
}

const itemColumns = "id, lane_id, kind, title, description, position, video_id, duration_seconds, channel, thumbnail, url, image_url, created_at, updated_at"

// CreateItem adds an item to a lane
func (r *LaneRepository) CreateItem(item *models.LaneItem) (*models.LaneItem, error) {
	return r.createItem(r.db, item)
}

func (r *LaneRepository) createItem(db database.DBTX, item *models.LaneItem) (*models.LaneItem, error) {
	query := `
		INSERT INTO lane_items (lane_id, kind, title, description, position, video_id, duration_seconds, channel, thumbnail, url, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := db.ExecReturningID(query,
		item.LaneID,
		string(item.Kind),
		item.Title,
		item.Description,
		item.Position,
		item.VideoID,
		item.DurationSeconds,
		item.Channel,
		item.Thumbnail,
		item.URL,
		item.ImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lane item: %w", err)
	}

	created := *item
	created.ID = id
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	return &created, nil
}

func scanItemRow(scan func(dest ...interface{}) error) (*models.LaneItem, error) {
	item := &models.LaneItem{}
	err := scan(
		&item.ID,
		&item.LaneID,
		&item.Kind,
		&item.Title,
		&item.Description,
		&item.Position,
		&item.VideoID,
		&item.DurationSeconds,
		&item.Channel,
		&item.Thumbnail,
		&item.URL,
		&item.ImageURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItemByID retrieves a lane item by ID, or nil if none exists
func (r *LaneRepository) GetItemByID(id int64) (*models.LaneItem, error) {
	query := "SELECT " + itemColumns + " FROM lane_items WHERE id = ?"
	item, err := scanItemRow(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lane item: %w", err)
	}
	return item, nil
}

// GetLaneItems retrieves all items in a lane in sort order
func (r *LaneRepository) GetLaneItems(laneID int64) ([]models.LaneItem, error) {
	query := "SELECT " + itemColumns + " FROM lane_items WHERE lane_id = ? ORDER BY position ASC, id ASC"
	rows, err := r.db.Query(query, laneID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lane items: %w", err)
	}
	defer rows.Close()

	var items []models.LaneItem
	for rows.Next() {
		item, err := scanItemRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lane item: %w", err)
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// UpdateItem updates a lane item's editable fields
func (r *LaneRepository) UpdateItem(item *models.LaneItem) error {
	query := `
		UPDATE lane_items
		SET title = ?, description = ?, position = ?, video_id = ?, duration_seconds = ?, channel = ?, thumbnail = ?, url = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		item.Title,
		item.Description,
		item.Position,
		item.VideoID,
		item.DurationSeconds,
		item.Channel,
		item.Thumbnail,
		item.URL,
		item.ImageURL,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lane item: %w", err)
	}
	return nil
}

// DeleteItem removes a single item from a lane
func (r *LaneRepository) DeleteItem(id int64) error {
	query := "DELETE FROM lane_items WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete lane item: %w", err)
	}
	return nil
}

// CreateLaneWithItems persists a lane and its items in one transaction,
// used when a parent confirms a generated lane
func (r *LaneRepository) CreateLaneWithItems(profileID int64, name, category string, position int, items []models.LaneItem) (*models.LaneWithItems, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	lane, err := r.createLane(tx, profileID, name, category, position)
	if err != nil {
		return nil, err
	}

	created := make([]models.LaneItem, 0, len(items))
	for i := range items {
		items[i].LaneID = lane.ID
		items[i].Position = i
		item, err := r.createItem(tx, &items[i])
		if err != nil {
			return nil, err
		}
		created = append(created, *item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit lane with items: %w", err)
	}

	return &models.LaneWithItems{Lane: *lane, Items: created}, nil
}
