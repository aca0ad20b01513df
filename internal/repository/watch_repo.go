package repository

import (
	"database/sql"
	"fmt"

	"kidlanes/internal/database"
	"kidlanes/internal/models"
)

// WatchRepository handles database operations for watch records
type WatchRepository struct {
	db *database.DB
}

// NewWatchRepository creates a new watch repository
func NewWatchRepository(db *database.DB) *WatchRepository {
	return &WatchRepository{db: db}
}

const watchColumns = "id, profile_id, lane_id, item_id, position_seconds, duration_seconds, progress_percent, completed, started_at, completed_at, updated_at"

func scanWatchRow(scan func(dest ...interface{}) error) (*models.WatchRecord, error) {
	record := &models.WatchRecord{}
	err := scan(
		&record.ID,
		&record.ProfileID,
		&record.LaneID,
		&record.ItemID,
		&record.PositionSeconds,
		&record.DurationSeconds,
		&record.ProgressPercent,
		&record.Completed,
		&record.StartedAt,
		&record.CompletedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetRecord retrieves the watch record for a (profile, item) pair, or nil
// if none exists
func (r *WatchRepository) GetRecord(profileID, itemID int64) (*models.WatchRecord, error) {
	query := "SELECT " + watchColumns + " FROM watch_records WHERE profile_id = ? AND item_id = ?"
	record, err := scanWatchRow(r.db.QueryRow(query, profileID, itemID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watch record: %w", err)
	}
	return record, nil
}

// CreateRecord inserts a new watch record and returns its id
func (r *WatchRepository) CreateRecord(record *models.WatchRecord) (int64, error) {
	query := `
		INSERT INTO watch_records (profile_id, lane_id, item_id, position_seconds, duration_seconds, progress_percent, completed, started_at, completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		record.ProfileID,
		record.LaneID,
		record.ItemID,
		record.PositionSeconds,
		record.DurationSeconds,
		record.ProgressPercent,
		record.Completed,
		record.StartedAt,
		record.CompletedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create watch record: %w", err)
	}
	return id, nil
}

// UpdateRecord updates an existing watch record in place
func (r *WatchRepository) UpdateRecord(record *models.WatchRecord) error {
	query := `
		UPDATE watch_records
		SET position_seconds = ?, duration_seconds = ?, progress_percent = ?, completed = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		record.PositionSeconds,
		record.DurationSeconds,
		record.ProgressPercent,
		record.Completed,
		record.CompletedAt,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update watch record: %w", err)
	}
	return nil
}

// GetCompletedRecords retrieves all completed watch records for a profile
func (r *WatchRepository) GetCompletedRecords(profileID int64) ([]models.WatchRecord, error) {
	query := "SELECT " + watchColumns + " FROM watch_records WHERE profile_id = ? AND completed = ? ORDER BY id ASC"
	rows, err := r.db.Query(query, profileID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed records: %w", err)
	}
	defer rows.Close()

	var records []models.WatchRecord
	for rows.Next() {
		record, err := scanWatchRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch record: %w", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

// CountCompleted returns the number of completed records for a profile
func (r *WatchRepository) CountCompleted(profileID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM watch_records WHERE profile_id = ? AND completed = ?"
	if err := r.db.QueryRow(query, profileID, true).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed records: %w", err)
	}
	return count, nil
}
