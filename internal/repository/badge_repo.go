package repository

import (
	"database/sql"
	"fmt"
	"time"

	"kidlanes/internal/database"
	"kidlanes/internal/models"
)

// BadgeRepository handles database operations for earned badges
type BadgeRepository struct {
	db *database.DB
}

// NewBadgeRepository creates a new badge repository
func NewBadgeRepository(db *database.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// Award records a badge for a profile. Awarding is idempotent: the insert
// is skipped when the (profile, kind) pair already exists, in which case
// nil is returned without error.
func (r *BadgeRepository) Award(profileID int64, kind models.BadgeKind, laneID *int64) (*models.EarnedBadge, error) {
	now := time.Now()
	query := "INSERT INTO earned_badges (profile_id, badge_kind, lane_id, earned_at) VALUES (?, ?, ?, ?)"
	created, err := r.db.ExecInsertIgnore(query, profileID, string(kind), laneID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to award badge: %w", err)
	}
	if !created {
		return nil, nil
	}

	return &models.EarnedBadge{
		ProfileID: profileID,
		Kind:      kind,
		LaneID:    laneID,
		EarnedAt:  now,
	}, nil
}

// GetProfileBadges retrieves all badges a profile has earned
func (r *BadgeRepository) GetProfileBadges(profileID int64) ([]models.EarnedBadge, error) {
	query := "SELECT id, profile_id, badge_kind, lane_id, earned_at FROM earned_badges WHERE profile_id = ? ORDER BY earned_at ASC"
	rows, err := r.db.Query(query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()

	var badges []models.EarnedBadge
	for rows.Next() {
		badge := models.EarnedBadge{}
		var laneID sql.NullInt64
		if err := rows.Scan(&badge.ID, &badge.ProfileID, &badge.Kind, &laneID, &badge.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		if laneID.Valid {
			badge.LaneID = &laneID.Int64
		}
		badges = append(badges, badge)
	}

	return badges, rows.Err()
}

// CountProfileBadges returns the number of badges a profile has earned
func (r *BadgeRepository) CountProfileBadges(profileID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM earned_badges WHERE profile_id = ?"
	if err := r.db.QueryRow(query, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count badges: %w", err)
	}
	return count, nil
}
