package repository

import (
	"database/sql"
	"fmt"
	"time"

	"kidlanes/internal/database"
	"kidlanes/internal/models"
)

// ProfileRepository handles database operations for family member profiles
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = "id, account_id, name, role, pin_hash, age_bracket, avatar_color, created_at, updated_at"

// CreateProfile creates a new profile under an account
func (r *ProfileRepository) CreateProfile(accountID int64, name string, role models.Role, pinHash string, ageBracket models.AgeBracket, avatarColor string) (*models.Profile, error) {
	query := "INSERT INTO profiles (account_id, name, role, pin_hash, age_bracket, avatar_color) VALUES (?, ?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, accountID, name, string(role), pinHash, string(ageBracket), avatarColor)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return &models.Profile{
		ID:          id,
		AccountID:   accountID,
		Name:        name,
		Role:        role,
		PINHash:     pinHash,
		AgeBracket:  ageBracket,
		AvatarColor: avatarColor,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

func scanProfileRow(scan func(dest ...interface{}) error) (*models.Profile, error) {
	profile := &models.Profile{}
	err := scan(
		&profile.ID,
		&profile.AccountID,
		&profile.Name,
		&profile.Role,
		&profile.PINHash,
		&profile.AgeBracket,
		&profile.AvatarColor,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileByID retrieves a profile by ID, or nil if none exists
func (r *ProfileRepository) GetProfileByID(id int64) (*models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE id = ?"
	profile, err := scanProfileRow(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetAccountProfiles retrieves all profiles for an account
func (r *ProfileRepository) GetAccountProfiles(accountID int64) ([]models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE account_id = ? ORDER BY created_at ASC"
	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		profile, err := scanProfileRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}

	return profiles, rows.Err()
}

// UpdateProfile updates a profile's mutable fields
func (r *ProfileRepository) UpdateProfile(id int64, name string, ageBracket models.AgeBracket, avatarColor string) error {
	query := "UPDATE profiles SET name = ?, age_bracket = ?, avatar_color = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, name, string(ageBracket), avatarColor, id); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdateProfilePIN replaces a profile's PIN hash
func (r *ProfileRepository) UpdateProfilePIN(id int64, pinHash string) error {
	query := "UPDATE profiles SET pin_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, pinHash, id); err != nil {
		return fmt.Errorf("failed to update profile pin: %w", err)
	}
	return nil
}

// DeleteProfile deletes a profile
func (r *ProfileRepository) DeleteProfile(id int64) error {
	query := "DELETE FROM profiles WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
