package service

import (
	"errors"
	"fmt"

	"kidlanes/internal/credentials"
	"kidlanes/internal/models"
	"kidlanes/internal/repository"
	"kidlanes/internal/security"
	"kidlanes/internal/validation"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotAuthorized   = errors.New("not authorized")
)

// ProfileService handles child and admin profile management
type ProfileService struct {
	profileRepo *repository.ProfileRepository
	laneRepo    *repository.LaneRepository
	watchRepo   *repository.WatchRepository
	badgeRepo   *repository.BadgeRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo *repository.ProfileRepository, laneRepo *repository.LaneRepository, watchRepo *repository.WatchRepository, badgeRepo *repository.BadgeRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		laneRepo:    laneRepo,
		watchRepo:   watchRepo,
		badgeRepo:   badgeRepo,
	}
}

// CreateProfile creates a profile under an account. Child profiles get a
// generated 4-digit PIN; the plaintext PIN is returned exactly once so the
// parent can hand it to the child, only the hash is stored.
func (s *ProfileService) CreateProfile(accountID int64, name string, role models.Role, ageBracket models.AgeBracket, avatarColor string) (*models.Profile, string, error) {
	if name == "" {
		generated, err := credentials.GenerateDisplayName()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate profile name: %w", err)
		}
		name = generated
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, "", err
	}
	if !models.ValidRole(role) {
		return nil, "", fmt.Errorf("unknown profile role: %q", role)
	}
	if ageBracket == "" {
		ageBracket = models.DefaultAgeBracket
	}
	if !models.ValidAgeBracket(ageBracket) {
		return nil, "", fmt.Errorf("unknown age bracket: %q", ageBracket)
	}

	pin := ""
	pinHash := ""
	if role == models.RoleChild {
		generated, err := credentials.GeneratePIN()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate pin: %w", err)
		}
		hash, err := security.HashPIN(generated)
		if err != nil {
			return nil, "", fmt.Errorf("failed to hash pin: %w", err)
		}
		pin = generated
		pinHash = hash
	}

	profile, err := s.profileRepo.CreateProfile(accountID, name, role, pinHash, ageBracket, avatarColor)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, pin, nil
}

// GetProfile retrieves a profile by ID
func (s *ProfileService) GetProfile(profileID int64) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// GetAccountProfile retrieves a profile and verifies it belongs to the account
func (s *ProfileService) GetAccountProfile(accountID, profileID int64) (*models.Profile, error) {
	profile, err := s.GetProfile(profileID)
	if err != nil {
		return nil, err
	}
	if profile.AccountID != accountID {
		return nil, ErrNotAuthorized
	}
	return profile, nil
}

// ListProfiles returns all profiles under an account
func (s *ProfileService) ListProfiles(accountID int64) ([]models.Profile, error) {
	profiles, err := s.profileRepo.GetAccountProfiles(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// UpdateProfile updates a profile's name, age bracket and avatar color
func (s *ProfileService) UpdateProfile(accountID, profileID int64, name string, ageBracket models.AgeBracket, avatarColor string) (*models.Profile, error) {
	profile, err := s.GetAccountProfile(accountID, profileID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if !models.ValidAgeBracket(ageBracket) {
		return nil, fmt.Errorf("unknown age bracket: %q", ageBracket)
	}

	if err := s.profileRepo.UpdateProfile(profile.ID, name, ageBracket, avatarColor); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetProfile(profileID)
}

// RotatePIN generates a fresh PIN for a child profile and returns it
func (s *ProfileService) RotatePIN(accountID, profileID int64) (string, error) {
	profile, err := s.GetAccountProfile(accountID, profileID)
	if err != nil {
		return "", err
	}
	if profile.Role != models.RoleChild {
		return "", fmt.Errorf("profile %d is not a child profile", profileID)
	}

	pin, err := credentials.GeneratePIN()
	if err != nil {
		return "", fmt.Errorf("failed to generate pin: %w", err)
	}
	pinHash, err := security.HashPIN(pin)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}

	if err := s.profileRepo.UpdateProfilePIN(profile.ID, pinHash); err != nil {
		return "", fmt.Errorf("failed to update pin: %w", err)
	}

	return pin, nil
}

// DeleteProfile removes a profile and everything hanging off it
func (s *ProfileService) DeleteProfile(accountID, profileID int64) error {
	profile, err := s.GetAccountProfile(accountID, profileID)
	if err != nil {
		return err
	}

	lanes, err := s.laneRepo.GetProfileLanes(profile.ID)
	if err != nil {
		return fmt.Errorf("failed to list lanes: %w", err)
	}
	for _, lane := range lanes {
		if err := s.laneRepo.DeleteLane(lane.ID); err != nil {
			return fmt.Errorf("failed to delete lane %d: %w", lane.ID, err)
		}
	}

	if err := s.profileRepo.DeleteProfile(profile.ID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// GetProfileStats summarizes a profile's activity for the parent dashboard
func (s *ProfileService) GetProfileStats(accountID, profileID int64) (*models.ProfileStats, error) {
	profile, err := s.GetAccountProfile(accountID, profileID)
	if err != nil {
		return nil, err
	}

	laneCount, err := s.laneRepo.CountProfileLanes(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lanes: %w", err)
	}
	completedCount, err := s.watchRepo.CountCompleted(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed items: %w", err)
	}
	badgeCount, err := s.badgeRepo.CountProfileBadges(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count badges: %w", err)
	}

	return &models.ProfileStats{
		Profile:        *profile,
		LaneCount:      laneCount,
		CompletedCount: completedCount,
		BadgeCount:     badgeCount,
	}, nil
}
