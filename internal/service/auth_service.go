package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kidlanes/internal/models"
	"kidlanes/internal/repository"
	"kidlanes/internal/security"
	"kidlanes/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPIN         = errors.New("invalid pin")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles parent authentication and child sign-in
type AuthService struct {
	accountRepo     *repository.AccountRepository
	profileRepo     *repository.ProfileRepository
	tokenIssuer     *security.ChildTokenIssuer
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(accountRepo *repository.AccountRepository, profileRepo *repository.ProfileRepository, tokenIssuer *security.ChildTokenIssuer, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		accountRepo:     accountRepo,
		profileRepo:     profileRepo,
		tokenIssuer:     tokenIssuer,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new parent account
func (s *AuthService) Register(email, password, name string) (*models.Account, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.GetAccountByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.accountRepo.CreateAccount(email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Login authenticates a parent and creates a session
func (s *AuthService) Login(email, password string) (*models.Session, *models.Account, error) {
	account, err := s.accountRepo.GetAccountByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, account.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	return s.createSession(account)
}

// OAuthLogin authenticates or creates an account using an OAuth provider
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.Account, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	account, err := s.accountRepo.GetAccountByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth account: %w", err)
	}

	if account == nil {
		existing, err := s.accountRepo.GetAccountByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing account: %w", err)
		}
		if existing != nil {
			// An email/password account with this address already exists;
			// don't silently merge identities.
			return nil, nil, ErrEmailTaken
		}
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		account, err = s.accountRepo.CreateOAuthAccount(email, name, provider, subject)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create oauth account: %w", err)
		}
	}

	return s.createSession(account)
}

func (s *AuthService) createSession(account *models.Account) (*models.Session, *models.Account, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.accountRepo.CreateSession(sessionID, account.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, account, nil
}

// ValidateSession checks if a session is valid and returns the associated account
func (s *AuthService) ValidateSession(sessionID string) (*models.Account, error) {
	session, err := s.accountRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.accountRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	account, err := s.accountRepo.GetAccountByID(session.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrSessionNotFound
	}

	return account, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.accountRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.accountRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// ChildLogin verifies a child profile's PIN and issues a short-lived token
func (s *AuthService) ChildLogin(profileID int64, pin string) (string, *models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByID(profileID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil || profile.Role != models.RoleChild || !profile.HasPIN() {
		return "", nil, ErrInvalidPIN
	}

	if !security.CheckPIN(pin, profile.PINHash) {
		return "", nil, ErrInvalidPIN
	}

	token, err := s.tokenIssuer.Issue(profile.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue child token: %w", err)
	}

	return token, profile, nil
}

// VerifyChildToken validates a child token and returns the profile it names
func (s *AuthService) VerifyChildToken(token string) (*models.Profile, error) {
	profileID, err := s.tokenIssuer.Verify(token)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetProfileByID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, security.ErrInvalidChildToken
	}

	return profile, nil
}
