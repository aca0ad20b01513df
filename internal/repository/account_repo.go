package repository

import (
	"database/sql"
	"fmt"
	"time"

	"kidlanes/internal/database"
	"kidlanes/internal/models"
)

// AccountRepository handles database operations for parent accounts and sessions
type AccountRepository struct {
	db *database.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount creates a new password-based account
func (r *AccountRepository) CreateAccount(email, passwordHash, name string) (*models.Account, error) {
	query := "INSERT INTO accounts (email, password_hash, name) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &models.Account{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// CreateOAuthAccount creates an account backed by an OAuth identity
func (r *AccountRepository) CreateOAuthAccount(email, name, provider, subject string) (*models.Account, error) {
	query := "INSERT INTO accounts (email, name, oauth_provider, oauth_subject) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, email, name, provider, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth account: %w", err)
	}

	return &models.Account{
		ID:            id,
		Email:         email,
		Name:          name,
		OAuthProvider: provider,
		OAuthSubject:  subject,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}, nil
}

const accountColumns = "id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at"

func scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Name,
		&account.OAuthProvider,
		&account.OAuthSubject,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return account, nil
}

// GetAccountByID retrieves an account by ID, or nil if none exists
func (r *AccountRepository) GetAccountByID(id int64) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE id = ?"
	return scanAccount(r.db.QueryRow(query, id))
}

// GetAccountByEmail retrieves an account by email, or nil if none exists
func (r *AccountRepository) GetAccountByEmail(email string) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE email = ?"
	return scanAccount(r.db.QueryRow(query, email))
}

// GetAccountByOAuth retrieves an account by OAuth identity, or nil if none exists
func (r *AccountRepository) GetAccountByOAuth(provider, subject string) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE oauth_provider = ? AND oauth_subject = ?"
	return scanAccount(r.db.QueryRow(query, provider, subject))
}

// CreateSession creates a new session for an account
func (r *AccountRepository) CreateSession(sessionID string, accountID int64, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO sessions (id, account_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, sessionID, accountID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		AccountID: accountID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID, or nil if none exists
func (r *AccountRepository) GetSession(sessionID string) (*models.Session, error) {
	query := "SELECT id, account_id, expires_at, created_at FROM sessions WHERE id = ?"
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.AccountID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session
func (r *AccountRepository) DeleteSession(sessionID string) error {
	query := "DELETE FROM sessions WHERE id = ?"
	if _, err := r.db.Exec(query, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry
func (r *AccountRepository) DeleteExpiredSessions() error {
	query := "DELETE FROM sessions WHERE expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
