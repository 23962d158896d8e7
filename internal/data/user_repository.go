package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for users and their profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const (
	insertUserQuery = `INSERT INTO users (username, email, password_hash, is_active, date_joined, oidc_issuer, oidc_subject)
	VALUES (:username, :email, :password_hash, :is_active, :date_joined, :oidc_issuer, :oidc_subject)`

	selectUserQuery = `SELECT id, username, email, password_hash, is_active, date_joined, oidc_issuer, oidc_subject FROM users`
)

// Insert stores a user on its own, without a profile.
func (r *UserRepository) Insert(ctx context.Context, user *User) error {
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}
	res, err := r.db.NamedExecContext(ctx, insertUserQuery, user)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return nil
}

// CreateWithProfile stores a user and its profile in one transaction. The
// profile's UserID is set to the new user's ID. Nothing is stored if either
// insert fails.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *User, profile *UserProfile) error {
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, insertUserQuery, user)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}

	profile.UserID = userID
	res, err = tx.NamedExecContext(ctx, `INSERT INTO user_profiles (user_id, website, picture) VALUES (:user_id, :website, :picture)`, profile)
	if err != nil {
		return fmt.Errorf("failed to insert user profile: %w", err)
	}
	profileID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read profile id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user registration: %w", err)
	}
	user.ID = userID
	profile.ID = profileID
	return nil
}

// GetByUsername finds a user by exact username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := r.db.Rebind(selectUserQuery + ` WHERE username = ?`)
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// GetByOIDCIdentity finds the user linked to an OIDC provider account.
func (r *UserRepository) GetByOIDCIdentity(ctx context.Context, issuer, subject string) (*User, error) {
	var user User
	query := r.db.Rebind(selectUserQuery + ` WHERE oidc_issuer = ? AND oidc_subject = ?`)
	if err := r.db.GetContext(ctx, &user, query, issuer, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user by oidc identity: %w", err)
	}
	return &user, nil
}

// GetProfileByUserID finds the profile attached to a user.
func (r *UserRepository) GetProfileByUserID(ctx context.Context, userID int64) (*UserProfile, error) {
	var profile UserProfile
	query := r.db.Rebind(`SELECT id, user_id, website, picture FROM user_profiles WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return &profile, nil
}
