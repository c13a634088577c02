package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sohail/jobtracker/internal/domain"
)

// UserRepository handles user data access operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by their internal ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, github_id, username, email, avatar_url, name, created_at, updated_at
		 FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	return &user, nil
}

// Upsert creates a new user or refreshes the profile snapshot of an existing
// one, keyed on github_id. The unique constraint makes concurrent first
// logins for the same account converge on a single row.
func (r *UserRepository) Upsert(ctx context.Context, user domain.User) (*domain.User, error) {
	var result domain.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (github_id, username, email, avatar_url, name)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (github_id)
		 DO UPDATE SET username = EXCLUDED.username,
		               email = EXCLUDED.email,
		               avatar_url = EXCLUDED.avatar_url,
		               name = EXCLUDED.name,
		               updated_at = NOW()
		 RETURNING id, github_id, username, email, avatar_url, name, created_at, updated_at`,
		user.GitHubID, user.Username, user.Email, user.AvatarURL, user.Name,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &result, nil
}
