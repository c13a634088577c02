package domain

import "time"

// User represents an authenticated user. GitHubID is the external identity;
// the remaining profile fields are a snapshot refreshed on every login.
type User struct {
	ID        int64     `json:"id" db:"id"`
	GitHubID  int64     `json:"github_id" db:"github_id"`
	Username  string    `json:"username" db:"username"`
	Email     *string   `json:"email,omitempty" db:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	Name      *string   `json:"name,omitempty" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
