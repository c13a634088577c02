package domain

import "time"

// EmailTemplate represents a reusable outreach email owned by a user.
type EmailTemplate struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Subject   *string   `json:"subject" db:"subject"`
	Body      *string   `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EmailTemplateUpdate carries a partial update. Nil fields are left unchanged.
type EmailTemplateUpdate struct {
	Name    *string
	Subject *string
	Body    *string
}

// Empty reports whether the update would change nothing.
func (u EmailTemplateUpdate) Empty() bool {
	return u.Name == nil && u.Subject == nil && u.Body == nil
}
