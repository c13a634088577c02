package domain

import "time"

// ApplicationStatus represents the outcome state of a job application.
type ApplicationStatus string

const (
	StatusPending    ApplicationStatus = "Pending"
	StatusNotHiring  ApplicationStatus = "Not Hiring"
	StatusRejected   ApplicationStatus = "Rejected"
	StatusAccepted   ApplicationStatus = "Accepted"
	StatusFollowedUp ApplicationStatus = "Followed up"
)

// Valid reports whether s is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusNotHiring, StatusRejected, StatusAccepted, StatusFollowedUp:
		return true
	}
	return false
}

// Application represents a job application owned by a user. PhotoPublicID
// and PhotoURL reference an uploaded screenshot in the blob store; they are
// written only through the attachment flow, never by plain field updates.
type Application struct {
	ID             int64             `json:"id" db:"id"`
	UserID         int64             `json:"user_id" db:"user_id"`
	CompanyName    string            `json:"company_name" db:"company_name"`
	EmailOrPortal  *string           `json:"email_or_portal" db:"email_or_portal"`
	Link           *string           `json:"link" db:"link"`
	LinkType       *string           `json:"link_type" db:"link_type"`
	DateOfApplying time.Time         `json:"date_of_applying" db:"date_of_applying"`
	PhotoPublicID  *string           `json:"photo_public_id" db:"photo_public_id"`
	PhotoURL       *string           `json:"photo_url" db:"photo_url"`
	Notes          *string           `json:"notes" db:"notes"`
	Status         ApplicationStatus `json:"status" db:"status"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// ApplicationUpdate carries a partial update. Nil fields are left unchanged.
type ApplicationUpdate struct {
	CompanyName    *string
	EmailOrPortal  *string
	Link           *string
	LinkType       *string
	DateOfApplying *time.Time
	Notes          *string
	Status         *ApplicationStatus
	PhotoPublicID  *string
	PhotoURL       *string
}

// Empty reports whether the update would change nothing.
func (u ApplicationUpdate) Empty() bool {
	return u.CompanyName == nil && u.EmailOrPortal == nil && u.Link == nil && u.LinkType == nil &&
		u.DateOfApplying == nil && u.Notes == nil && u.Status == nil &&
		u.PhotoPublicID == nil && u.PhotoURL == nil
}
