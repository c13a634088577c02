package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sohail/jobtracker/internal/domain"
)

const applicationColumns = `id, user_id, company_name, email_or_portal, link, link_type,
	date_of_applying, photo_public_id, photo_url, notes, status, created_at, updated_at`

// ApplicationRepository handles job application data access. Every query is
// filtered by user_id so a record owned by someone else behaves exactly like
// a missing one.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application. The owner comes from app.UserID, which
// callers stamp from the authenticated identity.
func (r *ApplicationRepository) Create(ctx context.Context, app domain.Application) (*domain.Application, error) {
	var result domain.Application
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO applications
		   (user_id, company_name, email_or_portal, link, link_type, date_of_applying,
		    photo_public_id, photo_url, notes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+applicationColumns,
		app.UserID, app.CompanyName, app.EmailOrPortal, app.Link, app.LinkType, app.DateOfApplying,
		app.PhotoPublicID, app.PhotoURL, app.Notes, app.Status,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return &result, nil
}

// ListByOwner returns the user's applications ordered by applied date,
// newest first, with offset pagination.
func (r *ApplicationRepository) ListByOwner(ctx context.Context, userID int64, skip, limit int) ([]domain.Application, error) {
	apps := []domain.Application{}
	err := r.db.SelectContext(ctx, &apps,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE user_id = $1
		 ORDER BY date_of_applying DESC
		 OFFSET $2 LIMIT $3`, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list applications for user %d: %w", userID, err)
	}
	return apps, nil
}

// FindByID retrieves a single application owned by the given user.
func (r *ApplicationRepository) FindByID(ctx context.Context, id, userID int64) (*domain.Application, error) {
	var app domain.Application
	err := r.db.GetContext(ctx, &app,
		`SELECT `+applicationColumns+`
		 FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find application %d: %w", id, err)
	}
	return &app, nil
}

// Update applies a partial update to an application owned by the given user.
// Only non-nil fields in upd are written; the rest keep their prior values.
func (r *ApplicationRepository) Update(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate) (*domain.Application, error) {
	if upd.Empty() {
		return r.FindByID(ctx, id, userID)
	}

	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.CompanyName != nil {
		set("company_name", *upd.CompanyName)
	}
	if upd.EmailOrPortal != nil {
		set("email_or_portal", *upd.EmailOrPortal)
	}
	if upd.Link != nil {
		set("link", *upd.Link)
	}
	if upd.LinkType != nil {
		set("link_type", *upd.LinkType)
	}
	if upd.DateOfApplying != nil {
		set("date_of_applying", *upd.DateOfApplying)
	}
	if upd.Notes != nil {
		set("notes", *upd.Notes)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.PhotoPublicID != nil {
		set("photo_public_id", *upd.PhotoPublicID)
	}
	if upd.PhotoURL != nil {
		set("photo_url", *upd.PhotoURL)
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(
		`UPDATE applications SET %s, updated_at = NOW()
		 WHERE id = $%d AND user_id = $%d
		 RETURNING `+applicationColumns,
		strings.Join(sets, ", "), len(args)-1, len(args))

	var result domain.Application
	err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update application %d: %w", id, err)
	}
	return &result, nil
}

// Delete removes an application owned by the given user.
func (r *ApplicationRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
