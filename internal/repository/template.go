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

const templateColumns = `id, user_id, name, subject, body, created_at, updated_at`

// TemplateRepository handles email template data access with the same
// ownership scoping as applications.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts a new template for the given owner.
func (r *TemplateRepository) Create(ctx context.Context, tpl domain.EmailTemplate) (*domain.EmailTemplate, error) {
	var result domain.EmailTemplate
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO templates (user_id, name, subject, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+templateColumns,
		tpl.UserID, tpl.Name, tpl.Subject, tpl.Body,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return &result, nil
}

// ListByOwner returns the user's templates, newest first.
func (r *TemplateRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.EmailTemplate, error) {
	tpls := []domain.EmailTemplate{}
	err := r.db.SelectContext(ctx, &tpls,
		`SELECT `+templateColumns+`
		 FROM templates WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates for user %d: %w", userID, err)
	}
	return tpls, nil
}

// FindByID retrieves a single template owned by the given user.
func (r *TemplateRepository) FindByID(ctx context.Context, id, userID int64) (*domain.EmailTemplate, error) {
	var tpl domain.EmailTemplate
	err := r.db.GetContext(ctx, &tpl,
		`SELECT `+templateColumns+`
		 FROM templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find template %d: %w", id, err)
	}
	return &tpl, nil
}

// Update applies a partial update to a template owned by the given user.
func (r *TemplateRepository) Update(ctx context.Context, id, userID int64, upd domain.EmailTemplateUpdate) (*domain.EmailTemplate, error) {
	if upd.Empty() {
		return r.FindByID(ctx, id, userID)
	}

	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Subject != nil {
		set("subject", *upd.Subject)
	}
	if upd.Body != nil {
		set("body", *upd.Body)
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(
		`UPDATE templates SET %s, updated_at = NOW()
		 WHERE id = $%d AND user_id = $%d
		 RETURNING `+templateColumns,
		strings.Join(sets, ", "), len(args)-1, len(args))

	var result domain.EmailTemplate
	err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update template %d: %w", id, err)
	}
	return &result, nil
}

// Delete removes a template owned by the given user.
func (r *TemplateRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete template %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete template %d: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
