package service

import (
	"context"

	"github.com/sohail/jobtracker/internal/domain"
)

// TemplateStore defines the template data access interface consumed by
// TemplateService.
type TemplateStore interface {
	Create(ctx context.Context, tpl domain.EmailTemplate) (*domain.EmailTemplate, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.EmailTemplate, error)
	FindByID(ctx context.Context, id, userID int64) (*domain.EmailTemplate, error)
	Update(ctx context.Context, id, userID int64, upd domain.EmailTemplateUpdate) (*domain.EmailTemplate, error)
	Delete(ctx context.Context, id, userID int64) error
}

// TemplateService handles email template CRUD scoped to the caller.
type TemplateService struct {
	templates TemplateStore
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templates TemplateStore) *TemplateService {
	return &TemplateService{templates: templates}
}

// Create persists a new template for the caller.
func (s *TemplateService) Create(ctx context.Context, userID int64, name string, subject, body *string) (*domain.EmailTemplate, error) {
	return s.templates.Create(ctx, domain.EmailTemplate{
		UserID:  userID,
		Name:    name,
		Subject: subject,
		Body:    body,
	})
}

// List returns the caller's templates, newest first.
func (s *TemplateService) List(ctx context.Context, userID int64) ([]domain.EmailTemplate, error) {
	return s.templates.ListByOwner(ctx, userID)
}

// Get retrieves one of the caller's templates.
func (s *TemplateService) Get(ctx context.Context, id, userID int64) (*domain.EmailTemplate, error) {
	return s.templates.FindByID(ctx, id, userID)
}

// Update applies a partial update to one of the caller's templates.
func (s *TemplateService) Update(ctx context.Context, id, userID int64, upd domain.EmailTemplateUpdate) (*domain.EmailTemplate, error) {
	return s.templates.Update(ctx, id, userID, upd)
}

// Delete removes one of the caller's templates.
func (s *TemplateService) Delete(ctx context.Context, id, userID int64) error {
	return s.templates.Delete(ctx, id, userID)
}
