package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sohail/jobtracker/internal/domain"
	"github.com/sohail/jobtracker/internal/storage"
)

// photoFolder is the blob store namespace for application photos.
const photoFolder = "job_tracker"

// ApplicationStore defines the application data access interface consumed by
// ApplicationService.
type ApplicationStore interface {
	Create(ctx context.Context, app domain.Application) (*domain.Application, error)
	ListByOwner(ctx context.Context, userID int64, skip, limit int) ([]domain.Application, error)
	FindByID(ctx context.Context, id, userID int64) (*domain.Application, error)
	Update(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate) (*domain.Application, error)
	Delete(ctx context.Context, id, userID int64) error
}

// CreateApplicationInput holds the fields for a new application.
type CreateApplicationInput struct {
	CompanyName    string
	EmailOrPortal  *string
	Link           *string
	LinkType       *string
	DateOfApplying time.Time
	Notes          *string
	Status         domain.ApplicationStatus
}

// ApplicationService orchestrates application CRUD and keeps each record's
// photo consistent with the blob store. The two stores share no transaction,
// so the service uploads before it persists a reference and treats orphaned
// blobs as the tolerable side of every partial failure: a record must never
// point at a blob that does not exist.
type ApplicationService struct {
	apps  ApplicationStore
	blobs storage.BlobStore
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(apps ApplicationStore, blobs storage.BlobStore) *ApplicationService {
	return &ApplicationService{apps: apps, blobs: blobs}
}

// Create persists a new application for the caller. When a photo is
// supplied it is uploaded first; the record is only written once the upload
// has succeeded, so a failed upload leaves the primary store untouched.
func (s *ApplicationService) Create(ctx context.Context, userID int64, in CreateApplicationInput, photo io.Reader) (*domain.Application, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}

	app := domain.Application{
		UserID:         userID,
		CompanyName:    in.CompanyName,
		EmailOrPortal:  in.EmailOrPortal,
		Link:           in.Link,
		LinkType:       in.LinkType,
		DateOfApplying: in.DateOfApplying,
		Notes:          in.Notes,
		Status:         status,
	}

	if photo != nil {
		result, err := s.blobs.Upload(ctx, photo, photoFolder)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		app.PhotoPublicID = &result.PublicID
		app.PhotoURL = &result.URL
	}

	created, err := s.apps.Create(ctx, app)
	if err != nil {
		// The uploaded blob is now orphaned. It is unreferenced and
		// invisible to users, so it is left for an external sweep.
		if app.PhotoPublicID != nil {
			slog.Warn("application insert failed after photo upload, blob orphaned",
				"public_id", *app.PhotoPublicID, "error", err)
		}
		return nil, err
	}
	return created, nil
}

// List returns a page of the caller's applications, newest applied first.
func (s *ApplicationService) List(ctx context.Context, userID int64, skip, limit int) ([]domain.Application, error) {
	return s.apps.ListByOwner(ctx, userID, skip, limit)
}

// Get retrieves one of the caller's applications.
func (s *ApplicationService) Get(ctx context.Context, id, userID int64) (*domain.Application, error) {
	return s.apps.FindByID(ctx, id, userID)
}

// Update applies a partial update. When a replacement photo is supplied the
// new blob is uploaded first, the record is updated to reference it, and
// only then is the old blob deleted. Old-blob deletion is best effort: a
// cleanup failure is logged and never fails the update.
func (s *ApplicationService) Update(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate, photo io.Reader) (*domain.Application, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *upd.Status)}
	}

	existing, err := s.apps.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	var oldPublicID string
	if photo != nil {
		result, err := s.blobs.Upload(ctx, photo, photoFolder)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		upd.PhotoPublicID = &result.PublicID
		upd.PhotoURL = &result.URL
		if existing.PhotoPublicID != nil {
			oldPublicID = *existing.PhotoPublicID
		}
	}

	updated, err := s.apps.Update(ctx, id, userID, upd)
	if err != nil {
		// The freshly uploaded replacement is orphaned; same policy as Create.
		if photo != nil && upd.PhotoPublicID != nil {
			slog.Warn("application update failed after photo upload, blob orphaned",
				"public_id", *upd.PhotoPublicID, "error", err)
		}
		return nil, err
	}

	if oldPublicID != "" {
		if err := s.blobs.Delete(ctx, oldPublicID); err != nil {
			slog.Warn("failed to delete replaced photo", "public_id", oldPublicID, "error", err)
		}
	}

	return updated, nil
}

// Delete removes one of the caller's applications. The photo blob, if any,
// is deleted best effort: once ownership and existence are confirmed, the
// record deletion proceeds regardless of the blob store's answer.
func (s *ApplicationService) Delete(ctx context.Context, id, userID int64) error {
	app, err := s.apps.FindByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if app.PhotoPublicID != nil {
		if err := s.blobs.Delete(ctx, *app.PhotoPublicID); err != nil {
			slog.Warn("failed to delete application photo", "public_id", *app.PhotoPublicID, "error", err)
		}
	}

	return s.apps.Delete(ctx, id, userID)
}
