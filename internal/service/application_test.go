package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sohail/jobtracker/internal/domain"
	"github.com/sohail/jobtracker/internal/storage"
)

type mockAppStore struct {
	createFn func(ctx context.Context, app domain.Application) (*domain.Application, error)
	findFn   func(ctx context.Context, id, userID int64) (*domain.Application, error)
	updateFn func(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate) (*domain.Application, error)
	deleteFn func(ctx context.Context, id, userID int64) error

	creates int
	deletes int
}

func (m *mockAppStore) Create(ctx context.Context, app domain.Application) (*domain.Application, error) {
	m.creates++
	if m.createFn != nil {
		return m.createFn(ctx, app)
	}
	stored := app
	stored.ID = 1
	return &stored, nil
}

func (m *mockAppStore) ListByOwner(ctx context.Context, userID int64, skip, limit int) ([]domain.Application, error) {
	return nil, nil
}

func (m *mockAppStore) FindByID(ctx context.Context, id, userID int64) (*domain.Application, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAppStore) Update(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate) (*domain.Application, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, userID, upd)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAppStore) Delete(ctx context.Context, id, userID int64) error {
	m.deletes++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

type mockBlobStore struct {
	uploadFn func(ctx context.Context, file io.Reader, folder string) (*storage.UploadResult, error)
	deleteFn func(ctx context.Context, publicID string) error

	uploads []string
	deleted []string
}

func (m *mockBlobStore) Upload(ctx context.Context, file io.Reader, folder string) (*storage.UploadResult, error) {
	m.uploads = append(m.uploads, folder)
	if m.uploadFn != nil {
		return m.uploadFn(ctx, file, folder)
	}
	return &storage.UploadResult{PublicID: "new123", URL: "https://cdn.example.com/new123.png"}, nil
}

func (m *mockBlobStore) Delete(ctx context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, publicID)
	}
	return nil
}

func testPhoto() io.Reader {
	return strings.NewReader("fake image bytes")
}

func testInput() CreateApplicationInput {
	return CreateApplicationInput{
		CompanyName:    "Acme",
		DateOfApplying: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestCreate_WithoutPhoto(t *testing.T) {
	apps := &mockAppStore{}
	blobs := &mockBlobStore{}
	svc := NewApplicationService(apps, blobs)

	app, err := svc.Create(context.Background(), 7, testInput(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.Status != domain.StatusPending {
		t.Errorf("Status = %q, want default Pending", app.Status)
	}
	if app.PhotoPublicID != nil || app.PhotoURL != nil {
		t.Errorf("photo fields = (%v, %v), want nil", app.PhotoPublicID, app.PhotoURL)
	}
	if len(blobs.uploads) != 0 {
		t.Errorf("uploads = %d, want 0", len(blobs.uploads))
	}
}

func TestCreate_UploadsBeforePersisting(t *testing.T) {
	blobs := &mockBlobStore{}
	apps := &mockAppStore{}
	apps.createFn = func(ctx context.Context, app domain.Application) (*domain.Application, error) {
		// By the time the record is written the blob must already exist.
		if len(blobs.uploads) != 1 {
			t.Errorf("record written before upload (uploads = %d)", len(blobs.uploads))
		}
		if app.PhotoPublicID == nil || *app.PhotoPublicID != "new123" {
			t.Errorf("PhotoPublicID = %v, want new123", app.PhotoPublicID)
		}
		stored := app
		stored.ID = 1
		return &stored, nil
	}
	svc := NewApplicationService(apps, blobs)

	app, err := svc.Create(context.Background(), 7, testInput(), testPhoto())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.PhotoURL == nil || *app.PhotoURL != "https://cdn.example.com/new123.png" {
		t.Errorf("PhotoURL = %v, want upload URL", app.PhotoURL)
	}
}

func TestCreate_UploadFailureAbortsWrite(t *testing.T) {
	apps := &mockAppStore{}
	blobs := &mockBlobStore{
		uploadFn: func(ctx context.Context, file io.Reader, folder string) (*storage.UploadResult, error) {
			return nil, errors.New("blob store down")
		},
	}
	svc := NewApplicationService(apps, blobs)

	_, err := svc.Create(context.Background(), 7, testInput(), testPhoto())
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}
	if apps.creates != 0 {
		t.Errorf("creates = %d, want 0 (record must not be persisted without its attachment)", apps.creates)
	}
}

func TestCreate_InvalidStatus(t *testing.T) {
	svc := NewApplicationService(&mockAppStore{}, &mockBlobStore{})

	in := testInput()
	in.Status = "Ghosted"
	_, err := svc.Create(context.Background(), 7, in, nil)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func existingApp(photoID string) *domain.Application {
	app := &domain.Application{
		ID:          5,
		UserID:      7,
		CompanyName: "Acme",
		Status:      domain.StatusPending,
	}
	if photoID != "" {
		url := "https://cdn.example.com/" + photoID + ".png"
		app.PhotoPublicID = &photoID
		app.PhotoURL = &url
	}
	return app
}

func TestUpdate_ReplacesPhotoAndCleansUpOld(t *testing.T) {
	blobs := &mockBlobStore{}
	apps := &mockAppStore{
		findFn: func(ctx context.Context, id, userID int64) (*domain.Application, error) {
			return existingApp("old123"), nil
		},
	}
	apps.updateFn = func(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate) (*domain.Application, error) {
		if upd.PhotoPublicID == nil || *upd.PhotoPublicID != "new123" {
			t.Errorf("update PhotoPublicID = %v, want new123", upd.PhotoPublicID)
		}
		// Old blob must not be deleted until the record points at the new one.
		if len(blobs.deleted) != 0 {
			t.Errorf("old blob deleted before record update")
		}
		updated := *existingApp("new123")
		return &updated, nil
	}
	svc := NewApplicationService(apps, blobs)

	app, err := svc.Update(context.Background(), 5, 7, domain.ApplicationUpdate{}, testPhoto())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if app.PhotoPublicID == nil || *app.PhotoPublicID != "new123" {
		t.Errorf("PhotoPublicID = %v, want new123", app.PhotoPublicID)
	}
	if len(blobs.deleted) != 1 || blobs.deleted[0] != "old123" {
		t.Errorf("deleted = %v, want [old123]", blobs.deleted)
	}
}

func TestUpdate_OldBlobDeleteFailureDoesNotFailUpdate(t *testing.T) {
	blobs := &mockBlobStore{
		deleteFn: func(ctx context.Context, publicID string) error {
			return errors.New("blob store down")
		},
	}
	apps := &mockAppStore{
		findFn: func(ctx context.Context, id, userID int64) (*domain.Application, error) {
			return existingApp("old123"), nil
		},
		updateFn: func(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate) (*domain.Application, error) {
			return existingApp("new123"), nil
		},
	}
	svc := NewApplicationService(apps, blobs)

	app, err := svc.Update(context.Background(), 5, 7, domain.ApplicationUpdate{}, testPhoto())
	if err != nil {
		t.Fatalf("Update: %v (cleanup failure must not propagate)", err)
	}
	if app.PhotoPublicID == nil || *app.PhotoPublicID != "new123" {
		t.Errorf("PhotoPublicID = %v, want new123", app.PhotoPublicID)
	}
	// The delete was attempted even though it failed.
	if len(blobs.deleted) != 1 || blobs.deleted[0] != "old123" {
		t.Errorf("deleted = %v, want [old123]", blobs.deleted)
	}
}

func TestUpdate_RecordFailureSkipsOldBlobCleanup(t *testing.T) {
	blobs := &mockBlobStore{}
	apps := &mockAppStore{
		findFn: func(ctx context.Context, id, userID int64) (*domain.Application, error) {
			return existingApp("old123"), nil
		},
		updateFn: func(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate) (*domain.Application, error) {
			return nil, errors.New("database down")
		},
	}
	svc := NewApplicationService(apps, blobs)

	_, err := svc.Update(context.Background(), 5, 7, domain.ApplicationUpdate{}, testPhoto())
	if err == nil {
		t.Fatal("expected error from failed record update")
	}
	// The record still references old123, so it must survive.
	if len(blobs.deleted) != 0 {
		t.Errorf("deleted = %v, want none", blobs.deleted)
	}
}

func TestUpdate_UploadFailureAbortsUpdate(t *testing.T) {
	updateCalled := false
	blobs := &mockBlobStore{
		uploadFn: func(ctx context.Context, file io.Reader, folder string) (*storage.UploadResult, error) {
			return nil, errors.New("blob store down")
		},
	}
	apps := &mockAppStore{
		findFn: func(ctx context.Context, id, userID int64) (*domain.Application, error) {
			return existingApp("old123"), nil
		},
		updateFn: func(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate) (*domain.Application, error) {
			updateCalled = true
			return existingApp("old123"), nil
		},
	}
	svc := NewApplicationService(apps, blobs)

	_, err := svc.Update(context.Background(), 5, 7, domain.ApplicationUpdate{}, testPhoto())
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}
	if updateCalled {
		t.Error("record updated despite failed upload")
	}
}

func TestUpdate_NoPhotoLeavesBlobStoreAlone(t *testing.T) {
	blobs := &mockBlobStore{}
	notes := "followed up by email"
	apps := &mockAppStore{
		findFn: func(ctx context.Context, id, userID int64) (*domain.Application, error) {
			return existingApp("old123"), nil
		},
		updateFn: func(ctx context.Context, id, userID int64, upd domain.ApplicationUpdate) (*domain.Application, error) {
			if upd.PhotoPublicID != nil || upd.PhotoURL != nil {
				t.Errorf("photo fields set on plain field update")
			}
			return existingApp("old123"), nil
		},
	}
	svc := NewApplicationService(apps, blobs)

	if _, err := svc.Update(context.Background(), 5, 7, domain.ApplicationUpdate{Notes: &notes}, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(blobs.uploads) != 0 || len(blobs.deleted) != 0 {
		t.Errorf("blob store touched: uploads=%v deleted=%v", blobs.uploads, blobs.deleted)
	}
}

func TestDelete_RemovesRecordEvenWhenBlobDeleteFails(t *testing.T) {
	blobs := &mockBlobStore{
		deleteFn: func(ctx context.Context, publicID string) error {
			return errors.New("blob store down")
		},
	}
	apps := &mockAppStore{
		findFn: func(ctx context.Context, id, userID int64) (*domain.Application, error) {
			return existingApp("old123"), nil
		},
	}
	svc := NewApplicationService(apps, blobs)

	if err := svc.Delete(context.Background(), 5, 7); err != nil {
		t.Fatalf("Delete: %v (blob failure must not block record deletion)", err)
	}
	if apps.deletes != 1 {
		t.Errorf("record deletes = %d, want 1", apps.deletes)
	}
	if len(blobs.deleted) != 1 || blobs.deleted[0] != "old123" {
		t.Errorf("blob deleted = %v, want [old123] (attempt is required)", blobs.deleted)
	}
}

func TestDelete_NotFound(t *testing.T) {
	blobs := &mockBlobStore{}
	apps := &mockAppStore{}
	svc := NewApplicationService(apps, blobs)

	if err := svc.Delete(context.Background(), 5, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(blobs.deleted) != 0 {
		t.Errorf("blob store touched for missing record")
	}
	if apps.deletes != 0 {
		t.Errorf("record delete attempted for missing record")
	}
}

func TestDelete_WithoutPhotoSkipsBlobStore(t *testing.T) {
	blobs := &mockBlobStore{}
	apps := &mockAppStore{
		findFn: func(ctx context.Context, id, userID int64) (*domain.Application, error) {
			return existingApp(""), nil
		},
	}
	svc := NewApplicationService(apps, blobs)

	if err := svc.Delete(context.Background(), 5, 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(blobs.deleted) != 0 {
		t.Errorf("blob delete attempted with no attachment")
	}
}
