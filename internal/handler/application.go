package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sohail/jobtracker/internal/domain"
	"github.com/sohail/jobtracker/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ApplicationHandler handles job application endpoints. Create and update
// accept multipart form data so a photo can ride along with the fields.
type ApplicationHandler struct {
	apps *service.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(apps *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

// Create handles POST /api/applications.
func (h *ApplicationHandler) Create(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	form, err := c.FormParams()
	if err != nil {
		return fmt.Errorf("%w: invalid form data", domain.ErrInvalidInput)
	}

	companyName := form.Get("company_name")
	if companyName == "" {
		return &domain.ValidationError{Field: "company_name", Message: "is required"}
	}
	if len(companyName) > 100 {
		return &domain.ValidationError{Field: "company_name", Message: "must be at most 100 characters"}
	}

	dateRaw := form.Get("date_of_applying")
	if dateRaw == "" {
		return &domain.ValidationError{Field: "date_of_applying", Message: "is required"}
	}
	date, err := parseDate(dateRaw)
	if err != nil {
		return err
	}

	emailOrPortal, err := optionalFormValue(form, "email_or_portal", 200)
	if err != nil {
		return err
	}
	link, err := optionalFormValue(form, "link", 500)
	if err != nil {
		return err
	}
	linkType, err := optionalFormValue(form, "link_type", 50)
	if err != nil {
		return err
	}
	notes, err := optionalFormValue(form, "notes", 1000)
	if err != nil {
		return err
	}

	in := service.CreateApplicationInput{
		CompanyName:    companyName,
		EmailOrPortal:  emailOrPortal,
		Link:           link,
		LinkType:       linkType,
		DateOfApplying: date,
		Notes:          notes,
		Status:         domain.ApplicationStatus(form.Get("status")),
	}

	photo, cleanup, err := openPhoto(c)
	if err != nil {
		return err
	}
	defer cleanup()

	app, err := h.apps.Create(c.Request().Context(), userID, in, photo)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, app)
}

// List handles GET /api/applications?skip&limit.
func (h *ApplicationHandler) List(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil {
		return err
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	apps, err := h.apps.List(c.Request().Context(), userID, skip, limit)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, apps)
}

// Get handles GET /api/applications/:id.
func (h *ApplicationHandler) Get(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	app, err := h.apps.Get(c.Request().Context(), id, userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, app)
}

// Update handles PUT /api/applications/:id. Only fields present in the form
// are modified; a photo, if supplied, replaces the existing one.
func (h *ApplicationHandler) Update(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	form, err := c.FormParams()
	if err != nil {
		return fmt.Errorf("%w: invalid form data", domain.ErrInvalidInput)
	}

	var upd domain.ApplicationUpdate
	if v, ok := presentFormValue(form, "company_name"); ok {
		if v == "" {
			return &domain.ValidationError{Field: "company_name", Message: "must not be empty"}
		}
		if len(v) > 100 {
			return &domain.ValidationError{Field: "company_name", Message: "must be at most 100 characters"}
		}
		upd.CompanyName = &v
	}
	if v, ok := presentFormValue(form, "email_or_portal"); ok {
		if len(v) > 200 {
			return &domain.ValidationError{Field: "email_or_portal", Message: "must be at most 200 characters"}
		}
		upd.EmailOrPortal = &v
	}
	if v, ok := presentFormValue(form, "link"); ok {
		if len(v) > 500 {
			return &domain.ValidationError{Field: "link", Message: "must be at most 500 characters"}
		}
		upd.Link = &v
	}
	if v, ok := presentFormValue(form, "link_type"); ok {
		if len(v) > 50 {
			return &domain.ValidationError{Field: "link_type", Message: "must be at most 50 characters"}
		}
		upd.LinkType = &v
	}
	if v, ok := presentFormValue(form, "date_of_applying"); ok {
		date, err := parseDate(v)
		if err != nil {
			return err
		}
		upd.DateOfApplying = &date
	}
	if v, ok := presentFormValue(form, "notes"); ok {
		if len(v) > 1000 {
			return &domain.ValidationError{Field: "notes", Message: "must be at most 1000 characters"}
		}
		upd.Notes = &v
	}
	if v, ok := presentFormValue(form, "status"); ok {
		status := domain.ApplicationStatus(v)
		upd.Status = &status
	}

	photo, cleanup, err := openPhoto(c)
	if err != nil {
		return err
	}
	defer cleanup()

	app, err := h.apps.Update(c.Request().Context(), id, userID, upd, photo)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, app)
}

// Delete handles DELETE /api/applications/:id.
func (h *ApplicationHandler) Delete(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.apps.Delete(c.Request().Context(), id, userID); err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]string{"message": "application deleted"})
}

// openPhoto returns a reader for the uploaded photo, or nil when the request
// carries none. The cleanup func is always safe to defer.
func openPhoto(c echo.Context) (multipart.File, func(), error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, fmt.Errorf("%w: invalid photo upload", domain.ErrInvalidInput)
	}
	file, err := fh.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("%w: open photo upload", domain.ErrInvalidInput)
	}
	return file, func() { file.Close() }, nil
}

// presentFormValue distinguishes an omitted field from one set to "".
func presentFormValue(form url.Values, key string) (string, bool) {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func optionalFormValue(form url.Values, key string, maxLen int) (*string, error) {
	v, ok := presentFormValue(form, key)
	if !ok || v == "" {
		return nil, nil
	}
	if len(v) > maxLen {
		return nil, &domain.ValidationError{Field: key, Message: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return &v, nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// The frontend sends bare date-times without an offset.
		t, err = time.Parse("2006-01-02T15:04:05", raw)
		if err != nil {
			return time.Time{}, &domain.ValidationError{Field: "date_of_applying", Message: "must be an RFC 3339 date-time"}
		}
	}
	return t, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

func queryInt(c echo.Context, name string, defaultValue int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Message: "must be an integer"}
	}
	return v, nil
}
