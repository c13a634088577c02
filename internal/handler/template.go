package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sohail/jobtracker/internal/domain"
	"github.com/sohail/jobtracker/internal/service"
)

// TemplateHandler handles email template endpoints.
type TemplateHandler struct {
	templates *service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type createTemplateRequest struct {
	Name    string  `json:"name" validate:"required,max=150"`
	Subject *string `json:"subject" validate:"omitempty,max=200"`
	Body    *string `json:"body" validate:"omitempty,max=5000"`
}

type updateTemplateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=150"`
	Subject *string `json:"subject" validate:"omitempty,max=200"`
	Body    *string `json:"body" validate:"omitempty,max=5000"`
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req createTemplateRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tpl, err := h.templates.Create(c.Request().Context(), userID, req.Name, req.Subject, req.Body)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, tpl)
}

// List handles GET /api/templates.
func (h *TemplateHandler) List(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	tpls, err := h.templates.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, tpls)
}

// Get handles GET /api/templates/:id.
func (h *TemplateHandler) Get(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	tpl, err := h.templates.Get(c.Request().Context(), id, userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, tpl)
}

// Update handles PUT /api/templates/:id with a partial JSON body.
func (h *TemplateHandler) Update(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tpl, err := h.templates.Update(c.Request().Context(), id, userID, domain.EmailTemplateUpdate{
		Name:    req.Name,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, tpl)
}

// Delete handles DELETE /api/templates/:id.
func (h *TemplateHandler) Delete(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.templates.Delete(c.Request().Context(), id, userID); err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]string{"message": "template deleted"})
}
