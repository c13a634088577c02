package handler

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/sohail/jobtracker/internal/domain"
	"github.com/sohail/jobtracker/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth        *service.AuthService
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{auth: auth, frontendURL: frontendURL}
}

// GitHubURL returns the GitHub OAuth consent URL for the frontend to open.
func (h *AuthHandler) GitHubURL(c echo.Context) error {
	return JSON(c, http.StatusOK, map[string]string{
		"auth_url": h.auth.AuthURL(generateState()),
	})
}

// GitHubCallback handles the OAuth callback from GitHub and redirects to the
// frontend with the session token.
func (h *AuthHandler) GitHubCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return fmt.Errorf("%w: missing code parameter", domain.ErrInvalidInput)
	}

	_, token, err := h.auth.Login(c.Request().Context(), code)
	if err != nil {
		return err
	}

	redirect := h.frontendURL + "/auth/success?token=" + url.QueryEscape(token)
	return c.Redirect(http.StatusFound, redirect)
}

type loginRequest struct {
	Code string `json:"code" validate:"required"`
}

// Login exchanges an authorization code for a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Code)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Me returns the currently authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	user, err := h.auth.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, user)
}

// Logout acknowledges a logout. Session tokens are stateless, so removal
// happens client side.
func (h *AuthHandler) Logout(c echo.Context) error {
	return JSON(c, http.StatusOK, map[string]string{"message": "logged out"})
}

func generateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "fallback-state"
	}
	return base64.URLEncoding.EncodeToString(b)
}
