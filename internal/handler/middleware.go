package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sohail/jobtracker/internal/domain"
	"github.com/sohail/jobtracker/internal/service"
)

const contextKeyUserID = "user_id"

// RequestLogger logs each request with structured fields, including the
// authenticated user when one was resolved.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			attrs := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			}
			if userID, ok := GetUserID(c); ok {
				attrs = append(attrs, "user_id", userID)
			}
			slog.Info("http request", attrs...)

			return err
		}
	}
}

// JWTAuth resolves the caller's identity from the Authorization header and
// stores it in the request context. Requests without a valid Bearer token
// are rejected before any handler or store is reached.
func JWTAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				return domain.ErrUnauthorized
			}

			userID, err := auth.ValidateToken(raw)
			if err != nil {
				return domain.ErrUnauthorized
			}

			c.Set(contextKeyUserID, userID)
			return next(c)
		}
	}
}

// GetUserID extracts the authenticated user ID from echo context.
func GetUserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(contextKeyUserID).(int64)
	return id, ok
}
