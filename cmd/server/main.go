package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sohail/jobtracker/internal/config"
	"github.com/sohail/jobtracker/internal/database"
	"github.com/sohail/jobtracker/internal/handler"
	"github.com/sohail/jobtracker/internal/repository"
	"github.com/sohail/jobtracker/internal/service"
	"github.com/sohail/jobtracker/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return err
	}

	slog.Info("database connected")

	blobs, err := storage.NewCloudinaryStore(cfg.CloudinaryURL)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	tplRepo := repository.NewTemplateRepository(db)

	authSvc := service.NewAuthService(userRepo, service.AuthConfig{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.GitHubRedirectURL,
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.JWTTTL,
	})
	appSvc := service.NewApplicationService(appRepo, blobs)
	tplSvc := service.NewTemplateService(tplRepo)

	authHandler := handler.NewAuthHandler(authSvc, cfg.FrontendURL)
	appHandler := handler.NewApplicationHandler(appSvc)
	tplHandler := handler.NewTemplateHandler(tplSvc)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Validator = handler.NewAppValidator()

	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.GET("/github", authHandler.GitHubURL)
	auth.GET("/github/callback", authHandler.GitHubCallback)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, handler.JWTAuth(authSvc))

	apps := api.Group("/applications", handler.JWTAuth(authSvc))
	apps.POST("", appHandler.Create)
	apps.GET("", appHandler.List)
	apps.GET("/:id", appHandler.Get)
	apps.PUT("/:id", appHandler.Update)
	apps.DELETE("/:id", appHandler.Delete)

	tpls := api.Group("/templates", handler.JWTAuth(authSvc))
	tpls.POST("", tplHandler.Create)
	tpls.GET("", tplHandler.List)
	tpls.GET("/:id", tplHandler.Get)
	tpls.PUT("/:id", tplHandler.Update)
	tpls.DELETE("/:id", tplHandler.Delete)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
