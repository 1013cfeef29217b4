// Package server initializes and runs the identity backend. It opens the
// database, applies migrations, wires the services and handlers, and starts
// the HTTP API with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nrednav/cuid2"

	"github.com/smolnikov/readhub/internal/logging"
	"github.com/smolnikov/readhub/internal/server/config"
	"github.com/smolnikov/readhub/internal/server/handlers"
	"github.com/smolnikov/readhub/internal/server/services"
	"github.com/smolnikov/readhub/internal/server/shared/db"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	manager  db.RepositoryManager
	handlers *handlers.Handlers
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := services.NewUserService(manager, cfg)
	ps := services.NewProfileService(manager)
	ms := services.NewMediaService(cfg)

	h := handlers.New(us, ps, ms, cfg, logger)

	return &App{config: cfg, logger: logger, manager: manager, handlers: h}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) newServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	e.Use(echoprometheus.NewMiddleware("identityd"))
	e.Use(middleware.Recover())

	app.handlers.Register(e)
	return e
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting identityd", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	if err := app.manager.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err.Error())
		return
	}

	server := app.newServer()

	metrics := echo.New()
	metrics.HideBanner = true
	metrics.GET("/metrics", echoprometheus.NewHandler())

	go func() {
		if err := metrics.Start(app.config.MetricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "metrics server stopped", "error", err.Error())
		}
	}()

	go func() {
		if err := server.Start(app.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "api server stopped", "error", err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "api shutdown error", "error", err.Error())
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "metrics shutdown error", "error", err.Error())
	}
	if err := app.manager.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err.Error())
	}

	app.logger.Info(context.Background(), "identityd stopped")
}
