package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/punyarb62/dsde-cctv/internal/config"
	"github.com/punyarb62/dsde-cctv/internal/database"
	"github.com/punyarb62/dsde-cctv/internal/logger"
	"github.com/punyarb62/dsde-cctv/internal/routes"
	"github.com/punyarb62/dsde-cctv/internal/services"
	"github.com/punyarb62/dsde-cctv/internal/services/detector"
	"github.com/punyarb62/dsde-cctv/internal/services/session"
	"github.com/punyarb62/dsde-cctv/internal/services/upstream"
	"github.com/punyarb62/dsde-cctv/internal/services/websocket"
)

type App struct {
	config  *config.Config
	logger  *logger.Logger
	db      *database.Database
	hub     *websocket.HubService
	manager *services.Manager
}

func NewApp() (*App, error) {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := database.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	client, err := upstream.New(cfg.BaseURL, cfg.UserAgent, cfg.Timeout(), log)
	if err != nil {
		return nil, err
	}

	var det detector.Detector
	switch cfg.Detector {
	case "luma":
		det = detector.NewLuma(cfg.PlaceholderThreshold)
	default:
		det = detector.NewMeanByte(cfg.PlaceholderThreshold)
	}

	sessions := session.NewStore(cfg.Rewarm(), cfg.SessionIdle())
	hub := websocket.NewHubService(log)
	manager := services.NewManager(sessions, client, det, hub, log)

	return &App{
		config:  cfg,
		logger:  log,
		db:      db,
		hub:     hub,
		manager: manager,
	}, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background services
	go a.hub.Run(ctx)
	go a.manager.Run(ctx)

	router := routes.SetupRoutes(a.manager, a.db, a.hub, a.config, a.logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown: %v", err)
		}
	}()

	count, err := a.db.CountCameras()
	if err != nil {
		return err
	}

	a.logger.Info("snapshot relay listening on :%d", a.config.Port)
	a.logger.Info("upstream portal: %s (rewarm %ds, timeout %ds)",
		a.config.BaseURL, a.config.RewarmSeconds, a.config.TimeoutSeconds)
	a.logger.Info("%d camera(s) in metadata store, detector: %s", count, a.config.Detector)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database: %v", err)
	}
	a.logger.Close()
	return nil
}
