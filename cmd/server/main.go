package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/funchapp/funch-server/internal/config"
	"github.com/funchapp/funch-server/internal/repository/mongodb"
	"github.com/funchapp/funch-server/internal/scheduler"
	"github.com/funchapp/funch-server/internal/server/handlers"
	"github.com/funchapp/funch-server/internal/server/middleware"
	"github.com/funchapp/funch-server/internal/server/router"
	catalogsvc "github.com/funchapp/funch-server/internal/service/catalog"
	confirmsvc "github.com/funchapp/funch-server/internal/service/confirm"
	reconcilesvc "github.com/funchapp/funch-server/internal/service/reconcile"
	"github.com/funchapp/funch-server/pkg/clients/storage"
	"github.com/funchapp/funch-server/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	catalogSvc, err := catalogsvc.NewService(repo, baseLogger.Named("svc.catalog"))
	if err != nil {
		baseLogger.Fatal("failed to init menu catalogue", zap.Error(err))
	}

	engine := reconcilesvc.NewEngine(repo, repo, baseLogger.Named("svc.reconcile"))
	coordinator := confirmsvc.NewCoordinator(repo, repo, catalogSvc, baseLogger.Named("svc.confirm"))

	// Initialize object-store client for menu images
	var storageClient storage.Client
	if cfg.Storage.BaseURL != "" {
		storageClient = storage.NewClient(cfg.Storage)
		baseLogger.Info("image storage client enabled")
	} else {
		baseLogger.Warn("storage base url missing, menu image upload disabled")
	}

	auth := middleware.NewAuthenticator(cfg.Auth, baseLogger.Named("middleware.auth"))

	engineRouter := router.New(router.Handlers{
		Menus:     handlers.NewMenuHandler(catalogSvc, baseLogger.Named("handlers.menus")),
		Changes:   handlers.NewChangeHandler(engine, baseLogger.Named("handlers.changes")),
		Confirm:   handlers.NewConfirmHandler(coordinator, baseLogger.Named("handlers.confirm")),
		Originals: handlers.NewOriginalHandler(repo, catalogSvc, storageClient, baseLogger.Named("handlers.originals")),
	}, auth, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(cfg.Digest, repo, catalogSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engineRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
