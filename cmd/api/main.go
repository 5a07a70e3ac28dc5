package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Tomlord1122/todo-api/internal/auth"
	"github.com/Tomlord1122/todo-api/internal/config"
	"github.com/Tomlord1122/todo-api/internal/database"
	"github.com/Tomlord1122/todo-api/internal/repository"
	"github.com/Tomlord1122/todo-api/internal/server"
	"github.com/Tomlord1122/todo-api/internal/service"
)

func gracefulShutdown(apiServer *http.Server, app *server.Server, dbService database.Service, logger *slog.Logger, done chan<- struct{}) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}
	app.Close()

	if err := dbService.Close(); err != nil {
		logger.Error("closing database connection pool", slog.Any("error", err))
	}

	logger.Info("server exiting")
	close(done)
}

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// 1. Database pool and schema
	dbService, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("ensuring database schema")
	if err := dbService.Migrate(); err != nil {
		_ = dbService.Close()
		return err
	}

	// 2. Identity verifier
	kind, _ := cfg.CredentialsSource()
	logger.Info("initializing firebase admin sdk", slog.String("credentials", kind))
	verifier, err := auth.NewFirebaseVerifier(context.Background(), cfg)
	if err != nil {
		_ = dbService.Close()
		return err
	}

	// 3. Services over a per-request unit of work
	uow := repository.NewGormUnitOfWork(dbService.GetDB())
	todoService := service.NewTodoService(uow)
	categoryService := service.NewCategoryService(uow)

	// 4. HTTP server
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app := server.New(server.Deps{
		Config:     cfg,
		Todos:      todoService,
		Categories: categoryService,
		DB:         dbService,
		Verifier:   verifier,
		Registry:   registry,
		Logger:     logger,
	})
	apiServer := app.HTTPServer()

	done := make(chan struct{})
	go gracefulShutdown(apiServer, app, dbService, logger, done)

	logger.Info("starting server", slog.String("addr", apiServer.Addr))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	logger.Info("graceful shutdown complete")
	return nil
}
