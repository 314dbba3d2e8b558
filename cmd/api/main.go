package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mdinsert/internal/config"
	"mdinsert/internal/http"
	"mdinsert/internal/insert"
	"mdinsert/internal/pipeline"
	"mdinsert/internal/service"
	"mdinsert/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Markdown arrives over the network, so inserts are confined to the base directory
	insertCfg := insert.Config{
		ParentPath: cfg.InsertParentPath,
		Path:       cfg.InsertPath,
		Priority:   cfg.InsertPriority,
	}
	reader, err := insert.NewRootReader(insert.New(insertCfg).BaseDir())
	if err != nil {
		log.Fatalf("Failed to open insert directory: %v", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	// Build the markdown pipeline: insert transform, then goldmark
	registry := pipeline.NewRegistry()
	transform := insert.New(insertCfg, insert.WithReader(reader), insert.WithLogger(logger))
	transform.Extend(registry)
	renderer := pipeline.NewRenderer(registry, pipeline.Options{
		Extensions: cfg.MarkdownExtensions,
		SafeMode:   cfg.MarkdownSafeMode,
	})
	slog.Info("Markdown pipeline initialized",
		"preprocessors", registry.Names(),
		"insert_base_dir", transform.BaseDir(),
		"extensions", cfg.MarkdownExtensions,
	)

	documentService := service.NewDocumentService(storage.NewDocumentRepo(db), renderer)

	// Create router with dependencies
	deps := &http.Deps{
		DocumentService: documentService,
		DB:              db,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	router := http.NewRouter(deps)

	addr := net.JoinHostPort(cfg.APIHost, cfg.APIPort)
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}()

	// Start API server
	slog.Info("Starting API server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
