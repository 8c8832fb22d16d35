package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"poextract/internal/config"
	"poextract/internal/extraction"
	"poextract/internal/handler"
	"poextract/internal/llm"
	_ "poextract/internal/llm/claude"
	_ "poextract/internal/llm/oci"
	_ "poextract/internal/llm/openai"
	"poextract/internal/logger"
	"poextract/internal/pdftext"
	"poextract/internal/router"
	"poextract/internal/service"
	"poextract/internal/web"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "poextract:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Inference client
	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create inference client: %w", err)
	}

	// Pipeline
	loader := pdftext.NewLoader(log.Named("pdftext"))
	extractor := extraction.NewExtractor(client, extraction.Options{
		MaxTokens:   cfg.Inference.MaxTokens,
		Temperature: cfg.Inference.Temperature,
	}, log.Named("extraction"))
	extractionSvc := service.NewExtractionService(loader, extractor, cfg, log.Named("service"))

	// Handlers
	pages, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	extractionH := handler.NewExtractionHandler(extractionSvc, cfg.Upload.MaxBytes())
	healthH := handler.NewHealthHandler(client.Name(), cfg.ModelName())

	r := router.Setup(log.Named("http"), cfg.CORS.AllowedOrigins, pages, extractionH, healthH)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("provider", client.Name()),
			zap.String("model", cfg.ModelName()),
			zap.Bool("concurrent_extraction", cfg.Pipeline.ConcurrentExtraction),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
