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

	"github.com/arxplans/planscan/internal/api"
	"github.com/arxplans/planscan/pkg/config"
	"github.com/arxplans/planscan/pkg/llmvalidate"
	"github.com/arxplans/planscan/pkg/ocrprefilter"
	"github.com/arxplans/planscan/pkg/pipeline"
	"github.com/arxplans/planscan/pkg/rasterize"
	"github.com/arxplans/planscan/pkg/schedule"
	"github.com/arxplans/planscan/pkg/titleblock"
	"go.uber.org/zap"
)

const version = "0.1.0"

const (
	shutdownGrace     = 15 * time.Second
	llmRequestTimeout = 90 * time.Second
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(logger); err != nil {
		logger.Fatal("planserver exited with error", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Info("configuration loaded",
		zap.Int("tile_size_px", cfg.TileSizePx),
		zap.Float64("tile_overlap", cfg.TileOverlap),
		zap.Int("stage2_batch_size", cfg.Stage2BatchSize),
		zap.Int("stage2_concurrency", cfg.Stage2Concurrency),
		zap.String("openrouter_model", cfg.OpenRouterModel),
	)

	ocrEngine := ocrprefilter.NewSerializedEngine(ocrprefilter.NewTesseractEngine())

	var llmClient *llmvalidate.Client
	if cfg.OpenRouterAPIKey != "" {
		llmClient = llmvalidate.NewClient(
			&http.Client{Timeout: llmRequestTimeout},
			"https://openrouter.ai/api/v1",
			cfg.OpenRouterAPIKey,
			cfg.OpenRouterModel,
			4096,
			nil,
		)
	} else {
		logger.Warn("OPENROUTER_API_KEY not set; Stage 2 LLM validation is disabled")
	}

	p := &pipeline.Pipeline{
		OCREngine:         ocrEngine,
		LLMClient:         llmClient,
		TileSize:          cfg.TileSizePx,
		TileOverlap:       cfg.TileOverlap,
		Stage2BatchSize:   cfg.Stage2BatchSize,
		Stage2Concurrency: cfg.Stage2Concurrency,
		Logger:            logger,
	}

	renderer := &rasterize.PDFCPURenderer{RendererCommand: cfg.RendererCommand}

	srv := api.NewServer(api.Deps{
		Pipeline:       p,
		TitleblockExtr: &titleblock.Handler{OCR: ocrEngine},
		ScheduleDetect: &schedule.Detector{},
		Renderer:       renderer,
		RenderDPI:      cfg.RenderDPI,
		HTTPClient:     &http.Client{Timeout: 60 * time.Second},
		Logger:         logger,
	})

	// Stage 1/1.5 have no model weights to warm, but marking ready only
	// after construction matches spec.md §4.F's "pre-load detector state at
	// startup; return 503 until ready" without a separate load step to await.
	srv.MarkReady()

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.NewRouter(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("planserver listening", zap.String("addr", cfg.ListenAddr), zap.String("version", version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
