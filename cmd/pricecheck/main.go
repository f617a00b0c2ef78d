package main

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

	"github.com/use-agent/pricecheck/api"
	"github.com/use-agent/pricecheck/cleaner"
	"github.com/use-agent/pricecheck/config"
	"github.com/use-agent/pricecheck/engine"
	"github.com/use-agent/pricecheck/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("pricecheck starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"engine", cfg.Fetch.Engine,
	)

	// ── 3. Fetch engine ─────────────────────────────────────────────
	eng, closeEngine, err := newEngine(cfg)
	if err != nil {
		slog.Error("failed to initialise fetch engine", "error", err)
		os.Exit(1)
	}
	defer closeEngine()
	eng = engine.NewPaced(eng, cfg.Fetch.UpstreamRPS, cfg.Fetch.UpstreamBurst)

	// ── 4. Sources + scraper ────────────────────────────────────────
	bing, err := scraper.NewBingSource(cfg.Sources.BingURL, cfg.Sources.BingMarket)
	if err != nil {
		slog.Error("invalid Bing source configuration", "error", err)
		os.Exit(1)
	}
	sc, err := scraper.New(scraper.Options{
		Engine:       eng,
		Sources:      []scraper.Source{bing},
		Cleaner:      cleaner.NewCleaner(cfg.Detail.MaxImages),
		FetchTimeout: cfg.Fetch.Timeout,
	})
	if err != nil {
		slog.Error("failed to initialise scraper", "error", err)
		os.Exit(1)
	}
	slog.Info("scraper ready", "platforms", sc.Platforms(), "engine", sc.EngineName())

	// ── 5. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(sc, cfg, time.Now())

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// closeEngine runs via defer and kills Chrome when the browser engine is in use.
	slog.Info("pricecheck stopped")
}

// newEngine builds the configured fetch engine and its cleanup func.
func newEngine(cfg *config.Config) (engine.Engine, func(), error) {
	switch cfg.Fetch.Engine {
	case "browser", "rod":
		rod, err := engine.NewRodEngine(cfg.Browser, cfg.Fetch)
		if err != nil {
			return nil, nil, err
		}
		return rod, rod.Close, nil
	case "http", "":
		httpEngine := engine.NewHTTPEngine(engine.HTTPOptions{
			Proxy:           cfg.Fetch.Proxy,
			RotateUserAgent: cfg.Fetch.RotateUserAgent,
		})
		return httpEngine, httpEngine.CloseIdleConnections, nil
	default:
		return nil, nil, fmt.Errorf("unknown fetch engine %q (want http or browser)", cfg.Fetch.Engine)
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
