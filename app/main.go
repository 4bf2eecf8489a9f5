package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/arxiv-favorites/app/api"
	"github.com/lysyi3m/arxiv-favorites/app/cfg"
	"github.com/lysyi3m/arxiv-favorites/app/favorites"
	"github.com/lysyi3m/arxiv-favorites/app/stats"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting arXiv Favorites server", "version", appCfg.Version, "data_dir", appCfg.DataDir)
	if appCfg.APIKey == "" {
		slog.Warn("FAVORITES_API_KEY not set, favorites endpoints will fail closed")
	}

	appender := favorites.NewAppender(appCfg.DataDir)
	projector := favorites.NewProjector(appCfg.DataDir)

	refresher := stats.NewRefresher(projector, time.Duration(appCfg.RefreshInterval)*time.Second)
	refresher.Start()
	defer refresher.Stop()

	handler := api.NewHandler(appender, projector)
	server := api.NewServer(handler, appCfg.APIKey, appCfg.CORSOrigins)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
