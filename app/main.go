package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lysyi3m/flavor-watch/app/api"
	"github.com/lysyi3m/flavor-watch/app/cfg"
	"github.com/lysyi3m/flavor-watch/app/database"
	"github.com/lysyi3m/flavor-watch/app/feed"
	"github.com/lysyi3m/flavor-watch/app/flavor"
	"github.com/lysyi3m/flavor-watch/app/match"
	"github.com/lysyi3m/flavor-watch/app/notify"
	"github.com/lysyi3m/flavor-watch/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Flavor check failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		return err
	}
	if appCfg == nil {
		return nil
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Debug("Configuration loaded",
		"version", appCfg.Version,
		"config_file", appCfg.ConfigFile,
		"url", appCfg.ScrapeURL,
		"ntfy_server", appCfg.NtfyServer,
		"dry_run", appCfg.DryRun,
		"history_db", appCfg.HistoryDB)

	var notifier notify.Notifier = notify.NewNtfy(appCfg.NtfyServer, appCfg.UserAgent, appCfg.FetchTimeout)
	if appCfg.DryRun {
		notifier = notify.Discard{}
	}

	runner := &tasks.Runner{
		ConfigFile:    appCfg.ConfigFile,
		TopicOverride: appCfg.NtfyTopic,
		Source:        flavor.NewScraper(appCfg.ScrapeURL, appCfg.FetchTimeout, appCfg.UserAgent),
		Matcher:       match.NewMatcher(),
		Notifier:      notifier,
		Out:           os.Stdout,
	}

	if appCfg.HistoryDB != "" {
		db, err := database.NewConnection(appCfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()

		runner.History = database.NewRunRepository(db)
	}

	if appCfg.Serve {
		return serve(appCfg, runner)
	}

	_, err = runner.Run(context.Background())
	return err
}

func serve(appCfg *cfg.Cfg, runner *tasks.Runner) error {
	baseURL := strings.TrimSuffix(appCfg.BaseUrl, "/")
	if baseURL == "" {
		baseURL = "http://localhost:" + appCfg.Port
	}

	// Checks triggered over HTTP log progress instead of printing it.
	runner.Out = progressLog{}
	runner.Timeout = 2 * time.Minute

	generator := feed.NewGenerator(baseURL+"/feed", appCfg.ScrapeURL, appCfg.Version)
	handler := api.NewHandler(runner, runner.History, generator, appCfg.ScrapeURL, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port, "base_url", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	return serveErr
}

// progressLog forwards progress lines to the structured logger.
type progressLog struct{}

func (progressLog) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			slog.Info(line)
		}
	}
	return len(p), nil
}
