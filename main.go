package main

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

	"github.com/giygas/hospital-api/config"
	"github.com/giygas/hospital-api/data"
	"github.com/giygas/hospital-api/handlers"
	"github.com/giygas/hospital-api/health"
	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/logging"
	"github.com/giygas/hospital-api/protocols"
	"github.com/giygas/hospital-api/scheduler"
	"github.com/giygas/hospital-api/server"
	"github.com/giygas/hospital-api/services"
	"github.com/giygas/hospital-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions(logging.Options{
		LogDir:         cfg.LogDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer logging.DefaultLoggingService.Close()

	container := data.NewCatalogContainer()
	container.SetServerStartTime(time.Now())

	validator := validation.NewCatalogValidator()
	loader := protocols.NewLoader(cfg.ProtocolsURL, cfg.ProtocolsFile, 30*time.Second)

	// Initial load happens inside Start; the embedded catalog guarantees it succeeds
	reloader := scheduler.NewScheduler(container, loader, validator, cfg.ProtocolsReloadInterval)
	if err := reloader.Start(); err != nil {
		logging.Error("Failed to start catalog scheduler", "error", err)
		os.Exit(1)
	}
	defer reloader.Stop()

	var hospital *services.Services
	if cfg.HospitalAPIEnabled() {
		hospital = services.New(hmsclient.NewClient(cfg.HospitalAPIURL, cfg.HospitalAPITimeout))
		logging.Info("Hospital API forwarding enabled", "url", cfg.HospitalAPIURL)
	} else {
		logging.Warn("HMS_API_URL not set, prescription submission and pricing are disabled")
	}

	handler := handlers.NewHTTPHandler(container, validator,
		health.NewHealthChecker(container, cfg.ProtocolsReloadInterval), hospital)
	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	sig := <-quit
	logging.Info("Received shutdown signal", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown failed", "error", err)
	}
}

// loadEnv reads .env from the working directory, falling back to the
// executable's directory
func loadEnv() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		return
	}
	// Environment variables alone are a valid setup
	_ = godotenv.Load(filepath.Join(filepath.Dir(ex), ".env"))
}
