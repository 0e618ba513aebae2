package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mysterygames/dialog-engine/internal/actions"
	"github.com/mysterygames/dialog-engine/internal/config"
	"github.com/mysterygames/dialog-engine/internal/content"
	"github.com/mysterygames/dialog-engine/internal/handlers"
	"github.com/mysterygames/dialog-engine/internal/logger"
	"github.com/mysterygames/dialog-engine/internal/messages"
	"github.com/mysterygames/dialog-engine/internal/middleware"
	"github.com/mysterygames/dialog-engine/internal/storage"
)

func main() {
	// optional local overrides; the environment is authoritative
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Dialog Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	repo, err := content.LoadDir(cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to load case content", "error", err, "dir", cfg.DataDir)
		os.Exit(1)
	}
	if len(repo.EnabledCases()) == 0 {
		log.Warn("No enabled cases loaded", "dir", cfg.DataDir)
	}

	store := storage.NewRedisStore(cfg.RedisURL, cfg.SessionTTL, log)
	storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storeCancel()

	if err := store.WaitForConnection(storeCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	renderer, err := messages.NewRenderer(log)
	if err != nil {
		log.Error("Failed to load message templates", "error", err)
		os.Exit(1)
	}

	engine := actions.NewEngine(repo, store, renderer, log)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, log))
	mux.Handle("/v1/turn", handlers.NewTurnHandler(engine, log))
	mux.Handle("/v1/cases", handlers.NewCasesHandler(repo, log))

	sessionHandler := handlers.NewSessionHandler(store, log)
	mux.Handle("/v1/sessions/", sessionHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
