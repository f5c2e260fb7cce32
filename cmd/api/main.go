package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/finance-assistant/internal/api"
	"github.com/dvloznov/finance-assistant/internal/chat"
	"github.com/dvloznov/finance-assistant/internal/config"
	"github.com/dvloznov/finance-assistant/internal/llm"
	"github.com/dvloznov/finance-assistant/internal/logger"
	"github.com/dvloznov/finance-assistant/internal/store"
)

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg := config.Load()

	// Parse command-line flags
	var (
		port     = flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
		logLevel = flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error (or set LOG_LEVEL env)")
	)
	flag.Parse()
	cfg.Port = *port
	cfg.LogLevel = *logLevel

	// Initialize logger
	log := logger.NewWithLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("No GEMINI_API_KEY configured - chatbot answers will report the missing key")
	}

	ctx := logger.WithContext(context.Background(), log)

	// Initialize the dataset and the generative client
	st := store.New()

	transport, err := llm.NewTransport(ctx, cfg.LLM(), &http.Client{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LLM transport")
	}
	client := llm.NewClient(cfg.LLM(), transport)

	handler := api.NewRouter(st, chat.NewService(st, client), api.Options{
		CORSOrigins:       cfg.CORSOrigins,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		ChatRatePerMinute: cfg.ChatRatePerMinute,
	}, log)

	// Create HTTP server. WriteTimeout covers the LLM retry budget.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("model", cfg.GeminiModel).
			Str("transport", cfg.GeminiTransport).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
