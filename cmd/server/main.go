package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polyglot/config"
	"polyglot/internal/application"
	"polyglot/internal/infra/httpapi"
	"polyglot/internal/infra/openai"
	"polyglot/internal/infra/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log, cfg.Server.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	provider := openai.NewClientWithURL(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)

	audioStore, err := storage.NewAudioStore(cfg.Audio.Dir, parseDuration(cfg.Audio.Retention, 24*time.Hour, logger), logger)
	if err != nil {
		logger.Error("creating audio store", "error", err)
		os.Exit(1)
	}
	audioStore.StartCleanup(ctx, parseDuration(cfg.Audio.CleanupInterval, time.Hour, logger))

	prompts := application.NewPromptBuilder(cfg.Chat.HistoryWindow)
	store := application.NewConversationStore(cfg.Chat.MaxTurns)

	translator := application.NewTranslator(provider, prompts, logger)
	chat := application.NewChatService(store, prompts, provider, logger)
	voice := application.NewVoiceService(
		provider,
		provider,
		translator,
		audioStore,
		cfg.Audio.MaxSizeMB,
		cfg.Audio.Formats,
		cfg.Audio.DefaultVoice,
		logger,
	)

	api := httpapi.NewServer(translator, chat, voice, audioStore, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting translation API server",
			"addr", cfg.Server.Addr,
			"model", cfg.OpenAI.Model,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed, forcing close", "error", err)
		_ = server.Close()
	}
}

func parseDuration(value string, fallback time.Duration, logger *slog.Logger) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn("invalid duration, using default", "value", value, "default", fallback)
		return fallback
	}
	return d
}

func setupLogger(cfg config.LogConfig, debug bool) *slog.Logger {
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
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
