package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cartflow/internal/config"
	"cartflow/internal/eventlog"
	cartHttp "cartflow/internal/handler/http"
	"cartflow/internal/order"
	"cartflow/internal/session"
	"cartflow/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().Str("addr", cfg.HTTPAddr).Str("data_dir", cfg.DataDir).Msg("Starting cartflow...")

	events, err := eventlog.New(filepath.Join(cfg.DataDir, "events.ndjson"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open event log")
	}
	store, err := user.NewStore(filepath.Join(cfg.DataDir, "users.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open user store")
	}
	archive, err := order.NewArchive(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open order archive")
	}

	users := user.NewService(store)
	sessions := session.NewManager(cfg.SessionTTL)
	handler := cartHttp.NewHandler(sessions, users, archive, events)
	router := cartHttp.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("addr", cfg.HTTPAddr).Msg("HTTP server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Cartflow stopped gracefully.")
}
