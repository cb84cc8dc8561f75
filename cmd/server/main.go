package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vn.io.arda/notice/internal/application"
	"vn.io.arda/notice/internal/config"
	"vn.io.arda/notice/internal/infrastructure/disk"
	"vn.io.arda/notice/internal/infrastructure/postgres"
	noticekafka "vn.io.arda/notice/internal/kafka"
	transporthttp "vn.io.arda/notice/internal/transport/http"
)

func main() {
	// ── Logging ──────────────────────────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ── Config ───────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting arda-notice")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres ping failed")
	}
	log.Info().Msg("postgres connected")

	// ── Repository, Blob Store & SSE Hub ─────────────────────────────────────
	repo := postgres.New(pool)
	blobs := disk.New(cfg.Storage.Dir)
	hub := transporthttp.NewHub()

	// ── Kafka Producer (optional) ─────────────────────────────────────────────
	var publisher application.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := noticekafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create kafka producer")
		}
		defer producer.Close()
		publisher = producer
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka producer started")
	}

	// ── Application Service ───────────────────────────────────────────────────
	views := application.NewViewCounter(repo)
	svc := application.NewService(repo, blobs, hub, publisher, views, cfg.Storage.Dir, cfg.Storage.StoreTimeout)

	// ── View Count Flush Job ──────────────────────────────────────────────────
	flushDone := make(chan struct{})
	go func() {
		defer close(flushDone)
		views.Run(ctx, cfg.Views.FlushInterval)
	}()
	log.Info().Dur("interval", cfg.Views.FlushInterval).Msg("view count flush job started")

	// ── HTTP Server ───────────────────────────────────────────────────────────
	handler := transporthttp.NewHandler(svc, hub, cfg.Storage.BaseURL)
	router := transporthttp.NewRouter(handler, cfg.Auth.Secret)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	// ── Graceful Shutdown ─────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Wait for the final view count flush so pending deltas are not lost.
	select {
	case <-flushDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("timed out waiting for final view count flush")
	}

	log.Info().Msg("arda-notice stopped")
}
