package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hercules830/nexa-control-app-sub000/internal/config"
	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
	"github.com/hercules830/nexa-control-app-sub000/internal/router"
	"github.com/hercules830/nexa-control-app-sub000/internal/worker"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" {
		// JSON logs for production collectors
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// NewDatabase runs the schema migrations as part of opening the pool.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Async machinery: the alert worker pool plus the periodic low-stock
	// sweeper. Wired here (composition root) so the pool has full access
	// to repositories and SMTP.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	usuarioRepo := repository.NewUsuarioRepository(db)
	insumoRepo := repository.NewInsumoRepository(db)

	handlers := map[string]worker.Handler{
		"alerta_stock": worker.NewAlertaWorker(mailer, usuarioRepo, rdb, cfg.AlertTo),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	worker.StartAlertaCron(ctx, worker.AlertaCronConfig{
		InsumoRepo: insumoRepo,
		Dispatcher: dispatcher,
		Mailer:     mailer,
		RDB:        rdb,
	})

	r := router.New(cfg, db, rdb, mailer)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("nexa-control backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
