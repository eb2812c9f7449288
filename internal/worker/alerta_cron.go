package worker

// alerta_cron.go
// Background goroutine that periodically re-scans inventory for insumos
// stuck at or below their alert threshold and re-enqueues alert jobs.
// Catches alerts lost to a full queue or a DLQ'd mail, and covers manual
// stock adjustments that never pass through the sale finalizer.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
)

const (
	sweepTickInterval = 10 * time.Minute
	sweepBatchSize    = 50
)

// AlertaCronConfig holds all dependencies for the sweep goroutine.
type AlertaCronConfig struct {
	InsumoRepo repository.InsumoRepository
	Dispatcher *Dispatcher
	Mailer     *infra.Mailer
	RDB        *redis.Client
}

// StartAlertaCron launches a background goroutine that ticks every 10min,
// queries low-stock insumos, and enqueues alert jobs. It respects the
// context for graceful shutdown.
func StartAlertaCron(ctx context.Context, cfg AlertaCronConfig) {
	go func() {
		ticker := time.NewTicker(sweepTickInterval)
		defer ticker.Stop()

		log.Info().Msg("alerta_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alerta_cron: shutting down")
				return
			case <-ticker.C:
				processSweep(ctx, cfg)
			}
		}
	}()
}

func processSweep(ctx context.Context, cfg AlertaCronConfig) {
	// If the breaker is open, skip entirely. The alert worker could not
	// deliver anything anyway.
	if cfg.Mailer != nil && cfg.Mailer.BreakerState() == infra.CBOpen {
		log.Debug().Msg("alerta_cron: circuit breaker is open, skipping tick")
		return
	}

	insumos, err := cfg.InsumoRepo.ListStockBajo(ctx, sweepBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("alerta_cron: failed to query low-stock insumos")
		return
	}
	if len(insumos) == 0 {
		return
	}

	log.Info().Int("count", len(insumos)).Msg("alerta_cron: enqueuing low-stock alerts")

	for i := range insumos {
		ins := &insumos[i]
		if enCooldown(ctx, cfg.RDB, ins.ID.String()) {
			continue
		}
		payload := AlertaStockPayload{
			InsumoID:  ins.ID.String(),
			UsuarioID: ins.UsuarioID.String(),
			Nombre:    ins.Nombre,
			Stock:     ins.StockUnidadUso.String(),
			Umbral:    ins.UmbralAlerta.String(),
			UnidadUso: ins.UnidadUso,
		}
		if err := cfg.Dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			log.Warn().Err(err).Str("insumo", ins.Nombre).Msg("alerta_cron: failed to enqueue alert")
		}
	}
}

// enCooldown reports whether a mail for this insumo already went out
// within the cooldown window. Skipping here keeps the queue free of jobs
// the worker would drop anyway. On a Redis error the job is enqueued and
// the worker's own cooldown check decides.
func enCooldown(ctx context.Context, rdb *redis.Client, insumoID string) bool {
	if rdb == nil {
		return false
	}
	n, err := rdb.Exists(ctx, cooldownKey(insumoID)).Result()
	if err != nil {
		log.Warn().Err(err).Msg("alerta_cron: cooldown check failed")
		return false
	}
	return n > 0
}
