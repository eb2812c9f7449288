package worker

// alerta_worker.go
// Processes low-stock alert jobs from QueueAlertas and mails the account
// owner. A Redis cooldown key keeps a busy insumo from generating one
// mail per sale.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
	"github.com/hercules830/nexa-control-app-sub000/internal/repository"
)

const (
	alertCooldown    = 6 * time.Hour
	maxAlertAttempts = 3
)

// AlertaStockPayload is the job envelope sent to QueueAlertas.
type AlertaStockPayload struct {
	InsumoID  string `json:"insumo_id"`
	UsuarioID string `json:"usuario_id"`
	Nombre    string `json:"nombre"`
	Stock     string `json:"stock"`
	Umbral    string `json:"umbral"`
	UnidadUso string `json:"unidad_uso"`
}

// AlertaWorker mails low-stock notifications. Delivery goes through the
// mailer's circuit breaker; after maxAlertAttempts the job lands in the DLQ.
type AlertaWorker struct {
	mailer      *infra.Mailer
	usuarioRepo repository.UsuarioRepository
	rdb         *redis.Client
	fallbackTo  string
}

func NewAlertaWorker(mailer *infra.Mailer, usuarioRepo repository.UsuarioRepository, rdb *redis.Client, fallbackTo string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, usuarioRepo: usuarioRepo, rdb: rdb, fallbackTo: fallbackTo}
}

// Process sends one low-stock mail, respecting the per-insumo cooldown.
func (w *AlertaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}

	if !w.acquireCooldown(ctx, payload.InsumoID) {
		log.Debug().Str("insumo", payload.Nombre).Msg("alerta_worker: cooldown active, skipping")
		return
	}

	to := w.resolveRecipient(ctx, payload.UsuarioID)
	if to == "" {
		log.Warn().Str("insumo", payload.Nombre).Msg("alerta_worker: no recipient configured, dropping")
		return
	}

	subject := fmt.Sprintf("Stock bajo: %s", payload.Nombre)
	body := fmt.Sprintf(
		"El insumo %q quedó en %s %s, por debajo del umbral de alerta (%s %s).\n\nReabastecé desde el panel de inventario.",
		payload.Nombre, payload.Stock, payload.UnidadUso, payload.Umbral, payload.UnidadUso,
	)

	err := withRetry(ctx, maxAlertAttempts, func(attempt int) error {
		if sendErr := w.mailer.Send(to, subject, body); sendErr != nil {
			log.Warn().Err(sendErr).Int("attempt", attempt+1).Str("insumo", payload.Nombre).
				Msg("alerta_worker: send failed, retrying")
			return sendErr
		}
		return nil
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueAlertas, "alerta_stock", raw,
			fmt.Sprintf("max retries (%d) exceeded: %s", maxAlertAttempts, err), maxAlertAttempts)
		// Release the cooldown so the next sale can re-trigger the alert
		w.rdb.Del(ctx, cooldownKey(payload.InsumoID))
		return
	}

	log.Info().Str("insumo", payload.Nombre).Str("to", to).Msg("alerta_worker: alert mail sent")
}

// acquireCooldown returns true when this worker won the SETNX race and
// should send the mail.
func (w *AlertaWorker) acquireCooldown(ctx context.Context, insumoID string) bool {
	if w.rdb == nil {
		return true
	}
	ok, err := w.rdb.SetNX(ctx, cooldownKey(insumoID), "1", alertCooldown).Result()
	if err != nil {
		// Redis trouble should not silence alerts
		return true
	}
	return ok
}

func cooldownKey(insumoID string) string {
	return "alerta:cooldown:" + insumoID
}

// resolveRecipient prefers the account owner's email, falling back to the
// ALERT_TO address from config.
func (w *AlertaWorker) resolveRecipient(ctx context.Context, usuarioID string) string {
	if w.usuarioRepo != nil {
		if id, err := uuid.Parse(usuarioID); err == nil {
			if u, err := w.usuarioRepo.FindByID(ctx, id); err == nil && u.Email != nil && *u.Email != "" {
				return *u.Email
			}
		}
	}
	return w.fallbackTo
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
