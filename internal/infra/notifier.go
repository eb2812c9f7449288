package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Notifier publishes catalog/ledger change events over Redis pub/sub so
// other open dashboards can refresh their read side. Delivery is
// best-effort: correctness never depends on it - finalize always re-reads
// live data.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// CambioEvent is the wire shape published on "cambios:{usuario_id}".
type CambioEvent struct {
	Entidad string `json:"entidad"` // "insumo" | "producto"
	ID      string `json:"id"`
	TS      int64  `json:"ts"`
}

func (n *Notifier) PublicarCambio(ctx context.Context, usuarioID uuid.UUID, entidad, id string) {
	if n == nil || n.rdb == nil {
		return
	}
	evt := CambioEvent{Entidad: entidad, ID: id, TS: time.Now().UnixMilli()}
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}
	channel := "cambios:" + usuarioID.String()
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		log.Debug().Str("channel", channel).Err(err).Msg("no se pudo publicar cambio")
	}
}
