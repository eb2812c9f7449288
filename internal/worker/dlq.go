package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that burn through their retries land on a dead letter list, one per
// source queue (dlq:{queue}), where an operator can inspect and requeue
// them by hand.

const DLQPrefix = "dlq:"

// DLQEntry carries the failed payload plus enough context to diagnose it.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      time.Time       `json:"failed_at"`
	Attempts      int             `json:"attempts"`
}

// SendToDLQ parks a failed job. Best-effort: a DLQ write that itself fails
// is logged and dropped, never bubbled up to the worker loop.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC(),
		Attempts:      attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: no se pudo serializar la entrada")
		return
	}

	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: no se pudo encolar la entrada")
		return
	}

	log.Warn().Str("queue", queue).Str("job_type", jobType).
		Str("reason", reason).Int("attempts", attempts).
		Msg("dlq: job descartado tras agotar reintentos")
}

// DLQLength reports the backlog of one dead letter list.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
