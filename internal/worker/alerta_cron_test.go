//go:build integration

package worker

// Integration tests for the sweep's cooldown pre-check against a real
// Redis. Run with: go test -tags integration ./internal/worker/... -v

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)
	return rdb
}

func TestEnCooldown_SaltaInsumosConCorreoReciente(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	const insumoID = "3f1c7a6e-0000-0000-0000-000000000001"
	require.NoError(t, rdb.Set(ctx, cooldownKey(insumoID), "1", time.Minute).Err())

	assert.True(t, enCooldown(ctx, rdb, insumoID))
	assert.False(t, enCooldown(ctx, rdb, "otro-insumo"))
}

func TestEnCooldown_SinRedisNoFiltra(t *testing.T) {
	assert.False(t, enCooldown(context.Background(), nil, "cualquiera"))
}
