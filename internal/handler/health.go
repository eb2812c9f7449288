package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
)

const healthTimeout = 3 * time.Second

// Health probes the dependencies a sale needs to commit. A degraded DB or
// Redis answers 503; the SMTP breaker state is informational only, since
// alerts are queued and retried.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		ok := true

		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
			ok = false
		}

		redisStatus := "connected"
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "error"
			ok = false
		}

		body := gin.H{
			"ok":    ok,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if mailer != nil {
			body["smtp_breaker"] = mailer.BreakerState().String()
		}

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
	}
}
