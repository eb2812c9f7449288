package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hercules830/nexa-control-app-sub000/internal/apierror"
)

// rateEntry tracks request counts per IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	loginMap   = make(map[string]*rateEntry)
	loginMapMu sync.Mutex

	apiMap   = make(map[string]*rateEntry)
	apiMapMu sync.Mutex
)

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return limiter(loginMap, &loginMapMu, 20, time.Minute,
		"Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter is the general-purpose per-IP limiter for the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return limiter(apiMap, &apiMapMu, limit, window,
		"Demasiadas solicitudes. Intente nuevamente en un momento.")
}

func limiter(entries map[string]*rateEntry, mapMu *sync.Mutex, limit int, window time.Duration, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		mapMu.Lock()
		entry, exists := entries[ip]
		if !exists {
			entry = &rateEntry{}
			entries[ip] = entry
		}
		mapMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// Expired IPs are purged periodically so the maps never grow unbounded.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		purged := purgeMap(loginMap, &loginMapMu) + purgeMap(apiMap, &apiMapMu)
		if purged > 0 {
			log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
		}
	}
}

func purgeMap(entries map[string]*rateEntry, mapMu *sync.Mutex) int {
	now := time.Now()
	mapMu.Lock()
	defer mapMu.Unlock()

	purged := 0
	for ip, entry := range entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(entries, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged
}
