// internals/features/attendance/sessions/service/status_cache.go
package service

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	database "siagabencana_backend/internals/databases"
	"siagabencana_backend/internals/helpers/metrics"
)

const statusCacheKeyPrefix = "attendance:status:"

func statusCacheTTL() time.Duration {
	ttl := 5 * time.Second
	if raw := os.Getenv("ATTENDANCE_STATUS_CACHE_TTL_SECONDS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
	}
	return ttl
}

// GetCachedStatus mengembalikan payload JSON status sesi dari Redis.
// Redis mati/nonaktif dianggap miss — pemanggil jatuh ke DB.
func GetCachedStatus(ctx context.Context, token string) ([]byte, bool) {
	if database.RedisClient == nil {
		return nil, false
	}
	raw, err := database.RedisClient.Get(ctx, statusCacheKeyPrefix+token).Bytes()
	if err != nil {
		metrics.StatusCacheMisses.Inc()
		return nil, false
	}
	metrics.StatusCacheHits.Inc()
	return raw, true
}

func SetCachedStatus(ctx context.Context, token string, payload []byte) {
	if database.RedisClient == nil {
		return
	}
	if err := database.RedisClient.Set(ctx, statusCacheKeyPrefix+token, payload, statusCacheTTL()).Err(); err != nil {
		log.Printf("[CACHE] gagal set status %s: %v", token, err)
	}
}

// InvalidateStatusCache dipanggil setiap ada mark/end/expire supaya
// dashboard tidak membaca hitungan basi lebih lama dari perlu.
func InvalidateStatusCache(ctx context.Context, tokens ...string) {
	if database.RedisClient == nil || len(tokens) == 0 {
		return
	}
	keys := make([]string, 0, len(tokens))
	for _, t := range tokens {
		keys = append(keys, statusCacheKeyPrefix+t)
	}
	if err := database.RedisClient.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[CACHE] gagal invalidate status: %v", err)
	}
}
