// internals/features/attendance/sessions/service/status_cache_test.go
package service

import (
	"context"
	"testing"
	"time"
)

// Tanpa Redis semua operasi cache harus jadi no-op yang aman,
// bukan panic: deployment kecil memang jalan tanpa Redis.
func TestStatusCacheDisabledWithoutRedis(t *testing.T) {
	ctx := context.Background()

	if raw, ok := GetCachedStatus(ctx, "SB-XXXX-deadbeef"); ok || raw != nil {
		t.Errorf("GetCachedStatus tanpa redis = (%v, %v), want (nil, false)", raw, ok)
	}

	SetCachedStatus(ctx, "SB-XXXX-deadbeef", []byte(`{}`))
	InvalidateStatusCache(ctx, "SB-XXXX-deadbeef", "SB-YYYY-cafebabe")
}

func TestStatusCacheTTL(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want time.Duration
	}{
		{name: "default", env: "", want: 5 * time.Second},
		{name: "override", env: "30", want: 30 * time.Second},
		{name: "invalid fallback", env: "abc", want: 5 * time.Second},
		{name: "zero fallback", env: "0", want: 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ATTENDANCE_STATUS_CACHE_TTL_SECONDS", tt.env)
			if got := statusCacheTTL(); got != tt.want {
				t.Errorf("statusCacheTTL() = %v, want %v", got, tt.want)
			}
		})
	}
}
