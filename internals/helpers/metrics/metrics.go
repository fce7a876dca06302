// internals/helpers/metrics/metrics.go
package metrics

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter domain untuk dashboard operasional. Registrasi via promauto ke
// default registry; di-expose lewat GET /metrics (lihat Handler).

var (
	SessionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_sessions_created_total",
			Help: "Jumlah sesi absensi yang dibuat, per mode.",
		},
		[]string{"mode"}, // hotspot|ble|gps|manual
	)

	SessionsEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attendance_sessions_ended_total",
			Help: "Jumlah sesi absensi yang ditutup manual oleh trainer.",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attendance_sessions_expired_total",
			Help: "Jumlah sesi absensi yang ditutup otomatis oleh sweep TTL.",
		},
	)

	Checkins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_checkins_total",
			Help: "Jumlah check-in tercatat, per metode dan sumber.",
		},
		[]string{"method", "source"}, // source: live|batch
	)

	CheckinDuplicates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_checkin_duplicates_total",
			Help: "Jumlah check-in yang ditolak karena duplikat (unique DB).",
		},
		[]string{"source"},
	)

	BatchRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_batch_records_total",
			Help: "Hasil per-record pada sync batch offline.",
		},
		[]string{"outcome"}, // inserted|duplicate|invalid
	)

	ReportsLinked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reports_attendance_linked_total",
			Help: "Jumlah laporan yang berhasil ditautkan ke sesi absensi.",
		},
	)

	StatusCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attendance_status_cache_hits_total",
			Help: "Cache hit status sesi (redis).",
		},
	)

	StatusCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attendance_status_cache_misses_total",
			Help: "Cache miss status sesi (redis).",
		},
	)
)

// Handler mengembalikan handler fiber untuk endpoint /metrics.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
