package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	auditService "siagabencana_backend/internals/features/audit/service"
	attRepo "siagabencana_backend/internals/features/attendance/sessions/repository"
	attService "siagabencana_backend/internals/features/attendance/sessions/service"
	"siagabencana_backend/internals/helpers/metrics"
)

const expirySweepBatch = 200

// StartSessionExpiryScheduler menutup paksa sesi active yang sudah melewati
// TTL (trainer lupa menutup). Sesi expired menolak check-in live; batch sync
// tetap diterima.
func StartSessionExpiryScheduler(db *gorm.DB) {
	go func() {
		ttlHours := 12
		if raw := os.Getenv("ATTENDANCE_SESSION_TTL_HOURS"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				ttlHours = n
			}
		}

		for {
			now := time.Now().UTC()
			cutoff := now.Add(-time.Duration(ttlHours) * time.Hour)

			refs, err := attRepo.ListStaleActiveSessions(db, cutoff, expirySweepBatch)
			if err != nil {
				log.Printf("[EXPIRY ERROR] Gagal cari sesi basi: %v", err)
			} else if len(refs) > 0 {
				tokens := make([]string, 0, len(refs))
				for _, r := range refs {
					tokens = append(tokens, r.AttendanceSessionToken)
				}

				n, err := attRepo.ExpireSessionsByTokens(db, tokens, now)
				if err != nil {
					log.Printf("[EXPIRY ERROR] Gagal tandai expired: %v", err)
				} else if n > 0 {
					log.Printf("[EXPIRY] %d sesi absensi ditandai expired (TTL %dh)", n, ttlHours)
					metrics.SessionsExpired.Add(float64(n))
					attService.InvalidateStatusCache(context.Background(), tokens...)
					for _, r := range refs {
						auditService.RecordSystem(db, auditService.ActionSessionExpire,
							"attendance_session", r.AttendanceSessionID.String(),
							"ditutup otomatis oleh sweep TTL", nil)
					}
				}
			}

			// Sweep tiap jam
			time.Sleep(time.Hour)
		}
	}()
}
