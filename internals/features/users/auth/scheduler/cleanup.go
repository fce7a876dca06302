package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	authRepo "siagabencana_backend/internals/features/users/auth/repository"
)

// StartBlacklistCleanupScheduler membersihkan token_blacklist dan refresh_tokens
// yang sudah kedaluwarsa, tiap 24 jam.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		// TTL dari env (default: 7 hari setelah expired baru dibersihkan)
		ttlDays := 7
		if val := os.Getenv("TOKEN_BLACKLIST_TTL_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				ttlDays = parsed
			}
		}

		for {
			log.Println("[CLEANUP] Menjalankan pembersihan token kedaluwarsa...")

			cutoff := time.Now().UTC().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			if n, err := authRepo.CleanupExpiredBlacklist(db, cutoff); err != nil {
				log.Printf("[CLEANUP ERROR] Gagal bersihkan token_blacklist: %v", err)
			} else if n > 0 {
				log.Printf("[CLEANUP] %d entri token_blacklist dibersihkan", n)
			}

			if n, err := authRepo.CleanupExpiredRefreshTokens(db); err != nil {
				log.Printf("[CLEANUP ERROR] Gagal bersihkan refresh_tokens: %v", err)
			} else if n > 0 {
				log.Printf("[CLEANUP] %d refresh token kedaluwarsa dihapus", n)
			}

			// Jalankan tiap 24 jam
			time.Sleep(24 * time.Hour)
		}
	}()
}
