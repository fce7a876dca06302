// internals/seeds/runner.go
package seeds

import (
	"log"

	"gorm.io/gorm"
)

// RunAllSeeds mengisi data demo minimal: akun per role + contoh pelatihan.
// Idempotent; baris yang sudah ada dilewati, tidak pernah ditimpa.
func RunAllSeeds(db *gorm.DB) error {
	log.Println("🌱 Menjalankan seeds...")

	if err := SeedUsers(db); err != nil {
		return err
	}
	if err := SeedTrainings(db); err != nil {
		return err
	}

	log.Println("🌱 Seeds selesai")
	return nil
}
