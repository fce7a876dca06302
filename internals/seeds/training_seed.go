// internals/seeds/training_seed.go
package seeds

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	trainingModel "siagabencana_backend/internals/features/trainings/training/model"
	userModel "siagabencana_backend/internals/features/users/user/model"
)

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func SeedTrainings(db *gorm.DB) error {
	// CreatedBy menunjuk trainer demo kalau ada; kosong pun tidak apa-apa
	var creator *uuid.UUID
	var trainer userModel.UserModel
	if err := db.Where("email = ?", "pelatih.pmi@siagabencana.id").First(&trainer).Error; err == nil {
		creator = &trainer.ID
	}

	nextWeek := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)

	demoTrainings := []trainingModel.TrainingModel{
		{
			TrainingTitle:        "Kesiapsiagaan Gempa Bumi untuk Sekolah",
			TrainingType:         "gempa",
			TrainingOrganizer:    strPtr("BPBD DKI Jakarta"),
			TrainingLocationName: strPtr("SDN Menteng 01, Jakarta Pusat"),
			TrainingLat:          f64Ptr(-6.1954),
			TrainingLng:          f64Ptr(106.8233),
			TrainingStartAt:      timePtr(nextWeek),
			TrainingEndAt:        timePtr(nextWeek.Add(3 * time.Hour)),
			TrainingDescription:  strPtr("Drill drop-cover-hold dan jalur evakuasi untuk guru dan siswa."),
			TrainingCreatedBy:    creator,
		},
		{
			TrainingTitle:        "Simulasi Evakuasi Banjir Kelurahan Coblong",
			TrainingType:         "banjir",
			TrainingOrganizer:    strPtr("PMI Kota Bandung"),
			TrainingLocationName: strPtr("Kantor Kelurahan Coblong, Bandung"),
			TrainingLat:          f64Ptr(-6.8852),
			TrainingLng:          f64Ptr(107.6132),
			TrainingStartAt:      timePtr(nextWeek.AddDate(0, 0, 3)),
			TrainingEndAt:        timePtr(nextWeek.AddDate(0, 0, 3).Add(4 * time.Hour)),
			TrainingDescription:  strPtr("Latihan evakuasi mandiri warga bantaran sungai beserta titik kumpul."),
			TrainingCreatedBy:    creator,
		},
		{
			TrainingTitle:       "Pelatihan Dapur Umum Darurat",
			TrainingType:        "logistik",
			TrainingOrganizer:   strPtr("PMI Kota Bandung"),
			TrainingDescription: strPtr("Manajemen dapur umum 500 porsi untuk posko pengungsian."),
			TrainingCreatedBy:   creator,
		},
	}

	for i := range demoTrainings {
		t := &demoTrainings[i]
		var existing trainingModel.TrainingModel
		if err := db.Where("training_title = ?", t.TrainingTitle).First(&existing).Error; err == nil {
			log.Printf("ℹ️ Pelatihan '%s' sudah ada, dilewati.", t.TrainingTitle)
			continue
		}
		if err := db.Create(t).Error; err != nil {
			log.Printf("❌ Gagal insert pelatihan '%s': %v", t.TrainingTitle, err)
			return err
		}
		log.Printf("✅ Pelatihan '%s' dibuat", t.TrainingTitle)
	}
	return nil
}
