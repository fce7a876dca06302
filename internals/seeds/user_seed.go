// internals/seeds/user_seed.go
package seeds

import (
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	authHelper "siagabencana_backend/internals/features/users/auth/helper"
	userModel "siagabencana_backend/internals/features/users/user/model"
)

type userSeed struct {
	UserName     string
	FullName     string
	Email        string
	Role         string
	Phone        string
	AgeBracket   string
	District     string
	State        string
	Organization string
}

var demoUsers = []userSeed{
	{
		UserName:     "admin",
		FullName:     "Admin SiagaBencana",
		Email:        "admin@siagabencana.id",
		Role:         "admin",
		Organization: "SiagaBencana",
	},
	{
		UserName:     "bpbd_jakarta",
		FullName:     "BPBD DKI Jakarta",
		Email:        "bpbd.jakarta@siagabencana.id",
		Role:         "authority",
		Organization: "BPBD DKI Jakarta",
		State:        "DKI Jakarta",
	},
	{
		UserName:     "pelatih_pmi",
		FullName:     "Rina Marlina",
		Email:        "pelatih.pmi@siagabencana.id",
		Role:         "trainer",
		Phone:        "+6281234567801",
		Organization: "PMI Kota Bandung",
		District:     "Coblong",
		State:        "Jawa Barat",
	},
	{
		UserName:   "warga_demo",
		FullName:   "Budi Santoso",
		Email:      "warga.demo@siagabencana.id",
		Role:       "user",
		Phone:      "+6281234567802",
		AgeBracket: "26-35",
		District:   "Coblong",
		State:      "Jawa Barat",
	},
}

func seedPassword() string {
	if v := strings.TrimSpace(os.Getenv("SEED_USER_PASSWORD")); v != "" {
		return v
	}
	return "SiagaBencana#123"
}

func SeedUsers(db *gorm.DB) error {
	hashed, err := authHelper.HashPassword(seedPassword())
	if err != nil {
		return err
	}

	for _, data := range demoUsers {
		var existing userModel.UserModel
		if err := db.Where("email = ?", data.Email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ User '%s' sudah ada, dilewati.", data.Email)
			continue
		}

		newUser := userModel.UserModel{
			UserName:     data.UserName,
			FullName:     data.FullName,
			Email:        data.Email,
			Password:     hashed,
			Role:         data.Role,
			Phone:        data.Phone,
			AgeBracket:   data.AgeBracket,
			District:     data.District,
			State:        data.State,
			Organization: data.Organization,
			IsActive:     true,
		}
		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("❌ Gagal insert user '%s': %v", data.Email, err)
			return err
		}
		log.Printf("✅ User '%s' (%s) dibuat", data.Email, data.Role)
	}
	return nil
}
