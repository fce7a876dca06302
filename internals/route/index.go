// internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attRoute "siagabencana_backend/internals/features/attendance/sessions/route"
	fileRoute "siagabencana_backend/internals/features/files/route"
	reportRoute "siagabencana_backend/internals/features/reports/report/route"
	trainingRoute "siagabencana_backend/internals/features/trainings/training/route"
	authRoute "siagabencana_backend/internals/features/users/auth/route"
	userRoute "siagabencana_backend/internals/features/users/user/route"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== BASE (health, metrics) =====================
	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	// ===================== API =====================
	api := app.Group("/api")

	log.Println("[INFO] Mounting User routes...")
	userRoute.UserRoutes(api, db)

	log.Println("[INFO] Mounting Attendance routes...")
	attRoute.AttendanceRoutes(api, db)

	log.Println("[INFO] Mounting Training routes...")
	trainingRoute.TrainingRoutes(api, db)

	log.Println("[INFO] Mounting Report routes...")
	reportRoute.ReportRoutes(api, db)

	log.Println("[INFO] Mounting File routes...")
	fileRoute.FileRoutes(api, db)
}
