// internals/features/attendance/sessions/route/attendance_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"siagabencana_backend/internals/constants"
	attController "siagabencana_backend/internals/features/attendance/sessions/controller"
	middlewares "siagabencana_backend/internals/middlewares"
	authMiddleware "siagabencana_backend/internals/middlewares/auth"
)

// Base: /api/attendance
func AttendanceRoutes(api fiber.Router, db *gorm.DB) {
	sessionCtl := attController.NewAttendanceSessionController(db)
	recordCtl := attController.NewAttendanceRecordController(db)

	attendance := api.Group("/attendance", authMiddleware.AuthMiddleware(db))
	sessions := attendance.Group("/sessions")

	// 🎓 Trainer ke atas: kelola sesi
	sessions.Post("/",
		authMiddleware.OnlyRoles(constants.RoleErrorTrainer("membuka sesi absensi"), constants.TrainerAndAbove...),
		sessionCtl.CreateSession,
	)
	sessions.Get("/:token/status",
		authMiddleware.OnlyRoles(constants.RoleErrorTrainer("dashboard sesi absensi"), constants.TrainerAndAbove...),
		sessionCtl.GetSessionStatus,
	)
	sessions.Put("/:token/end",
		authMiddleware.OnlyRoles(constants.RoleErrorTrainer("menutup sesi absensi"), constants.TrainerAndAbove...),
		sessionCtl.EndSession,
	)

	// 🙋 Semua user login: check-in live
	sessions.Post("/:token/mark", recordCtl.MarkAttendance)

	// 📦 Trainer ke atas: sync hasil offline (rate-limited)
	sessions.Post("/:token/batch",
		middlewares.BatchSyncRateLimiter(),
		authMiddleware.OnlyRoles(constants.RoleErrorTrainer("sync absensi offline"), constants.TrainerAndAbove...),
		recordCtl.BatchSync,
	)
}
