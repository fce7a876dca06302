// internals/features/files/route/file_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"siagabencana_backend/internals/constants"
	fileController "siagabencana_backend/internals/features/files/controller"
	authMiddleware "siagabencana_backend/internals/middlewares/auth"
)

// Base: /api/files
func FileRoutes(api fiber.Router, db *gorm.DB) {
	fileCtl := fileController.NewFileController(db)

	files := api.Group("/files", authMiddleware.AuthMiddleware(db))

	// 🙋 Semua user login: upload lampiran (foto laporan dsb)
	files.Post("/upload", fileCtl.UploadFiles)

	// 🗑️ Trainer ke atas: pindahkan object ke spam
	files.Delete("/",
		authMiddleware.OnlyRoles(constants.RoleErrorTrainer("menghapus file"), constants.TrainerAndAbove...),
		fileCtl.DeleteFile,
	)
}
