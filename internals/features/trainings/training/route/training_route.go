// internals/features/trainings/training/route/training_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"siagabencana_backend/internals/constants"
	trainingController "siagabencana_backend/internals/features/trainings/training/controller"
	authMiddleware "siagabencana_backend/internals/middlewares/auth"
)

// Base: /api/trainings
func TrainingRoutes(api fiber.Router, db *gorm.DB) {
	ctl := trainingController.NewTrainingController(db)

	trainings := api.Group("/trainings", authMiddleware.AuthMiddleware(db))

	// Semua user login boleh browsing katalog pelatihan
	trainings.Get("/", ctl.ListTrainings)
	trainings.Get("/:id", ctl.GetTrainingByID)

	// 🎓 Trainer ke atas
	trainings.Post("/",
		authMiddleware.OnlyRoles(constants.RoleErrorTrainer("membuat pelatihan"), constants.TrainerAndAbove...),
		ctl.CreateTraining,
	)
	trainings.Put("/:id",
		authMiddleware.OnlyRoles(constants.RoleErrorTrainer("mengubah pelatihan"), constants.TrainerAndAbove...),
		ctl.UpdateTraining,
	)
	trainings.Get("/:id/attendance",
		authMiddleware.OnlyRoles(constants.RoleErrorTrainer("rekap kehadiran pelatihan"), constants.TrainerAndAbove...),
		ctl.GetTrainingAttendance,
	)

	// 🏛️ Authority ke atas: hapus (soft delete)
	trainings.Delete("/:id",
		authMiddleware.OnlyRoles(constants.RoleErrorAuthority("menghapus pelatihan"), constants.AuthorityAndAbove...),
		ctl.DeleteTraining,
	)
}
