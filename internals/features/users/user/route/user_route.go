// file: internals/features/users/user/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"siagabencana_backend/internals/constants"
	userController "siagabencana_backend/internals/features/users/user/controller"
	authMiddleware "siagabencana_backend/internals/middlewares/auth"
)

// UserRoutes — base: /api/users (semua protected)
func UserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	users := api.Group("/users", authMiddleware.AuthMiddleware(db))

	// profil sendiri (daftarkan sebelum /:id agar "me" tidak tertangkap param)
	users.Get("/me", ctrl.GetMe)
	users.Put("/me", ctrl.UpdateMe)

	// listing — khusus authority/admin
	users.Get("/",
		authMiddleware.OnlyRoles(
			constants.RoleErrorAuthority("daftar pengguna"),
			constants.AuthorityAndAbove...,
		),
		ctrl.ListUsers,
	)

	// lookup demografi — trainer ke atas
	users.Get("/:id",
		authMiddleware.OnlyRoles(
			constants.RoleErrorTrainer("lookup pengguna"),
			constants.TrainerAndAbove...,
		),
		ctrl.GetUserByID,
	)
}
