// internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siagabencana_backend/internals/features/users/auth/controller"
	middlewares "siagabencana_backend/internals/middlewares"
	authMiddleware "siagabencana_backend/internals/middlewares/auth"
)

// Base: /api/auth
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	auth := app.Group("/api/auth")

	// 🔓 Public
	auth.Post("/register", middlewares.RegisterRateLimiter(), authController.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), authController.Login)
	auth.Post("/login-google", middlewares.LoginRateLimiter(), authController.LoginGoogle)
	auth.Post("/refresh-token", authController.RefreshToken)
	auth.Post("/logout", authController.Logout)

	// 🔒 Butuh access token valid
	auth.Get("/me", authMiddleware.AuthMiddleware(db), authController.Me)
	auth.Post("/change-password", authMiddleware.AuthMiddleware(db), authController.ChangePassword)
}
