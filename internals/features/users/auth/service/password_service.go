// internals/features/users/auth/service/password_service.go
package service

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authHelper "siagabencana_backend/internals/features/users/auth/helper"
	authRepo "siagabencana_backend/internals/features/users/auth/repository"
	helpers "siagabencana_backend/internals/helpers"
)

/* ==========================
   CHANGE PASSWORD
========================== */

func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Format input tidak valid")
	}

	userID, err := helpers.GetUserIDFromToken(c)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	if err := authHelper.ValidateChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}

	// Cek password lama
	if err := authHelper.CheckPasswordHash(user.Password, input.CurrentPassword); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Password saat ini salah")
	}

	newHash, err := authHelper.HashPassword(input.NewPassword)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal hashing password baru")
	}

	if err := authRepo.UpdateUserPassword(db, userID, newHash); err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui password")
	}

	// Sesi lain wajib login ulang setelah ganti password
	if err := authRepo.RevokeAllRefreshTokensForUser(db, userID); err != nil {
		log.Printf("[WARN] gagal revoke refresh token user %s: %v", userID, err)
	}

	return helpers.JsonUpdated(c, "Password berhasil diubah", nil)
}
