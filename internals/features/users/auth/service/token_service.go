// internals/features/users/auth/service/token_service.go
package service

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authRepo "siagabencana_backend/internals/features/users/auth/repository"
	helpers "siagabencana_backend/internals/helpers"
)

/* ==========================
   REFRESH TOKEN (rotation)
========================== */

// RefreshToken menerima refresh token dari cookie (web) atau body JSON (mobile),
// memverifikasi + merotasi token lama (single-use), lalu menerbitkan pasangan baru.
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// Sumber token: cookie dulu, fallback body
	fromCookie := true
	tokenStr := helpers.GetRefreshTokenFromCookie(c)
	if tokenStr == "" {
		fromCookie = false
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&body); err == nil {
			tokenStr = strings.TrimSpace(body.RefreshToken)
		}
	}
	if tokenStr == "" {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ditemukan")
	}

	// Cookie flow → wajib CSRF (double-submit)
	if fromCookie {
		if err := helpers.CheckCSRFCookieHeader(c); err != nil {
			return helpers.JsonError(c, fiber.StatusForbidden, err.Error())
		}
	}

	// Verifikasi signature + typ
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Metode signing tidak dikenal")
		}
		return []byte(refreshSecret), nil
	})
	if err != nil || !parsed.Valid {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak valid atau kedaluwarsa")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Klaim token tidak valid")
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Token bukan refresh token")
	}

	userIDStr, _ := claims["sub"].(string)
	if userIDStr == "" {
		userIDStr, _ = claims["id"].(string)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Klaim user tidak valid")
	}

	// Cek DB: token harus masih aktif (belum direvoke / belum expired)
	tokenHash := computeRefreshHash(tokenStr, refreshSecret)
	row, err := authRepo.FindActiveRefreshTokenByHash(db, tokenHash)
	if err != nil {
		// Termasuk kasus reuse: token lama sudah dirotasi
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token sudah tidak berlaku")
	}
	if row.UserID != userID {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak cocok")
	}

	// Rotasi: revoke yang lama sebelum menerbitkan yang baru
	if err := authRepo.RevokeRefreshTokenByID(db, row.ID); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token sudah tidak berlaku")
	}

	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}

	return issueTokens(c, db, *user)
}
