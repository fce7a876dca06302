// internals/features/users/user/controller/user_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userdto "siagabencana_backend/internals/features/users/user/dto"
	"siagabencana_backend/internals/features/users/user/model"
	helper "siagabencana_backend/internals/helpers"
)

type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validate: validator.New()}
}

// GET /api/users/me
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var u model.UserModel
	if err := uc.DB.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		log.Println("[ERROR] GetMe:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil profil")
	}

	return helper.JsonOK(c, "Profil berhasil diambil", userdto.FromModel(&u))
}

// PUT /api/users/me — update demografi sendiri
func (uc *UserController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req userdto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if err := uc.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var u model.UserModel
	if err := uc.DB.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil profil")
	}

	req.ApplyToModel(&u)
	if err := uc.DB.Save(&u).Error; err != nil {
		log.Println("[ERROR] UpdateMe:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui profil")
	}

	return helper.JsonUpdated(c, "Profil berhasil diperbarui", userdto.FromModel(&u))
}

// GET /api/users/:id — proyeksi lookup untuk trainer/authority
func (uc *UserController) GetUserByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var u model.UserModel
	if err := uc.DB.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		log.Println("[ERROR] GetUserByID:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}

	return helper.JsonOK(c, "User berhasil diambil", userdto.ToLookup(&u))
}

// GET /api/users — listing berhalaman (authority/admin)
// Query: q (search nama/email), role, organization, district
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := uc.DB.Model(&model.UserModel{})

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("user_name ILIKE ? OR email ILIKE ? OR full_name ILIKE ?", like, like, like)
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		tx = tx.Where("role = ?", strings.ToLower(role))
	}
	if org := strings.TrimSpace(c.Query("organization")); org != "" {
		tx = tx.Where("organization ILIKE ?", "%"+org+"%")
	}
	if district := strings.TrimSpace(c.Query("district")); district != "" {
		tx = tx.Where("district ILIKE ?", "%"+district+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		log.Println("[ERROR] ListUsers count:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pengguna")
	}

	var users []model.UserModel
	if err := tx.Order("created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&users).Error; err != nil {
		log.Println("[ERROR] ListUsers:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pengguna")
	}

	pg := helper.BuildPaginationFromPage(paging.Page, paging.PerPage, total)
	return helper.JsonList(c, userdto.FromModelList(users), &pg)
}
