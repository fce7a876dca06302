// internals/features/trainings/training/controller/training_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attRepo "siagabencana_backend/internals/features/attendance/sessions/repository"
	trainingDTO "siagabencana_backend/internals/features/trainings/training/dto"
	trainingModel "siagabencana_backend/internals/features/trainings/training/model"
	helper "siagabencana_backend/internals/helpers"
)

type TrainingController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewTrainingController(db *gorm.DB) *TrainingController {
	return &TrainingController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* =======================================================
   POST /api/trainings
======================================================= */

func (tc *TrainingController) CreateTraining(c *fiber.Ctx) error {
	creatorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req trainingDTO.CreateTrainingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if err := tc.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m := req.ToModel(creatorID)
	if err := tc.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat pelatihan")
	}

	return helper.JsonCreated(c, "Pelatihan dibuat", trainingDTO.FromTrainingModel(m))
}

/* =======================================================
   GET /api/trainings
======================================================= */

func (tc *TrainingController) ListTrainings(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := tc.DB.WithContext(c.Context()).Model(&trainingModel.TrainingModel{})

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("training_title ILIKE ?", "%"+q+"%")
	}
	if typ := strings.ToLower(strings.TrimSpace(c.Query("type"))); typ != "" {
		tx = tx.Where("training_type = ?", typ)
	}
	if org := strings.TrimSpace(c.Query("organizer")); org != "" {
		tx = tx.Where("training_organizer ILIKE ?", "%"+org+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung pelatihan")
	}

	var items []trainingModel.TrainingModel
	if err := tx.Order("created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pelatihan")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", trainingDTO.FromTrainingModelList(items), &pg)
}

/* =======================================================
   GET /api/trainings/:id
======================================================= */

func (tc *TrainingController) GetTrainingByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID pelatihan tidak valid")
	}

	var m trainingModel.TrainingModel
	if err := tc.DB.WithContext(c.Context()).First(&m, "training_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Pelatihan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pelatihan")
	}

	return helper.JsonOK(c, "OK", trainingDTO.FromTrainingModel(&m))
}

/* =======================================================
   PUT /api/trainings/:id — hanya pembuat
======================================================= */

func (tc *TrainingController) UpdateTraining(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID pelatihan tidak valid")
	}

	var req trainingDTO.UpdateTrainingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if err := tc.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var m trainingModel.TrainingModel
	if err := tc.DB.WithContext(c.Context()).First(&m, "training_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Pelatihan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pelatihan")
	}

	if m.TrainingCreatedBy == nil || *m.TrainingCreatedBy != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "Hanya pembuat yang boleh mengubah pelatihan ini")
	}

	req.ApplyToModel(&m)
	if err := tc.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui pelatihan")
	}

	return helper.JsonUpdated(c, "Pelatihan diperbarui", trainingDTO.FromTrainingModel(&m))
}

/* =======================================================
   DELETE /api/trainings/:id — authority, soft delete
======================================================= */

func (tc *TrainingController) DeleteTraining(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID pelatihan tidak valid")
	}

	res := tc.DB.WithContext(c.Context()).Delete(&trainingModel.TrainingModel{}, "training_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus pelatihan")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Pelatihan tidak ditemukan")
	}

	return helper.JsonDeleted(c, "Pelatihan dihapus", fiber.Map{"id": id})
}

/* =======================================================
   GET /api/trainings/:id/attendance
   Rekap seluruh sesi absensi milik pelatihan ini.
======================================================= */

func (tc *TrainingController) GetTrainingAttendance(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID pelatihan tidak valid")
	}

	var m trainingModel.TrainingModel
	if err := tc.DB.WithContext(c.Context()).First(&m, "training_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Pelatihan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pelatihan")
	}

	// training_ref dicocokkan sebagai string opaque
	sessions, err := attRepo.SessionsByTrainingRef(tc.DB.WithContext(c.Context()), id.String())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil sesi absensi")
	}

	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	for i := range sessions {
		sessionIDs = append(sessionIDs, sessions[i].AttendanceSessionID)
	}
	records, err := attRepo.RecordsForSessionIDs(tc.DB.WithContext(c.Context()), sessionIDs)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil record absensi")
	}

	return helper.JsonOK(c, "OK", trainingDTO.BuildTrainingAttendance(&m, sessions, records))
}
