// internals/features/attendance/sessions/controller/attendance_session_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	auditService "siagabencana_backend/internals/features/audit/service"
	attDTO "siagabencana_backend/internals/features/attendance/sessions/dto"
	attModel "siagabencana_backend/internals/features/attendance/sessions/model"
	attRepo "siagabencana_backend/internals/features/attendance/sessions/repository"
	attService "siagabencana_backend/internals/features/attendance/sessions/service"
	helper "siagabencana_backend/internals/helpers"
	"siagabencana_backend/internals/helpers/metrics"
)

// Daftar peserta di status dibatasi; dashboard cukup melihat yang terbaru.
const statusAttendeeCap = 100

type AttendanceSessionController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAttendanceSessionController(db *gorm.DB) *AttendanceSessionController {
	return &AttendanceSessionController{
		DB:       db,
		Validate: validator.New(),
	}
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "violates unique constraint") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}

/* =======================================================
   POST /api/attendance/sessions
======================================================= */

func (ctl *AttendanceSessionController) CreateSession(c *fiber.Ctx) error {
	trainerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req attDTO.CreateAttendanceSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if req.TrainingRef == "" || !attModel.SessionMode(req.Mode).Valid() {
		return helper.JsonError(c, fiber.StatusBadRequest, "training_ref dan mode (hotspot/ble/gps/manual) wajib diisi")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	snap, err := attRepo.FindUserSnapshot(ctl.DB.WithContext(c.Context()), trainerID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Data trainer tidak ditemukan")
	}

	// Tabrakan token nyaris mustahil, tapi index unik tetap backstop-nya.
	var m *attModel.AttendanceSessionModel
	for attempt := 0; attempt < 2; attempt++ {
		token, terr := attService.GenerateSessionToken()
		if terr != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token sesi")
		}
		m = req.ToModel(trainerID, snap.DisplayName(), token)
		if cerr := attRepo.CreateSession(ctl.DB.WithContext(c.Context()), m); cerr != nil {
			if isDuplicateKey(cerr) && attempt == 0 {
				continue
			}
			log.Printf("[ATTENDANCE] create session gagal: %v", cerr)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat sesi absensi")
		}
		break
	}

	metrics.SessionsCreated.WithLabelValues(req.Mode).Inc()
	auditService.Record(ctl.DB, c, auditService.ActionSessionCreate,
		"attendance_session", m.AttendanceSessionID.String(), "",
		map[string]any{"mode": req.Mode, "training_ref": req.TrainingRef})

	return helper.JsonCreated(c, "Sesi absensi dibuat", attDTO.FromSessionModel(m))
}

/* =======================================================
   GET /api/attendance/sessions/:token/status
======================================================= */

func (ctl *AttendanceSessionController) GetSessionStatus(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	if token == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Token sesi wajib diisi")
	}

	// Cache-aside: polling dashboard tidak perlu rescan record tiap detik
	if raw, ok := attService.GetCachedStatus(c.Context(), token); ok {
		return helper.JsonOK(c, "OK", json.RawMessage(raw))
	}

	session, err := attRepo.FindSessionByToken(ctl.DB.WithContext(c.Context()), token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}

	count, err := attRepo.CountRecordsBySession(ctl.DB.WithContext(c.Context()), session.AttendanceSessionID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung kehadiran")
	}
	records, err := attRepo.ListNewestRecords(ctl.DB.WithContext(c.Context()), session.AttendanceSessionID, statusAttendeeCap)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar kehadiran")
	}

	attendees := make([]attDTO.SessionAttendeeEntry, 0, len(records))
	for i := range records {
		attendees = append(attendees, attDTO.AttendeeFromRecord(&records[i]))
	}

	resp := attDTO.AttendanceSessionStatusResponse{
		Session:       attDTO.FromSessionModel(session),
		AttendeeCount: count,
		Attendees:     attendees,
	}

	if payload, merr := sonic.Marshal(resp); merr == nil {
		attService.SetCachedStatus(c.Context(), token, payload)
	}

	return helper.JsonOK(c, "OK", resp)
}

/* =======================================================
   PUT /api/attendance/sessions/:token/end
======================================================= */

func (ctl *AttendanceSessionController) EndSession(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	if token == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Token sesi wajib diisi")
	}

	rows, err := attRepo.CompleteSessionByToken(ctl.DB.WithContext(c.Context()), token, time.Now().UTC())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menutup sesi")
	}

	session, err := attRepo.FindSessionByToken(ctl.DB.WithContext(c.Context()), token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}

	if rows > 0 {
		metrics.SessionsEnded.Inc()
		attService.InvalidateStatusCache(c.Context(), token)
		auditService.Record(ctl.DB, c, auditService.ActionSessionEnd,
			"attendance_session", session.AttendanceSessionID.String(), "", nil)
		return helper.JsonUpdated(c, "Sesi absensi ditutup", attDTO.FromSessionModel(session))
	}

	// Idempotent: sudah ditutup/expired → 200 dengan keadaan sekarang
	return helper.JsonOK(c, "Sesi sudah tidak aktif", attDTO.FromSessionModel(session))
}
