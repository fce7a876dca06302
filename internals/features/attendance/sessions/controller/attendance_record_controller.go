// internals/features/attendance/sessions/controller/attendance_record_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditService "siagabencana_backend/internals/features/audit/service"
	attDTO "siagabencana_backend/internals/features/attendance/sessions/dto"
	attRepo "siagabencana_backend/internals/features/attendance/sessions/repository"
	attService "siagabencana_backend/internals/features/attendance/sessions/service"
	helper "siagabencana_backend/internals/helpers"
	"siagabencana_backend/internals/helpers/metrics"
)

const batchRecordCap = 500

type AttendanceRecordController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAttendanceRecordController(db *gorm.DB) *AttendanceRecordController {
	return &AttendanceRecordController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* =======================================================
   POST /api/attendance/sessions/:token/mark
   Live check-in; duplikat ditolak oleh unique DB → 409.
======================================================= */

func (ctl *AttendanceRecordController) MarkAttendance(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	token := strings.TrimSpace(c.Params("token"))
	session, err := attRepo.FindSessionByToken(ctl.DB.WithContext(c.Context()), token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}
	// Sesi completed/expired menolak check-in live (bedakan dgn batch)
	if !session.IsActive() {
		return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan atau sudah tidak aktif")
	}

	var req attDTO.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	snap, err := attRepo.FindUserSnapshot(ctl.DB.WithContext(c.Context()), userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Data user tidak ditemukan")
	}

	rec := req.ToModel(session, userID, snap.DisplayName(), snap.Phone)
	if err := attRepo.InsertRecord(ctl.DB.WithContext(c.Context()), rec); err != nil {
		if isDuplicateKey(err) {
			metrics.CheckinDuplicates.WithLabelValues("live").Inc()
			return helper.JsonError(c, fiber.StatusConflict, "Anda sudah tercatat hadir di sesi ini")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mencatat kehadiran")
	}

	metrics.Checkins.WithLabelValues(req.Method, "live").Inc()
	attService.InvalidateStatusCache(c.Context(), token)
	auditService.Record(ctl.DB, c, auditService.ActionAttendanceMark,
		"attendance_record", rec.AttendanceRecordID.String(), "",
		map[string]any{"session_token": token, "method": req.Method})

	return helper.JsonCreated(c, "Kehadiran tercatat", attDTO.MarkAttendanceAck{
		RecordID:  rec.AttendanceRecordID,
		UserName:  rec.AttendanceRecordUserName,
		Method:    string(rec.AttendanceRecordMethod),
		Timestamp: rec.AttendanceRecordTimestamp,
	})
}

/* =======================================================
   POST /api/attendance/sessions/:token/batch
   Sync offline: tiap record independen, tanpa transaksi.
   Status sesi sengaja TIDAK dicek — late sync dari sesi
   yang sudah ditutup tetap diterima.
======================================================= */

func (ctl *AttendanceRecordController) BatchSync(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	session, err := attRepo.FindSessionByToken(ctl.DB.WithContext(c.Context()), token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}

	var req attDTO.BatchSyncRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if len(req.Records) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "records tidak boleh kosong")
	}
	if len(req.Records) > batchRecordCap {
		return helper.JsonError(c, fiber.StatusBadRequest, "records melebihi batas 500 per batch")
	}

	summary := attDTO.BatchSyncSummary{Details: []attDTO.BatchRecordError{}}

	for i := range req.Records {
		r := &req.Records[i]
		r.Normalize()

		if err := ctl.Validate.Struct(r); err != nil {
			metrics.BatchRecords.WithLabelValues("invalid").Inc()
			summary.Details = append(summary.Details, attDTO.BatchRecordError{
				Index: i, UserID: r.UserID, Reason: "record tidak valid: " + err.Error(),
			})
			continue
		}

		uid, err := uuid.Parse(r.UserID)
		if err != nil {
			metrics.BatchRecords.WithLabelValues("invalid").Inc()
			summary.Details = append(summary.Details, attDTO.BatchRecordError{
				Index: i, UserID: r.UserID, Reason: "user_id bukan UUID",
			})
			continue
		}

		snap, err := attRepo.FindUserSnapshot(ctl.DB.WithContext(c.Context()), uid)
		if err != nil {
			metrics.BatchRecords.WithLabelValues("invalid").Inc()
			summary.Details = append(summary.Details, attDTO.BatchRecordError{
				Index: i, UserID: r.UserID, Reason: "user tidak ditemukan",
			})
			continue
		}

		rec := r.ToModel(session, uid, snap.DisplayName(), snap.Phone)
		if err := attRepo.InsertRecord(ctl.DB.WithContext(c.Context()), rec); err != nil {
			if isDuplicateKey(err) {
				metrics.CheckinDuplicates.WithLabelValues("batch").Inc()
				metrics.BatchRecords.WithLabelValues("duplicate").Inc()
				summary.Details = append(summary.Details, attDTO.BatchRecordError{
					Index: i, UserID: r.UserID, Reason: "sudah tercatat di sesi ini",
				})
			} else {
				metrics.BatchRecords.WithLabelValues("invalid").Inc()
				summary.Details = append(summary.Details, attDTO.BatchRecordError{
					Index: i, UserID: r.UserID, Reason: "gagal menyimpan record",
				})
			}
			continue
		}

		metrics.Checkins.WithLabelValues(r.Method, "batch").Inc()
		metrics.BatchRecords.WithLabelValues("inserted").Inc()
		summary.Inserted++
	}

	summary.Errors = len(summary.Details)

	if summary.Inserted > 0 {
		attService.InvalidateStatusCache(c.Context(), token)
	}
	auditService.Record(ctl.DB, c, auditService.ActionBatchSync,
		"attendance_session", session.AttendanceSessionID.String(), "",
		map[string]any{"inserted": summary.Inserted, "errors": summary.Errors})

	return helper.JsonOK(c, "Sync selesai", summary)
}
