// internals/features/reports/report/controller/report_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"siagabencana_backend/internals/constants"
	attRepo "siagabencana_backend/internals/features/attendance/sessions/repository"
	auditService "siagabencana_backend/internals/features/audit/service"
	reportDTO "siagabencana_backend/internals/features/reports/report/dto"
	reportModel "siagabencana_backend/internals/features/reports/report/model"
	reportRepo "siagabencana_backend/internals/features/reports/report/repository"
	reportService "siagabencana_backend/internals/features/reports/report/service"
	helper "siagabencana_backend/internals/helpers"
	helperOSS "siagabencana_backend/internals/helpers/oss"
)

type ReportController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{
		DB:       db,
		Validate: validator.New(),
	}
}

// isReviewer: authority & admin melihat semua laporan dan memutuskan review.
func isReviewer(c *fiber.Ctx) bool {
	role := helper.GetUserRoleFromToken(c)
	return role == constants.RoleAuthority || role == constants.RoleAdmin
}

/* =======================================================
   POST /api/reports
======================================================= */

func (rc *ReportController) CreateReport(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req reportDTO.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if req.Title == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Judul laporan wajib diisi")
	}
	if err := rc.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m := req.ToModel(userID)
	if err := reportRepo.CreateReport(rc.DB.WithContext(c.Context()), m); err != nil {
		log.Printf("[REPORT] create gagal: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan laporan")
	}

	// Link implisit: token tidak dikenal bukan alasan menolak laporan
	if req.SessionToken != "" {
		session, serr := attRepo.FindSessionByToken(rc.DB.WithContext(c.Context()), req.SessionToken)
		switch {
		case serr != nil && errors.Is(serr, gorm.ErrRecordNotFound):
			log.Printf("[REPORT] session_token %q tidak dikenal, laporan dibuat tanpa tautan", req.SessionToken)
		case serr != nil:
			log.Printf("[REPORT] lookup sesi %q gagal: %v", req.SessionToken, serr)
		default:
			if lerr := reportService.LinkSessionToReport(rc.DB.WithContext(c.Context()), m, session); lerr != nil {
				log.Printf("[REPORT] link implisit gagal: %v", lerr)
			} else {
				auditService.Record(rc.DB, c, auditService.ActionReportLink,
					"report", m.ReportID.String(), "",
					map[string]any{"session_token": req.SessionToken, "attendance_count": m.ReportAttendanceCount})
			}
		}
	}

	if m.ReportStatus == reportModel.ReportStatusPending {
		auditService.Record(rc.DB, c, auditService.ActionReportSubmit,
			"report", m.ReportID.String(), "dibuat langsung diajukan", nil)
	}

	return helper.JsonCreated(c, "Laporan dibuat", reportDTO.FromReportModel(m))
}

/* =======================================================
   GET /api/reports
======================================================= */

func (rc *ReportController) ListReports(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	paging := helper.ResolvePaging(c, 20, 100)

	opts := reportRepo.ListReportsOpts{
		Status:       c.Query("status"),
		Organization: c.Query("organization"),
		Query:        c.Query("q"),
		Limit:        paging.Limit,
		Offset:       paging.Offset,
	}
	// Pemilik biasa hanya melihat laporannya sendiri
	if !isReviewer(c) {
		opts.OwnerID = &userID
	}

	items, total, err := reportRepo.ListReports(rc.DB.WithContext(c.Context()), opts)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil laporan")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", reportDTO.FromReportModelList(items), &pg)
}

/* =======================================================
   GET /api/reports/:id
======================================================= */

func (rc *ReportController) GetReportByID(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID laporan tidak valid")
	}

	m, err := reportRepo.FindReportByID(rc.DB.WithContext(c.Context()), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Laporan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil laporan")
	}

	if m.ReportUserID != userID && !isReviewer(c) {
		return helper.JsonError(c, fiber.StatusForbidden, "Anda tidak berhak melihat laporan ini")
	}

	return helper.JsonOK(c, "OK", reportDTO.FromReportModel(m))
}

/* =======================================================
   PUT /api/reports/:id
======================================================= */

func (rc *ReportController) UpdateReport(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID laporan tidak valid")
	}

	m, err := reportRepo.FindReportByID(rc.DB.WithContext(c.Context()), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Laporan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil laporan")
	}

	if m.ReportUserID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "Hanya pemilik yang boleh mengubah laporan ini")
	}
	if !m.ReportStatus.Editable() {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Laporan berstatus "+string(m.ReportStatus)+" tidak dapat diubah")
	}

	var req reportDTO.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if err := rc.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	req.ApplyToModel(m)
	if err := reportRepo.SaveReport(rc.DB.WithContext(c.Context()), m); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui laporan")
	}

	return helper.JsonUpdated(c, "Laporan diperbarui", reportDTO.FromReportModel(m))
}

/* =======================================================
   DELETE /api/reports/:id
======================================================= */

func (rc *ReportController) DeleteReport(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID laporan tidak valid")
	}

	m, err := reportRepo.FindReportByID(rc.DB.WithContext(c.Context()), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Laporan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil laporan")
	}

	reviewer := isReviewer(c)
	if m.ReportUserID != userID && !reviewer {
		return helper.JsonError(c, fiber.StatusForbidden, "Anda tidak berhak menghapus laporan ini")
	}
	// Pemilik hanya boleh menghapus selama masih bisa diedit; reviewer bebas
	if !reviewer && !m.ReportStatus.Editable() {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Laporan berstatus "+string(m.ReportStatus)+" tidak dapat dihapus")
	}

	rows, err := reportRepo.DeleteReport(rc.DB.WithContext(c.Context()), id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus laporan")
	}
	if rows == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Laporan tidak ditemukan")
	}

	// Foto ikut ke spam, best-effort; object definitif dibersihkan reaper.
	if len(m.ReportPhotoURLs) > 0 {
		if blob, berr := helperOSS.NewOSSBlobServiceFromEnv(""); berr == nil {
			for _, u := range m.ReportPhotoURLs {
				if _, merr := blob.MoveToSpam(c.Context(), u); merr != nil {
					log.Printf("[REPORT] pindah foto %q ke spam gagal: %v", u, merr)
				}
			}
		}
	}

	return helper.JsonDeleted(c, "Laporan dihapus", fiber.Map{"id": id})
}

/* =======================================================
   POST /api/reports/:id/submit
======================================================= */

func (rc *ReportController) SubmitReport(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID laporan tidak valid")
	}

	m, err := reportRepo.FindReportByID(rc.DB.WithContext(c.Context()), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Laporan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil laporan")
	}

	if m.ReportUserID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "Hanya pemilik yang boleh mengajukan laporan ini")
	}

	switch m.ReportStatus {
	case reportModel.ReportStatusPending:
		// Idempotent: sudah di antrean → 200 dengan keadaan sekarang
		return helper.JsonOK(c, "Laporan sudah dalam antrean review", reportDTO.FromReportModel(m))
	case reportModel.ReportStatusAccepted:
		return helper.JsonError(c, fiber.StatusBadRequest, "Laporan sudah diterima")
	}

	// draft/rejected → pending; stempel review lama dibersihkan
	m.ReportStatus = reportModel.ReportStatusPending
	m.ReportReviewedBy = nil
	m.ReportReviewedAt = nil
	m.ReportRejectionReason = nil
	if err := reportRepo.SaveReport(rc.DB.WithContext(c.Context()), m); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengajukan laporan")
	}

	auditService.Record(rc.DB, c, auditService.ActionReportSubmit,
		"report", m.ReportID.String(), "", nil)

	return helper.JsonUpdated(c, "Laporan diajukan untuk review", reportDTO.FromReportModel(m))
}

/* =======================================================
   POST /api/reports/:id/review
======================================================= */

func (rc *ReportController) ReviewReport(c *fiber.Ctx) error {
	reviewerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID laporan tidak valid")
	}

	var req reportDTO.ReviewReportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.Normalize()
	if err := rc.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m, err := reportRepo.FindReportByID(rc.DB.WithContext(c.Context()), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Laporan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil laporan")
	}

	if m.ReportStatus != reportModel.ReportStatusPending {
		return helper.JsonError(c, fiber.StatusBadRequest, "Hanya laporan pending yang bisa direview")
	}

	now := time.Now().UTC()
	m.ReportStatus = reportModel.ReportStatus(req.Decision)
	m.ReportReviewedBy = &reviewerID
	m.ReportReviewedAt = &now
	m.ReportRejectionReason = nil
	if m.ReportStatus == reportModel.ReportStatusRejected {
		m.ReportRejectionReason = req.RejectionReason
	}

	if err := reportRepo.SaveReport(rc.DB.WithContext(c.Context()), m); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan review")
	}

	auditService.Record(rc.DB, c, auditService.ActionReportReview,
		"report", m.ReportID.String(), "",
		map[string]any{"decision": req.Decision})

	return helper.JsonUpdated(c, "Review tersimpan", reportDTO.FromReportModel(m))
}

/* =======================================================
   POST /api/reports/:id/link-attendance
======================================================= */

func (rc *ReportController) LinkAttendance(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID laporan tidak valid")
	}

	var req reportDTO.LinkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.SessionToken = strings.TrimSpace(req.SessionToken)
	if req.SessionToken == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "session_token wajib diisi")
	}

	m, err := reportRepo.FindReportByID(rc.DB.WithContext(c.Context()), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Laporan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil laporan")
	}

	if m.ReportUserID != userID && !isReviewer(c) {
		return helper.JsonError(c, fiber.StatusForbidden, "Anda tidak berhak menautkan absensi ke laporan ini")
	}
	// Snapshot laporan yang sudah diterima dibekukan permanen
	if m.ReportStatus == reportModel.ReportStatusAccepted {
		return helper.JsonError(c, fiber.StatusBadRequest, "Laporan yang sudah diterima tidak dapat ditautkan ulang")
	}

	session, err := attRepo.FindSessionByToken(rc.DB.WithContext(c.Context()), req.SessionToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Sesi absensi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil sesi absensi")
	}

	if err := reportService.LinkSessionToReport(rc.DB.WithContext(c.Context()), m, session); err != nil {
		log.Printf("[REPORT] link absensi gagal: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menautkan absensi")
	}

	auditService.Record(rc.DB, c, auditService.ActionReportLink,
		"report", m.ReportID.String(), "",
		map[string]any{"session_token": req.SessionToken, "attendance_count": m.ReportAttendanceCount})

	return helper.JsonUpdated(c, "Absensi tertaut ke laporan", reportDTO.FromReportModel(m))
}
