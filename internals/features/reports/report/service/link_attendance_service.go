// internals/features/reports/report/service/link_attendance_service.go
package service

import (
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	attModel "siagabencana_backend/internals/features/attendance/sessions/model"
	attRepo "siagabencana_backend/internals/features/attendance/sessions/repository"
	reportModel "siagabencana_backend/internals/features/reports/report/model"
	"siagabencana_backend/internals/helpers/metrics"
)

type demographicRow struct {
	ID         uuid.UUID
	UserName   string
	FullName   string
	Phone      string
	AgeBracket string
	District   string
	State      string
}

/* =======================================================
   Snapshot builder
   Per record: profil user dibekukan; field yang kosong
   jatuh ke salinan denormalisasi milik record (nama,
   telepon). Lookup gagal total → record tetap masuk
   dengan salinannya sendiri.
======================================================= */

func BuildAttendeeSnapshots(db *gorm.DB, records []attModel.AttendanceRecordModel) []reportModel.AttendeeSnapshot {
	byUser := map[uuid.UUID]demographicRow{}

	if len(records) > 0 {
		ids := make([]uuid.UUID, 0, len(records))
		seen := map[uuid.UUID]struct{}{}
		for i := range records {
			uid := records[i].AttendanceRecordUserID
			if _, ok := seen[uid]; ok {
				continue
			}
			seen[uid] = struct{}{}
			ids = append(ids, uid)
		}

		var rows []demographicRow
		if err := db.Table("users").
			Select("id, user_name, full_name, phone, age_bracket, district, state").
			Where("id IN ?", ids).
			Find(&rows).Error; err != nil {
			log.Printf("[LINKER] lookup demografi gagal, pakai salinan record: %v", err)
		}
		for _, row := range rows {
			byUser[row.ID] = row
		}
	}

	return assembleSnapshots(records, byUser)
}

func assembleSnapshots(records []attModel.AttendanceRecordModel, byUser map[uuid.UUID]demographicRow) []reportModel.AttendeeSnapshot {
	snapshots := make([]reportModel.AttendeeSnapshot, 0, len(records))
	for i := range records {
		rec := &records[i]
		snap := reportModel.AttendeeSnapshot{
			UserID:    rec.AttendanceRecordUserID.String(),
			Name:      rec.AttendanceRecordUserName,
			Method:    string(rec.AttendanceRecordMethod),
			Timestamp: rec.AttendanceRecordTimestamp,
		}
		if rec.AttendanceRecordUserPhone != nil {
			snap.Phone = *rec.AttendanceRecordUserPhone
		}

		if row, ok := byUser[rec.AttendanceRecordUserID]; ok {
			if row.FullName != "" {
				snap.Name = row.FullName
			} else if row.UserName != "" {
				snap.Name = row.UserName
			}
			if row.Phone != "" {
				snap.Phone = row.Phone
			}
			snap.AgeBracket = row.AgeBracket
			snap.District = row.District
			snap.State = row.State
		}

		snapshots = append(snapshots, snap)
	}
	return snapshots
}

/* =======================================================
   Linker
   Satu transaksi: hitung snapshot + timpa kolom absensi
   di laporan. Re-link menghitung ulang dan mengganti.
======================================================= */

func LinkSessionToReport(db *gorm.DB, report *reportModel.ReportModel, session *attModel.AttendanceSessionModel) error {
	var (
		total   int
		payload []byte
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		records, err := attRepo.RecordsBySessionID(tx, session.AttendanceSessionID)
		if err != nil {
			return err
		}
		snapshots := BuildAttendeeSnapshots(tx, records)

		payload, err = sonic.Marshal(snapshots)
		if err != nil {
			return err
		}
		total = len(snapshots)

		return tx.Model(&reportModel.ReportModel{}).
			Where("report_id = ?", report.ReportID).
			Updates(map[string]any{
				"report_participants":          total,
				"report_attendance_count":      total,
				"report_attendance_session_id": session.AttendanceSessionID,
				"report_has_live_attendance":   true,
				"report_attendance_details":    datatypes.JSON(payload),
				"updated_at":                   time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return err
	}

	// Samakan salinan in-memory untuk response
	sid := session.AttendanceSessionID
	report.ReportParticipants = total
	report.ReportAttendanceCount = total
	report.ReportAttendanceSessionID = &sid
	report.ReportHasLiveAttendance = true
	report.ReportAttendanceDetails = datatypes.JSON(payload)

	metrics.ReportsLinked.Inc()
	return nil
}
