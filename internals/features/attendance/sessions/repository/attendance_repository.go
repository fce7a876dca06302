// internals/features/attendance/sessions/repository/attendance_repository.go
package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attModel "siagabencana_backend/internals/features/attendance/sessions/model"
)

/* =========================
   Sessions
========================= */

func CreateSession(db *gorm.DB, m *attModel.AttendanceSessionModel) error {
	return db.Create(m).Error
}

func FindSessionByToken(db *gorm.DB, token string) (*attModel.AttendanceSessionModel, error) {
	var s attModel.AttendanceSessionModel
	if err := db.Where("attendance_session_token = ?", token).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CompleteSessionByToken menutup sesi dengan guard optimis:
// hanya baris yang masih 'active' yang berubah. RowsAffected 0 berarti
// sesi sudah ditutup/expired sebelumnya (bukan error).
func CompleteSessionByToken(db *gorm.DB, token string, endedAt time.Time) (int64, error) {
	res := db.Model(&attModel.AttendanceSessionModel{}).
		Where("attendance_session_token = ? AND attendance_session_status = ?", token, attModel.SessionStatusActive).
		Updates(map[string]any{
			"attendance_session_status":   attModel.SessionStatusCompleted,
			"attendance_session_ended_at": endedAt,
			"updated_at":                  endedAt,
		})
	return res.RowsAffected, res.Error
}

type StaleSessionRef struct {
	AttendanceSessionID    uuid.UUID `gorm:"column:attendance_session_id"`
	AttendanceSessionToken string    `gorm:"column:attendance_session_token"`
}

// ListStaleActiveSessions mengambil sesi active yang dibuka sebelum cutoff.
func ListStaleActiveSessions(db *gorm.DB, cutoff time.Time, limit int) ([]StaleSessionRef, error) {
	var refs []StaleSessionRef
	err := db.Model(&attModel.AttendanceSessionModel{}).
		Select("attendance_session_id, attendance_session_token").
		Where("attendance_session_status = ? AND attendance_session_started_at < ?", attModel.SessionStatusActive, cutoff).
		Limit(limit).
		Find(&refs).Error
	return refs, err
}

// ExpireSessionsByTokens menandai expired; status dicek ulang di WHERE
// supaya sesi yang keburu ditutup trainer tidak tertimpa.
func ExpireSessionsByTokens(db *gorm.DB, tokens []string, endedAt time.Time) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}
	res := db.Model(&attModel.AttendanceSessionModel{}).
		Where("attendance_session_token IN ? AND attendance_session_status = ?", tokens, attModel.SessionStatusActive).
		Updates(map[string]any{
			"attendance_session_status":   attModel.SessionStatusExpired,
			"attendance_session_ended_at": endedAt,
			"updated_at":                  endedAt,
		})
	return res.RowsAffected, res.Error
}

func SessionsByTrainingRef(db *gorm.DB, trainingRef string) ([]attModel.AttendanceSessionModel, error) {
	var sessions []attModel.AttendanceSessionModel
	err := db.Where("attendance_session_training_ref = ?", trainingRef).
		Order("attendance_session_started_at DESC").
		Find(&sessions).Error
	return sessions, err
}

/* =========================
   Records
========================= */

func InsertRecord(db *gorm.DB, rec *attModel.AttendanceRecordModel) error {
	return db.Create(rec).Error
}

func CountRecordsBySession(db *gorm.DB, sessionID uuid.UUID) (int64, error) {
	var n int64
	err := db.Model(&attModel.AttendanceRecordModel{}).
		Where("attendance_record_session_id = ?", sessionID).
		Count(&n).Error
	return n, err
}

// ListNewestRecords: terbaru dulu, dibatasi limit (dashboard tidak butuh semuanya).
func ListNewestRecords(db *gorm.DB, sessionID uuid.UUID, limit int) ([]attModel.AttendanceRecordModel, error) {
	var recs []attModel.AttendanceRecordModel
	err := db.Where("attendance_record_session_id = ?", sessionID).
		Order("attendance_record_timestamp DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

func RecordsForSessionIDs(db *gorm.DB, sessionIDs []uuid.UUID) ([]attModel.AttendanceRecordModel, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	var recs []attModel.AttendanceRecordModel
	err := db.Where("attendance_record_session_id IN ?", sessionIDs).
		Order("attendance_record_timestamp ASC").
		Find(&recs).Error
	return recs, err
}

func RecordsBySessionID(db *gorm.DB, sessionID uuid.UUID) ([]attModel.AttendanceRecordModel, error) {
	var recs []attModel.AttendanceRecordModel
	err := db.Where("attendance_record_session_id = ?", sessionID).
		Order("attendance_record_timestamp ASC").
		Find(&recs).Error
	return recs, err
}

/* =========================
   User snapshot lookup
========================= */

type UserSnapshot struct {
	UserName string
	FullName string
	Phone    *string
	IsActive bool
}

// FindUserSnapshot membaca kolom identitas yang dibekukan ke record absen.
func FindUserSnapshot(db *gorm.DB, userID uuid.UUID) (*UserSnapshot, error) {
	var snap UserSnapshot
	err := db.Table("users").
		Select("user_name, full_name, phone, is_active").
		Where("id = ?", userID).
		Take(&snap).Error
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// DisplayName: full_name kalau ada, fallback user_name.
func (s *UserSnapshot) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.UserName
}
