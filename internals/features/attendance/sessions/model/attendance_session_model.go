// internals/features/attendance/sessions/model/attendance_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================
   ENUMS (selaras dgn DB)
========================= */

type SessionMode string

const (
	SessionModeHotspot SessionMode = "hotspot"
	SessionModeBLE     SessionMode = "ble"
	SessionModeGPS     SessionMode = "gps"
	SessionModeManual  SessionMode = "manual"
)

func (m SessionMode) Valid() bool {
	switch m {
	case SessionModeHotspot, SessionModeBLE, SessionModeGPS, SessionModeManual:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusExpired   SessionStatus = "expired"
)

/* =========================================
   MODEL: attendance_sessions
========================================= */

type AttendanceSessionModel struct {
	// PK
	AttendanceSessionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_session_id" json:"attendance_session_id"`

	// Token join (unik, tidak bisa ditebak)
	AttendanceSessionToken string `gorm:"type:varchar(64);not null;uniqueIndex:uq_attendance_sessions_token;column:attendance_session_token" json:"attendance_session_token"`

	// Referensi pelatihan: string opaque, tidak pernah di-parse
	AttendanceSessionTrainingRef string `gorm:"type:varchar(120);not null;column:attendance_session_training_ref" json:"attendance_session_training_ref"`

	// Pembuka sesi
	AttendanceSessionTrainerID   uuid.UUID `gorm:"type:uuid;not null;column:attendance_session_trainer_id" json:"attendance_session_trainer_id"`
	AttendanceSessionTrainerName string    `gorm:"type:varchar(100);not null;default:'';column:attendance_session_trainer_name" json:"attendance_session_trainer_name"`

	// Lifecycle
	AttendanceSessionMode   SessionMode   `gorm:"type:varchar(10);not null;column:attendance_session_mode" json:"attendance_session_mode"`
	AttendanceSessionStatus SessionStatus `gorm:"type:varchar(10);not null;default:'active';column:attendance_session_status" json:"attendance_session_status"`

	// Parameter mode
	AttendanceSessionRadiusM     int     `gorm:"not null;default:30;column:attendance_session_radius_m" json:"attendance_session_radius_m"`
	AttendanceSessionHotspotSSID *string `gorm:"type:varchar(64);column:attendance_session_hotspot_ssid" json:"attendance_session_hotspot_ssid,omitempty"`

	// Lokasi & perangkat trainer saat buka sesi
	AttendanceSessionLat        *float64          `gorm:"column:attendance_session_lat" json:"attendance_session_lat,omitempty"`
	AttendanceSessionLng        *float64          `gorm:"column:attendance_session_lng" json:"attendance_session_lng,omitempty"`
	AttendanceSessionAccuracy   *float64          `gorm:"column:attendance_session_accuracy" json:"attendance_session_accuracy,omitempty"`
	AttendanceSessionDeviceMeta datatypes.JSONMap `gorm:"type:jsonb;column:attendance_session_device_meta" json:"attendance_session_device_meta,omitempty"`

	// Waktu
	AttendanceSessionStartedAt time.Time  `gorm:"type:timestamptz;not null;default:now();column:attendance_session_started_at" json:"attendance_session_started_at"`
	AttendanceSessionEndedAt   *time.Time `gorm:"type:timestamptz;column:attendance_session_ended_at" json:"attendance_session_ended_at,omitempty"`

	// Audit
	CreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (AttendanceSessionModel) TableName() string {
	return "attendance_sessions"
}

func (s *AttendanceSessionModel) IsActive() bool {
	return s.AttendanceSessionStatus == SessionStatusActive
}
