// internals/features/attendance/sessions/model/attendance_record_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================
   MODEL: attendance_records
   Dedup (session_id, user_id) ditegakkan oleh
   unique constraint di DB, bukan pre-check.
========================================= */

type AttendanceRecordModel struct {
	// PK
	AttendanceRecordID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_record_id" json:"attendance_record_id"`

	// Relasi
	AttendanceRecordSessionID   uuid.UUID `gorm:"type:uuid;not null;column:attendance_record_session_id" json:"attendance_record_session_id"`
	AttendanceRecordUserID      uuid.UUID `gorm:"type:uuid;not null;column:attendance_record_user_id" json:"attendance_record_user_id"`
	AttendanceRecordTrainingRef string    `gorm:"type:varchar(120);not null;default:'';column:attendance_record_training_ref" json:"attendance_record_training_ref"`

	// Snapshot identitas saat absen (tahan terhadap perubahan profil)
	AttendanceRecordUserName  string  `gorm:"type:varchar(100);not null;column:attendance_record_user_name" json:"attendance_record_user_name"`
	AttendanceRecordUserPhone *string `gorm:"type:varchar(20);column:attendance_record_user_phone" json:"attendance_record_user_phone,omitempty"`

	// Cara absen + waktu capture (batch memakai waktu dari klien)
	AttendanceRecordMethod    SessionMode `gorm:"type:varchar(10);not null;column:attendance_record_method" json:"attendance_record_method"`
	AttendanceRecordTimestamp time.Time   `gorm:"type:timestamptz;not null;default:now();column:attendance_record_timestamp" json:"attendance_record_timestamp"`

	// Provenance lokasi & perangkat
	AttendanceRecordLat        *float64          `gorm:"column:attendance_record_lat" json:"attendance_record_lat,omitempty"`
	AttendanceRecordLng        *float64          `gorm:"column:attendance_record_lng" json:"attendance_record_lng,omitempty"`
	AttendanceRecordAccuracy   *float64          `gorm:"column:attendance_record_accuracy" json:"attendance_record_accuracy,omitempty"`
	AttendanceRecordDeviceMeta datatypes.JSONMap `gorm:"type:jsonb;column:attendance_record_device_meta" json:"attendance_record_device_meta,omitempty"`

	// synced=false berarti hasil sinkronisasi offline
	AttendanceRecordSynced           bool    `gorm:"not null;default:true;column:attendance_record_synced" json:"attendance_record_synced"`
	AttendanceRecordVerified         bool    `gorm:"not null;default:false;column:attendance_record_verified" json:"attendance_record_verified"`
	AttendanceRecordVerificationNote *string `gorm:"type:text;column:attendance_record_verification_note" json:"attendance_record_verification_note,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:created_at" json:"created_at"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}
