// internals/features/reports/report/model/report_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================
   ENUMS (selaras dgn DB)
========================= */

type ReportStatus string

const (
	ReportStatusDraft    ReportStatus = "draft"
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusAccepted ReportStatus = "accepted"
	ReportStatusRejected ReportStatus = "rejected"
)

// Editable: hanya draft/rejected yang boleh diubah & di-submit pemilik.
func (s ReportStatus) Editable() bool {
	return s == ReportStatusDraft || s == ReportStatusRejected
}

/* =========================================
   MODEL: reports
========================================= */

type ReportModel struct {
	ReportID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:report_id" json:"report_id"`
	ReportUserID uuid.UUID `gorm:"type:uuid;not null;column:report_user_id" json:"report_user_id"`

	// Referensi pelatihan: opaque, boleh kosong
	ReportTrainingRef *string `gorm:"type:varchar(120);column:report_training_ref" json:"report_training_ref,omitempty"`

	ReportTitle        string  `gorm:"type:varchar(200);not null;column:report_title" json:"report_title"`
	ReportOrganization *string `gorm:"type:varchar(150);column:report_organization" json:"report_organization,omitempty"`
	ReportTrainingType *string `gorm:"type:varchar(50);column:report_training_type" json:"report_training_type,omitempty"`

	ReportDate         *time.Time `gorm:"type:timestamptz;column:report_date" json:"report_date,omitempty"`
	ReportLocationName *string    `gorm:"type:varchar(200);column:report_location_name" json:"report_location_name,omitempty"`
	ReportLat          *float64   `gorm:"column:report_lat" json:"report_lat,omitempty"`
	ReportLng          *float64   `gorm:"column:report_lng" json:"report_lng,omitempty"`

	// Klaim manual pelapor; tertimpa hitungan absensi saat link
	ReportParticipants int `gorm:"not null;default:0;column:report_participants" json:"report_participants"`

	ReportDescription *string        `gorm:"type:text;column:report_description" json:"report_description,omitempty"`
	ReportPhotoURLs   pq.StringArray `gorm:"type:text[];column:report_photo_urls" json:"report_photo_urls,omitempty"`

	// Workflow review
	ReportStatus          ReportStatus `gorm:"type:varchar(10);not null;default:'draft';column:report_status" json:"report_status"`
	ReportReviewedBy      *uuid.UUID   `gorm:"type:uuid;column:report_reviewed_by" json:"report_reviewed_by,omitempty"`
	ReportReviewedAt      *time.Time   `gorm:"type:timestamptz;column:report_reviewed_at" json:"report_reviewed_at,omitempty"`
	ReportRejectionReason *string      `gorm:"type:text;column:report_rejection_reason" json:"report_rejection_reason,omitempty"`

	// Tautan absensi + snapshot beku (lifetime lepas dari tabel absensi)
	ReportHasLiveAttendance   bool           `gorm:"not null;default:false;column:report_has_live_attendance" json:"report_has_live_attendance"`
	ReportAttendanceSessionID *uuid.UUID     `gorm:"type:uuid;column:report_attendance_session_id" json:"report_attendance_session_id,omitempty"`
	ReportAttendanceCount     int            `gorm:"not null;default:0;column:report_attendance_count" json:"report_attendance_count"`
	ReportAttendanceDetails   datatypes.JSON `gorm:"type:jsonb;column:report_attendance_details" json:"report_attendance_details,omitempty"`

	CreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (ReportModel) TableName() string {
	return "reports"
}

/* =========================================
   Snapshot peserta (isi report_attendance_details)
   Dibekukan saat link; perubahan profil user atau
   penghapusan record TIDAK mengubah snapshot ini.
========================================= */

type AttendeeSnapshot struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	AgeBracket string    `json:"age_bracket,omitempty"`
	District   string    `json:"district,omitempty"`
	State      string    `json:"state,omitempty"`
	Method     string    `json:"method"`
	Timestamp  time.Time `json:"timestamp"`
}
