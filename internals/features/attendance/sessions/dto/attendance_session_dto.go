// internals/features/attendance/sessions/dto/attendance_session_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	attModel "siagabencana_backend/internals/features/attendance/sessions/model"
)

/* =======================================================
   REQUEST: create session
======================================================= */

type CreateAttendanceSessionRequest struct {
	TrainingRef string `json:"training_ref" validate:"required,min=1,max=120"`
	Mode        string `json:"mode" validate:"required,oneof=hotspot ble gps manual"`

	RadiusM     *int    `json:"radius_m,omitempty" validate:"omitempty,min=5,max=1000"`
	HotspotSSID *string `json:"hotspot_ssid,omitempty" validate:"omitempty,max=64"`

	Lat      *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng      *float64 `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`
	Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,min=0"`

	DeviceMeta map[string]any `json:"device_meta,omitempty"`
}

func (r *CreateAttendanceSessionRequest) Normalize() {
	r.TrainingRef = strings.TrimSpace(r.TrainingRef)
	r.Mode = strings.ToLower(strings.TrimSpace(r.Mode))
	if r.HotspotSSID != nil {
		v := strings.TrimSpace(*r.HotspotSSID)
		if v == "" {
			r.HotspotSSID = nil
		} else {
			r.HotspotSSID = &v
		}
	}
}

func (r *CreateAttendanceSessionRequest) ToModel(trainerID uuid.UUID, trainerName, token string) *attModel.AttendanceSessionModel {
	m := &attModel.AttendanceSessionModel{
		AttendanceSessionToken:       token,
		AttendanceSessionTrainingRef: r.TrainingRef,
		AttendanceSessionTrainerID:   trainerID,
		AttendanceSessionTrainerName: trainerName,
		AttendanceSessionMode:        attModel.SessionMode(r.Mode),
		AttendanceSessionStatus:      attModel.SessionStatusActive,
		AttendanceSessionRadiusM:     30,
		AttendanceSessionHotspotSSID: r.HotspotSSID,
		AttendanceSessionLat:         r.Lat,
		AttendanceSessionLng:         r.Lng,
		AttendanceSessionAccuracy:    r.Accuracy,
		AttendanceSessionStartedAt:   time.Now().UTC(),
	}
	if r.RadiusM != nil {
		m.AttendanceSessionRadiusM = *r.RadiusM
	}
	if len(r.DeviceMeta) > 0 {
		m.AttendanceSessionDeviceMeta = datatypes.JSONMap(r.DeviceMeta)
	}
	return m
}

/* =======================================================
   RESPONSE: session summary (tanpa daftar peserta)
======================================================= */

type AttendanceSessionResponse struct {
	ID          uuid.UUID  `json:"id"`
	Token       string     `json:"session_token"`
	TrainingRef string     `json:"training_ref"`
	TrainerID   uuid.UUID  `json:"trainer_id"`
	TrainerName string     `json:"trainer_name"`
	Mode        string     `json:"mode"`
	Status      string     `json:"status"`
	RadiusM     int        `json:"radius_m"`
	HotspotSSID *string    `json:"hotspot_ssid,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

func FromSessionModel(m *attModel.AttendanceSessionModel) AttendanceSessionResponse {
	return AttendanceSessionResponse{
		ID:          m.AttendanceSessionID,
		Token:       m.AttendanceSessionToken,
		TrainingRef: m.AttendanceSessionTrainingRef,
		TrainerID:   m.AttendanceSessionTrainerID,
		TrainerName: m.AttendanceSessionTrainerName,
		Mode:        string(m.AttendanceSessionMode),
		Status:      string(m.AttendanceSessionStatus),
		RadiusM:     m.AttendanceSessionRadiusM,
		HotspotSSID: m.AttendanceSessionHotspotSSID,
		Lat:         m.AttendanceSessionLat,
		Lng:         m.AttendanceSessionLng,
		StartedAt:   m.AttendanceSessionStartedAt,
		EndedAt:     m.AttendanceSessionEndedAt,
	}
}

/* =======================================================
   RESPONSE: live status (dashboard trainer)
======================================================= */

type SessionAttendeeEntry struct {
	RecordID   uuid.UUID      `json:"record_id"`
	UserID     uuid.UUID      `json:"user_id"`
	UserName   string         `json:"user_name"`
	UserPhone  *string        `json:"user_phone,omitempty"`
	Method     string         `json:"method"`
	Timestamp  time.Time      `json:"timestamp"`
	Lat        *float64       `json:"lat,omitempty"`
	Lng        *float64       `json:"lng,omitempty"`
	Accuracy   *float64       `json:"accuracy,omitempty"`
	DeviceMeta map[string]any `json:"device_meta,omitempty"`
	Synced     bool           `json:"synced"`
	Verified   bool           `json:"verified"`
}

func AttendeeFromRecord(rec *attModel.AttendanceRecordModel) SessionAttendeeEntry {
	e := SessionAttendeeEntry{
		RecordID:  rec.AttendanceRecordID,
		UserID:    rec.AttendanceRecordUserID,
		UserName:  rec.AttendanceRecordUserName,
		UserPhone: rec.AttendanceRecordUserPhone,
		Method:    string(rec.AttendanceRecordMethod),
		Timestamp: rec.AttendanceRecordTimestamp,
		Lat:       rec.AttendanceRecordLat,
		Lng:       rec.AttendanceRecordLng,
		Accuracy:  rec.AttendanceRecordAccuracy,
		Synced:    rec.AttendanceRecordSynced,
		Verified:  rec.AttendanceRecordVerified,
	}
	if len(rec.AttendanceRecordDeviceMeta) > 0 {
		e.DeviceMeta = map[string]any(rec.AttendanceRecordDeviceMeta)
	}
	return e
}

type AttendanceSessionStatusResponse struct {
	Session       AttendanceSessionResponse `json:"session"`
	AttendeeCount int64                     `json:"attendee_count"`
	Attendees     []SessionAttendeeEntry    `json:"attendees"`
}
