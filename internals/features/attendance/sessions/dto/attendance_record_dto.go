// internals/features/attendance/sessions/dto/attendance_record_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	attModel "siagabencana_backend/internals/features/attendance/sessions/model"
)

/* =======================================================
   REQUEST: live mark (identitas dari token, bukan body)
======================================================= */

type MarkAttendanceRequest struct {
	Method string `json:"method" validate:"required,oneof=hotspot ble gps manual"`

	Lat      *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng      *float64 `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`
	Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,min=0"`

	DeviceMeta map[string]any `json:"device_meta,omitempty"`
}

func (r *MarkAttendanceRequest) Normalize() {
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
}

func (r *MarkAttendanceRequest) ToModel(session *attModel.AttendanceSessionModel, userID uuid.UUID, userName string, userPhone *string) *attModel.AttendanceRecordModel {
	m := &attModel.AttendanceRecordModel{
		AttendanceRecordSessionID:   session.AttendanceSessionID,
		AttendanceRecordUserID:      userID,
		AttendanceRecordTrainingRef: session.AttendanceSessionTrainingRef,
		AttendanceRecordUserName:    userName,
		AttendanceRecordUserPhone:   userPhone,
		AttendanceRecordMethod:      attModel.SessionMode(r.Method),
		AttendanceRecordTimestamp:   time.Now().UTC(),
		AttendanceRecordLat:         r.Lat,
		AttendanceRecordLng:         r.Lng,
		AttendanceRecordAccuracy:    r.Accuracy,
		AttendanceRecordSynced:      true,
		AttendanceRecordVerified:    false,
	}
	if len(r.DeviceMeta) > 0 {
		m.AttendanceRecordDeviceMeta = datatypes.JSONMap(r.DeviceMeta)
	}
	return m
}

/* =======================================================
   RESPONSE: ack minimal untuk mark
======================================================= */

type MarkAttendanceAck struct {
	RecordID  uuid.UUID `json:"record_id"`
	UserName  string    `json:"user_name"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
}

/* =======================================================
   REQUEST: batch sync (hasil offline)
======================================================= */

type BatchRecordInput struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Method string `json:"method" validate:"required,oneof=hotspot ble gps manual"`

	// Waktu capture di perangkat; kosong = pakai waktu terima server
	Timestamp *time.Time `json:"timestamp,omitempty"`

	Lat      *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng      *float64 `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`
	Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,min=0"`

	DeviceMeta map[string]any `json:"device_meta,omitempty"`
}

func (r *BatchRecordInput) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
}

func (r *BatchRecordInput) ToModel(session *attModel.AttendanceSessionModel, userID uuid.UUID, userName string, userPhone *string) *attModel.AttendanceRecordModel {
	ts := time.Now().UTC()
	if r.Timestamp != nil {
		ts = r.Timestamp.UTC()
	}
	m := &attModel.AttendanceRecordModel{
		AttendanceRecordSessionID:   session.AttendanceSessionID,
		AttendanceRecordUserID:      userID,
		AttendanceRecordTrainingRef: session.AttendanceSessionTrainingRef,
		AttendanceRecordUserName:    userName,
		AttendanceRecordUserPhone:   userPhone,
		AttendanceRecordMethod:      attModel.SessionMode(r.Method),
		AttendanceRecordTimestamp:   ts,
		AttendanceRecordLat:         r.Lat,
		AttendanceRecordLng:         r.Lng,
		AttendanceRecordAccuracy:    r.Accuracy,
		AttendanceRecordSynced:      false,
		AttendanceRecordVerified:    false,
	}
	if len(r.DeviceMeta) > 0 {
		m.AttendanceRecordDeviceMeta = datatypes.JSONMap(r.DeviceMeta)
	}
	return m
}

type BatchSyncRequest struct {
	Records []BatchRecordInput `json:"records" validate:"required,min=1,max=500,dive"`
}

/* =======================================================
   RESPONSE: ringkasan batch (partial success = normal)
======================================================= */

type BatchRecordError struct {
	Index  int    `json:"index"`
	UserID string `json:"user_id,omitempty"`
	Reason string `json:"reason"`
}

type BatchSyncSummary struct {
	Inserted int                `json:"inserted"`
	Errors   int                `json:"errors"`
	Details  []BatchRecordError `json:"details"`
}
