// internals/features/attendance/sessions/dto/attendance_dto_test.go
package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"

	attModel "siagabencana_backend/internals/features/attendance/sessions/model"
)

func TestCreateSessionRequestNormalize(t *testing.T) {
	ssid := "  Posko-Gempa  "
	req := CreateAttendanceSessionRequest{
		TrainingRef: "  TRN-2024-001  ",
		Mode:        "  HOTSPOT ",
		HotspotSSID: &ssid,
	}
	req.Normalize()

	if req.TrainingRef != "TRN-2024-001" {
		t.Errorf("TrainingRef = %q, want %q", req.TrainingRef, "TRN-2024-001")
	}
	if req.Mode != "hotspot" {
		t.Errorf("Mode = %q, want %q", req.Mode, "hotspot")
	}
	if req.HotspotSSID == nil || *req.HotspotSSID != "Posko-Gempa" {
		t.Errorf("HotspotSSID = %v, want Posko-Gempa", req.HotspotSSID)
	}
}

func TestCreateSessionRequestNormalizeEmptySSID(t *testing.T) {
	ssid := "   "
	req := CreateAttendanceSessionRequest{TrainingRef: "x", Mode: "gps", HotspotSSID: &ssid}
	req.Normalize()
	if req.HotspotSSID != nil {
		t.Errorf("SSID whitespace harus jadi nil, got %q", *req.HotspotSSID)
	}
}

func TestCreateSessionRequestToModelDefaults(t *testing.T) {
	trainerID := uuid.New()
	req := CreateAttendanceSessionRequest{TrainingRef: "TRN-1", Mode: "ble"}

	m := req.ToModel(trainerID, "Rina", "SB-AAA-bbb")

	if m.AttendanceSessionRadiusM != 30 {
		t.Errorf("radius default = %d, want 30", m.AttendanceSessionRadiusM)
	}
	if m.AttendanceSessionStatus != attModel.SessionStatusActive {
		t.Errorf("status = %q, want active", m.AttendanceSessionStatus)
	}
	if m.AttendanceSessionMode != attModel.SessionModeBLE {
		t.Errorf("mode = %q, want ble", m.AttendanceSessionMode)
	}
	if m.AttendanceSessionTrainerID != trainerID {
		t.Errorf("trainer id tidak cocok")
	}
	if m.AttendanceSessionToken != "SB-AAA-bbb" {
		t.Errorf("token = %q", m.AttendanceSessionToken)
	}
	if m.AttendanceSessionStartedAt.IsZero() {
		t.Errorf("started_at tidak boleh zero")
	}
}

func TestCreateSessionRequestToModelRadiusOverride(t *testing.T) {
	radius := 150
	req := CreateAttendanceSessionRequest{TrainingRef: "TRN-1", Mode: "gps", RadiusM: &radius}
	m := req.ToModel(uuid.New(), "Rina", "SB-AAA-ccc")
	if m.AttendanceSessionRadiusM != 150 {
		t.Errorf("radius = %d, want 150", m.AttendanceSessionRadiusM)
	}
}

func TestMarkRequestToModelLive(t *testing.T) {
	session := &attModel.AttendanceSessionModel{
		AttendanceSessionID:          uuid.New(),
		AttendanceSessionTrainingRef: "TRN-9",
	}
	userID := uuid.New()
	phone := "+628111"

	req := MarkAttendanceRequest{Method: "gps"}
	m := req.ToModel(session, userID, "Budi", &phone)

	if !m.AttendanceRecordSynced {
		t.Errorf("record live harus synced=true")
	}
	if m.AttendanceRecordVerified {
		t.Errorf("record baru tidak boleh verified")
	}
	if m.AttendanceRecordSessionID != session.AttendanceSessionID {
		t.Errorf("session id tidak cocok")
	}
	if m.AttendanceRecordTrainingRef != "TRN-9" {
		t.Errorf("training ref = %q, want TRN-9", m.AttendanceRecordTrainingRef)
	}
	if m.AttendanceRecordUserName != "Budi" {
		t.Errorf("snapshot nama = %q, want Budi", m.AttendanceRecordUserName)
	}
	if m.AttendanceRecordUserPhone == nil || *m.AttendanceRecordUserPhone != "+628111" {
		t.Errorf("snapshot phone tidak cocok")
	}
	if m.AttendanceRecordTimestamp.Location() != time.UTC {
		t.Errorf("timestamp harus UTC")
	}
}

func TestBatchRecordToModelOffline(t *testing.T) {
	session := &attModel.AttendanceSessionModel{
		AttendanceSessionID:          uuid.New(),
		AttendanceSessionTrainingRef: "TRN-9",
	}
	userID := uuid.New()

	// Timestamp perangkat dipertahankan (dikonversi UTC)
	jakarta := time.FixedZone("WIB", 7*3600)
	captured := time.Date(2024, 6, 1, 14, 30, 0, 0, jakarta)

	req := BatchRecordInput{UserID: userID.String(), Method: "manual", Timestamp: &captured}
	m := req.ToModel(session, userID, "Budi", nil)

	if m.AttendanceRecordSynced {
		t.Errorf("record batch harus synced=false")
	}
	want := captured.UTC()
	if !m.AttendanceRecordTimestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", m.AttendanceRecordTimestamp, want)
	}
	if m.AttendanceRecordTimestamp.Location() != time.UTC {
		t.Errorf("timestamp harus disimpan UTC")
	}
}

func TestBatchRecordToModelServerTimeFallback(t *testing.T) {
	session := &attModel.AttendanceSessionModel{AttendanceSessionID: uuid.New()}
	before := time.Now().UTC()

	req := BatchRecordInput{UserID: uuid.NewString(), Method: "ble"}
	m := req.ToModel(session, uuid.New(), "Budi", nil)

	after := time.Now().UTC()
	ts := m.AttendanceRecordTimestamp
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp fallback %v di luar rentang [%v, %v]", ts, before, after)
	}
}

func TestBatchRecordNormalize(t *testing.T) {
	req := BatchRecordInput{UserID: "  ABC  ", Method: " GPS "}
	req.Normalize()
	if req.UserID != "ABC" {
		t.Errorf("UserID = %q, want ABC", req.UserID)
	}
	if req.Method != "gps" {
		t.Errorf("Method = %q, want gps", req.Method)
	}
}
