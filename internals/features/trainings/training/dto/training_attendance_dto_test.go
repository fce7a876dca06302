// internals/features/trainings/training/dto/training_attendance_dto_test.go
package dto

import (
	"testing"

	"github.com/google/uuid"

	attModel "siagabencana_backend/internals/features/attendance/sessions/model"
	trainingModel "siagabencana_backend/internals/features/trainings/training/model"
)

func TestBuildTrainingAttendance(t *testing.T) {
	s1, s2 := uuid.New(), uuid.New()
	u1, u2 := uuid.New(), uuid.New()

	training := &trainingModel.TrainingModel{
		TrainingID:    uuid.New(),
		TrainingTitle: "Simulasi Gempa Sekolah",
	}
	sessions := []attModel.AttendanceSessionModel{
		{AttendanceSessionID: s1, AttendanceSessionToken: "SB-AAA-1111"},
		{AttendanceSessionID: s2, AttendanceSessionToken: "SB-BBB-2222"},
	}
	// u1 hadir di dua sesi; unique harus tetap 2
	records := []attModel.AttendanceRecordModel{
		{AttendanceRecordSessionID: s1, AttendanceRecordUserID: u1, AttendanceRecordUserName: "budi", AttendanceRecordMethod: attModel.SessionModeGPS},
		{AttendanceRecordSessionID: s1, AttendanceRecordUserID: u2, AttendanceRecordUserName: "sari", AttendanceRecordMethod: attModel.SessionModeHotspot},
		{AttendanceRecordSessionID: s2, AttendanceRecordUserID: u1, AttendanceRecordUserName: "budi", AttendanceRecordMethod: attModel.SessionModeGPS},
	}

	resp := BuildTrainingAttendance(training, sessions, records)

	if resp.Training.Title != "Simulasi Gempa Sekolah" {
		t.Errorf("Training.Title = %q", resp.Training.Title)
	}
	if len(resp.Sessions) != 2 {
		t.Fatalf("Sessions len = %d, want 2", len(resp.Sessions))
	}
	if resp.Sessions[0].RecordCount != 2 || len(resp.Sessions[0].Records) != 2 {
		t.Errorf("sesi 1 count = %d/%d, want 2/2", resp.Sessions[0].RecordCount, len(resp.Sessions[0].Records))
	}
	if resp.Sessions[1].RecordCount != 1 {
		t.Errorf("sesi 2 count = %d, want 1", resp.Sessions[1].RecordCount)
	}

	br := resp.Breakdown
	if br.TotalRecords != 3 {
		t.Errorf("TotalRecords = %d, want 3", br.TotalRecords)
	}
	if br.UniqueParticipants != 2 {
		t.Errorf("UniqueParticipants = %d, want 2", br.UniqueParticipants)
	}
	if br.ByMethod["gps"] != 2 || br.ByMethod["hotspot"] != 1 {
		t.Errorf("ByMethod = %v", br.ByMethod)
	}
	if br.BySession["SB-AAA-1111"] != 2 || br.BySession["SB-BBB-2222"] != 1 {
		t.Errorf("BySession = %v", br.BySession)
	}
}

func TestBuildTrainingAttendanceEmptySession(t *testing.T) {
	sid := uuid.New()
	training := &trainingModel.TrainingModel{TrainingID: uuid.New(), TrainingTitle: "Dapur Umum"}
	sessions := []attModel.AttendanceSessionModel{
		{AttendanceSessionID: sid, AttendanceSessionToken: "SB-CCC-3333"},
	}

	resp := BuildTrainingAttendance(training, sessions, nil)

	if resp.Sessions[0].RecordCount != 0 {
		t.Errorf("RecordCount = %d, want 0", resp.Sessions[0].RecordCount)
	}
	// slice kosong, bukan nil, supaya JSON-nya [] dan bukan null
	if resp.Sessions[0].Records == nil {
		t.Errorf("Records harus slice kosong, bukan nil")
	}
	if resp.Breakdown.BySession["SB-CCC-3333"] != 0 {
		t.Errorf("BySession = %v", resp.Breakdown.BySession)
	}
	if resp.Breakdown.UniqueParticipants != 0 || resp.Breakdown.TotalRecords != 0 {
		t.Errorf("Breakdown = %+v", resp.Breakdown)
	}
}
