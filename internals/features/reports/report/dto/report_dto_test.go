// internals/features/reports/report/dto/report_dto_test.go
package dto

import (
	"testing"

	"github.com/google/uuid"

	reportModel "siagabencana_backend/internals/features/reports/report/model"
)

func sp(s string) *string { return &s }

func ip(n int) *int { return &n }

func TestCreateReportRequestNormalize(t *testing.T) {
	req := CreateReportRequest{
		Title:        "  Simulasi Banjir RW 05  ",
		Organization: sp("  BPBD DKI  "),
		TrainingType: sp("   "),
		SessionToken: "  SB-BJR-a1b2  ",
	}
	req.Normalize()

	if req.Title != "Simulasi Banjir RW 05" {
		t.Errorf("Title = %q", req.Title)
	}
	if req.Organization == nil || *req.Organization != "BPBD DKI" {
		t.Errorf("Organization = %v", req.Organization)
	}
	if req.TrainingType != nil {
		t.Errorf("TrainingType whitespace harus jadi nil, got %q", *req.TrainingType)
	}
	if req.SessionToken != "SB-BJR-a1b2" {
		t.Errorf("SessionToken = %q", req.SessionToken)
	}
}

func TestCreateReportRequestToModel(t *testing.T) {
	owner := uuid.New()

	t.Run("default draft", func(t *testing.T) {
		req := CreateReportRequest{Title: "Latihan Evakuasi", Participants: 25}
		m := req.ToModel(owner)

		if m.ReportUserID != owner {
			t.Errorf("ReportUserID = %v, want %v", m.ReportUserID, owner)
		}
		if m.ReportStatus != reportModel.ReportStatusDraft {
			t.Errorf("ReportStatus = %q, want draft", m.ReportStatus)
		}
		if m.ReportParticipants != 25 {
			t.Errorf("ReportParticipants = %d, want 25", m.ReportParticipants)
		}
		if m.ReportPhotoURLs != nil {
			t.Errorf("ReportPhotoURLs = %v, want nil", m.ReportPhotoURLs)
		}
	})

	t.Run("submit langsung pending", func(t *testing.T) {
		req := CreateReportRequest{
			Title:     "Latihan Evakuasi",
			Submit:    true,
			PhotoURLs: []string{"https://cdn.example.com/a.jpg"},
		}
		m := req.ToModel(owner)

		if m.ReportStatus != reportModel.ReportStatusPending {
			t.Errorf("ReportStatus = %q, want pending", m.ReportStatus)
		}
		if len(m.ReportPhotoURLs) != 1 || m.ReportPhotoURLs[0] != "https://cdn.example.com/a.jpg" {
			t.Errorf("ReportPhotoURLs = %v", m.ReportPhotoURLs)
		}
	})
}

func TestUpdateReportRequestApplyToModel(t *testing.T) {
	base := func() *reportModel.ReportModel {
		return &reportModel.ReportModel{
			ReportTitle:        "Judul Lama",
			ReportOrganization: sp("PMI"),
			ReportParticipants: 10,
		}
	}

	t.Run("field nil tidak menimpa", func(t *testing.T) {
		m := base()
		req := UpdateReportRequest{Title: sp("Judul Baru")}
		req.ApplyToModel(m)

		if m.ReportTitle != "Judul Baru" {
			t.Errorf("ReportTitle = %q", m.ReportTitle)
		}
		if m.ReportOrganization == nil || *m.ReportOrganization != "PMI" {
			t.Errorf("ReportOrganization tertimpa: %v", m.ReportOrganization)
		}
		if m.ReportParticipants != 10 {
			t.Errorf("ReportParticipants = %d, want 10", m.ReportParticipants)
		}
	})

	t.Run("klaim peserta manual", func(t *testing.T) {
		m := base()
		req := UpdateReportRequest{Participants: ip(50)}
		req.ApplyToModel(m)

		if m.ReportParticipants != 50 {
			t.Errorf("ReportParticipants = %d, want 50", m.ReportParticipants)
		}
	})

	t.Run("angka absensi live tidak bisa ditimpa manual", func(t *testing.T) {
		m := base()
		m.ReportHasLiveAttendance = true
		m.ReportParticipants = 37

		req := UpdateReportRequest{Participants: ip(500)}
		req.ApplyToModel(m)

		if m.ReportParticipants != 37 {
			t.Errorf("ReportParticipants = %d, want tetap 37", m.ReportParticipants)
		}
	})
}

func TestReviewReportRequestNormalize(t *testing.T) {
	req := ReviewReportRequest{Decision: "  ACCEPTED  ", RejectionReason: sp("  ")}
	req.Normalize()

	if req.Decision != "accepted" {
		t.Errorf("Decision = %q, want accepted", req.Decision)
	}
	if req.RejectionReason != nil {
		t.Errorf("RejectionReason whitespace harus nil")
	}
}

func TestFromReportModelListOmitsDetails(t *testing.T) {
	items := []reportModel.ReportModel{{
		ReportID:                uuid.New(),
		ReportTitle:             "Laporan A",
		ReportAttendanceDetails: []byte(`[{"user_id":"x"}]`),
	}}

	out := FromReportModelList(items)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].AttendanceDetails != nil {
		t.Errorf("list response harus tanpa attendance_details")
	}
	if out[0].Title != "Laporan A" {
		t.Errorf("Title = %q", out[0].Title)
	}
}
