// internals/features/reports/report/service/link_attendance_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	attModel "siagabencana_backend/internals/features/attendance/sessions/model"
)

func TestAssembleSnapshotsProfileOverridesRecordCopy(t *testing.T) {
	uid := uuid.New()
	phone := "0811111111"
	ts := time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)

	records := []attModel.AttendanceRecordModel{{
		AttendanceRecordUserID:    uid,
		AttendanceRecordUserName:  "budi",
		AttendanceRecordUserPhone: &phone,
		AttendanceRecordMethod:    attModel.SessionModeGPS,
		AttendanceRecordTimestamp: ts,
	}}
	byUser := map[uuid.UUID]demographicRow{
		uid: {
			ID:         uid,
			UserName:   "budi",
			FullName:   "Budi Santoso",
			Phone:      "0822222222",
			AgeBracket: "26-35",
			District:   "Coblong",
			State:      "Jawa Barat",
		},
	}

	snaps := assembleSnapshots(records, byUser)
	if len(snaps) != 1 {
		t.Fatalf("len = %d, want 1", len(snaps))
	}
	sn := snaps[0]
	if sn.UserID != uid.String() {
		t.Errorf("UserID = %q, want %q", sn.UserID, uid.String())
	}
	if sn.Name != "Budi Santoso" {
		t.Errorf("Name = %q, want profil full_name", sn.Name)
	}
	if sn.Phone != "0822222222" {
		t.Errorf("Phone = %q, want nomor dari profil", sn.Phone)
	}
	if sn.AgeBracket != "26-35" || sn.District != "Coblong" || sn.State != "Jawa Barat" {
		t.Errorf("demografi = %q/%q/%q", sn.AgeBracket, sn.District, sn.State)
	}
	if sn.Method != "gps" {
		t.Errorf("Method = %q, want gps", sn.Method)
	}
	if !sn.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", sn.Timestamp, ts)
	}
}

func TestAssembleSnapshotsPartialProfile(t *testing.T) {
	uid := uuid.New()
	phone := "0811111111"

	records := []attModel.AttendanceRecordModel{{
		AttendanceRecordUserID:    uid,
		AttendanceRecordUserName:  "sari_d",
		AttendanceRecordUserPhone: &phone,
		AttendanceRecordMethod:    attModel.SessionModeManual,
		AttendanceRecordTimestamp: time.Now().UTC(),
	}}
	// full_name dan phone kosong di profil
	byUser := map[uuid.UUID]demographicRow{
		uid: {ID: uid, UserName: "sari.dewi", District: "Lengkong"},
	}

	sn := assembleSnapshots(records, byUser)[0]
	if sn.Name != "sari.dewi" {
		t.Errorf("Name = %q, want user_name sebagai fallback", sn.Name)
	}
	if sn.Phone != "0811111111" {
		t.Errorf("Phone = %q, want salinan record dipertahankan", sn.Phone)
	}
	if sn.District != "Lengkong" || sn.AgeBracket != "" {
		t.Errorf("demografi = %q/%q", sn.District, sn.AgeBracket)
	}
}

func TestAssembleSnapshotsMissingProfileKeepsRecordCopy(t *testing.T) {
	uid := uuid.New()

	records := []attModel.AttendanceRecordModel{{
		AttendanceRecordUserID:    uid,
		AttendanceRecordUserName:  "warga_hapus",
		AttendanceRecordMethod:    attModel.SessionModeHotspot,
		AttendanceRecordTimestamp: time.Now().UTC(),
	}}

	sn := assembleSnapshots(records, map[uuid.UUID]demographicRow{})[0]
	if sn.Name != "warga_hapus" {
		t.Errorf("Name = %q, want salinan record", sn.Name)
	}
	if sn.Phone != "" {
		t.Errorf("Phone = %q, want kosong (record tanpa telepon)", sn.Phone)
	}
	if sn.AgeBracket != "" || sn.District != "" || sn.State != "" {
		t.Errorf("demografi harus kosong tanpa profil: %q/%q/%q", sn.AgeBracket, sn.District, sn.State)
	}
}

func TestAssembleSnapshotsKeepsOrder(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	records := []attModel.AttendanceRecordModel{
		{AttendanceRecordUserID: u1, AttendanceRecordUserName: "pertama", AttendanceRecordMethod: attModel.SessionModeBLE},
		{AttendanceRecordUserID: u2, AttendanceRecordUserName: "kedua", AttendanceRecordMethod: attModel.SessionModeGPS},
	}

	snaps := assembleSnapshots(records, map[uuid.UUID]demographicRow{})
	if len(snaps) != 2 {
		t.Fatalf("len = %d, want 2", len(snaps))
	}
	if snaps[0].Name != "pertama" || snaps[1].Name != "kedua" {
		t.Errorf("urutan record berubah: %q, %q", snaps[0].Name, snaps[1].Name)
	}
}
