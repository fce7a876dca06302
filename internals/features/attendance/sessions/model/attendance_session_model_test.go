// internals/features/attendance/sessions/model/attendance_session_model_test.go
package model

import "testing"

func TestSessionModeValid(t *testing.T) {
	tests := []struct {
		mode SessionMode
		want bool
	}{
		{SessionModeHotspot, true},
		{SessionModeBLE, true},
		{SessionModeGPS, true},
		{SessionModeManual, true},
		{SessionMode(""), false},
		{SessionMode("wifi"), false},
		{SessionMode("HOTSPOT"), false}, // case-sensitive; Normalize di DTO yang lowercase-kan
	}
	for _, tt := range tests {
		if got := tt.mode.Valid(); got != tt.want {
			t.Errorf("SessionMode(%q).Valid() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestSessionIsActive(t *testing.T) {
	tests := []struct {
		status SessionStatus
		want   bool
	}{
		{SessionStatusActive, true},
		{SessionStatusCompleted, false},
		{SessionStatusExpired, false},
	}
	for _, tt := range tests {
		s := AttendanceSessionModel{AttendanceSessionStatus: tt.status}
		if got := s.IsActive(); got != tt.want {
			t.Errorf("status %q: IsActive() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
