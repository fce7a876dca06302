// internals/features/reports/report/model/report_model_test.go
package model

import "testing"

func TestReportStatusEditable(t *testing.T) {
	tests := []struct {
		name   string
		status ReportStatus
		want   bool
	}{
		{"draft bisa diedit", ReportStatusDraft, true},
		{"rejected bisa diperbaiki", ReportStatusRejected, true},
		{"pending terkunci", ReportStatusPending, false},
		{"accepted terkunci", ReportStatusAccepted, false},
		{"status asing terkunci", ReportStatus("archived"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Editable(); got != tt.want {
				t.Errorf("Editable(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
