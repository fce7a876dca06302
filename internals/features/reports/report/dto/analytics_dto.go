// internals/features/reports/report/dto/analytics_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

/* =======================================================
   Analytics (konsumsi authority/admin)
======================================================= */

type StatusBreakdown struct {
	Draft    int64 `json:"draft"`
	Pending  int64 `json:"pending"`
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
}

// KeyCount: pasangan label-jumlah, terurut count desc lalu key asc.
type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// MonthlyBucket: satu bulan kalender "YYYY-MM".
type MonthlyBucket struct {
	Month      string `json:"month"`
	Reports    int64  `json:"reports"`
	Attendance int64  `json:"attendance"`
}

type DemographicBreakdown struct {
	// Sumber: snapshot peserta dari laporan accepted yang tertaut absensi
	TotalAttendees  int64      `json:"total_attendees"`
	UniqueAttendees int64      `json:"unique_attendees"`
	AgeBrackets     []KeyCount `json:"age_brackets"`
	TopDistricts    []KeyCount `json:"top_districts"`
	TopStates       []KeyCount `json:"top_states"`
	Methods         []KeyCount `json:"methods"`
}

type AttendanceAnalyticsResponse struct {
	TotalReports       int64           `json:"total_reports"`
	ByStatus           StatusBreakdown `json:"by_status"`
	WithLiveAttendance int64           `json:"with_live_attendance"`
	TotalParticipants  int64           `json:"total_participants"`

	ByTrainingType []KeyCount      `json:"by_training_type"`
	Monthly        []MonthlyBucket `json:"monthly"`

	Demographics DemographicBreakdown `json:"demographics"`
}

/* =======================================================
   Live map (laporan accepted yang punya koordinat)
======================================================= */

type LiveMapPoint struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Organization      *string    `json:"organization,omitempty"`
	TrainingType      *string    `json:"training_type,omitempty"`
	Date              *time.Time `json:"date,omitempty"`
	Lat               float64    `json:"lat"`
	Lng               float64    `json:"lng"`
	Participants      int        `json:"participants"`
	HasLiveAttendance bool       `json:"has_live_attendance"`
	AttendanceCount   int        `json:"attendance_count"`
}

type LiveMapResponse struct {
	Total  int64          `json:"total"`
	Points []LiveMapPoint `json:"points"`
}

/* =======================================================
   Rollup per organisasi
======================================================= */

type OrganizationAnalyticsEntry struct {
	Organization      string          `json:"organization"`
	TotalReports      int64           `json:"total_reports"`
	ByStatus          StatusBreakdown `json:"by_status"`
	TotalParticipants int64           `json:"total_participants"`
	TotalAttendees    int64           `json:"total_attendees"`

	// Titik peta dari laporan accepted milik organisasi ini
	Points []LiveMapPoint `json:"points,omitempty"`
}

type OrganizationAnalyticsResponse struct {
	TotalOrganizations int64                        `json:"total_organizations"`
	Organizations      []OrganizationAnalyticsEntry `json:"organizations"`
}
