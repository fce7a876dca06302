// internals/features/reports/report/service/analytics_service.go
package service

import (
	"log"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	reportDTO "siagabencana_backend/internals/features/reports/report/dto"
	reportModel "siagabencana_backend/internals/features/reports/report/model"
)

const (
	monthlyWindow = 6 // bulan kalender berjalan, termasuk bulan ini
	topNLimit     = 5
	unknownBucket = "unknown"
)

// Aggregator menyekat strategi scan analitik dari controller; semua
// rollup dihitung on-demand dari tabel laporan.
type Aggregator interface {
	AnalyticsWithAttendance(now time.Time) (*reportDTO.AttendanceAnalyticsResponse, error)
	LiveMap() (*reportDTO.LiveMapResponse, error)
	AnalyticsByOrganization(organization string) (*reportDTO.OrganizationAnalyticsResponse, error)
}

type AnalyticsService struct {
	DB *gorm.DB
}

var _ Aggregator = (*AnalyticsService)(nil)

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

// Proyeksi ringan satu laporan untuk agregasi (tanpa snapshot JSONB).
type reportStatRow struct {
	ID              uuid.UUID
	Title           string
	Status          string
	Organization    *string
	TrainingType    *string
	Date            *time.Time
	CreatedAt       time.Time
	Participants    int64
	HasLive         bool
	AttendanceCount int64
	Lat             *float64
	Lng             *float64
}

func (s *AnalyticsService) fetchStatRows() ([]reportStatRow, error) {
	var rows []reportStatRow
	err := s.DB.Model(&reportModel.ReportModel{}).
		Select(`report_id AS id,
			report_title AS title,
			report_status AS status,
			report_organization AS organization,
			report_training_type AS training_type,
			report_date AS date,
			created_at,
			report_participants AS participants,
			report_has_live_attendance AS has_live,
			report_attendance_count AS attendance_count,
			report_lat AS lat,
			report_lng AS lng`).
		Scan(&rows).Error
	return rows, err
}

func (s *AnalyticsService) fetchAcceptedSnapshots() ([]datatypes.JSON, error) {
	var blobs []datatypes.JSON
	err := s.DB.Model(&reportModel.ReportModel{}).
		Where("report_status = ? AND report_has_live_attendance = TRUE", reportModel.ReportStatusAccepted).
		Pluck("report_attendance_details", &blobs).Error
	return blobs, err
}

/* =======================================================
   GET /api/reports/analytics-with-attendance
======================================================= */

func (s *AnalyticsService) AnalyticsWithAttendance(now time.Time) (*reportDTO.AttendanceAnalyticsResponse, error) {
	rows, err := s.fetchStatRows()
	if err != nil {
		return nil, err
	}
	blobs, err := s.fetchAcceptedSnapshots()
	if err != nil {
		return nil, err
	}
	resp := foldAnalytics(rows, blobs, now)
	return &resp, nil
}

/* =======================================================
   GET /api/reports/live-map
======================================================= */

func (s *AnalyticsService) LiveMap() (*reportDTO.LiveMapResponse, error) {
	var items []reportModel.ReportModel
	err := s.DB.
		Where("report_status = ? AND report_lat IS NOT NULL AND report_lng IS NOT NULL",
			reportModel.ReportStatusAccepted).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	points := make([]reportDTO.LiveMapPoint, 0, len(items))
	for i := range items {
		m := &items[i]
		points = append(points, reportDTO.LiveMapPoint{
			ID:                m.ReportID,
			Title:             m.ReportTitle,
			Organization:      m.ReportOrganization,
			TrainingType:      m.ReportTrainingType,
			Date:              m.ReportDate,
			Lat:               *m.ReportLat,
			Lng:               *m.ReportLng,
			Participants:      m.ReportParticipants,
			HasLiveAttendance: m.ReportHasLiveAttendance,
			AttendanceCount:   m.ReportAttendanceCount,
		})
	}

	return &reportDTO.LiveMapResponse{
		Total:  int64(len(points)),
		Points: points,
	}, nil
}

/* =======================================================
   GET /api/reports/analytics-by-organization
======================================================= */

func (s *AnalyticsService) AnalyticsByOrganization(organization string) (*reportDTO.OrganizationAnalyticsResponse, error) {
	rows, err := s.fetchStatRows()
	if err != nil {
		return nil, err
	}
	resp := filterOrganizations(foldOrganizations(rows), organization)
	return &resp, nil
}

/* =======================================================
   Fold murni (tanpa DB) — dipisah supaya gampang diuji
======================================================= */

func foldAnalytics(rows []reportStatRow, blobs []datatypes.JSON, now time.Time) reportDTO.AttendanceAnalyticsResponse {
	resp := reportDTO.AttendanceAnalyticsResponse{}

	months := monthKeys(now, monthlyWindow)
	bucketIdx := make(map[string]int, len(months))
	resp.Monthly = make([]reportDTO.MonthlyBucket, len(months))
	for i, mo := range months {
		resp.Monthly[i] = reportDTO.MonthlyBucket{Month: mo}
		bucketIdx[mo] = i
	}

	typeCounts := map[string]int64{}

	for i := range rows {
		r := &rows[i]
		resp.TotalReports++
		bumpStatus(&resp.ByStatus, r.Status)
		if r.HasLive {
			resp.WithLiveAttendance++
		}
		if r.Status == string(reportModel.ReportStatusAccepted) {
			resp.TotalParticipants += r.Participants
		}

		typeCounts[keyOrUnknown(r.TrainingType)]++

		if idx, ok := bucketIdx[r.CreatedAt.UTC().Format("2006-01")]; ok {
			resp.Monthly[idx].Reports++
			if r.HasLive {
				resp.Monthly[idx].Attendance += r.AttendanceCount
			}
		}
	}

	resp.ByTrainingType = sortedKeyCounts(typeCounts)
	resp.Demographics = foldDemographics(blobs)
	return resp
}

func foldDemographics(blobs []datatypes.JSON) reportDTO.DemographicBreakdown {
	out := reportDTO.DemographicBreakdown{}
	ages := map[string]int64{}
	districts := map[string]int64{}
	states := map[string]int64{}
	methods := map[string]int64{}
	seen := map[string]struct{}{}

	for _, blob := range blobs {
		if len(blob) == 0 {
			continue
		}
		var snaps []reportModel.AttendeeSnapshot
		if err := sonic.Unmarshal([]byte(blob), &snaps); err != nil {
			log.Printf("[ANALYTICS] snapshot rusak, dilewati: %v", err)
			continue
		}
		for i := range snaps {
			sn := &snaps[i]
			out.TotalAttendees++
			if sn.UserID != "" {
				if _, ok := seen[sn.UserID]; !ok {
					seen[sn.UserID] = struct{}{}
					out.UniqueAttendees++
				}
			}
			ages[stringOrUnknown(sn.AgeBracket)]++
			districts[stringOrUnknown(sn.District)]++
			states[stringOrUnknown(sn.State)]++
			if sn.Method != "" {
				methods[sn.Method]++
			}
		}
	}

	out.AgeBrackets = sortedKeyCounts(ages)
	out.TopDistricts = topN(sortedKeyCounts(districts), topNLimit)
	out.TopStates = topN(sortedKeyCounts(states), topNLimit)
	out.Methods = sortedKeyCounts(methods)
	return out
}

func foldOrganizations(rows []reportStatRow) reportDTO.OrganizationAnalyticsResponse {
	byOrg := map[string]*reportDTO.OrganizationAnalyticsEntry{}

	for i := range rows {
		r := &rows[i]
		org := keyOrUnknown(r.Organization)
		entry, ok := byOrg[org]
		if !ok {
			entry = &reportDTO.OrganizationAnalyticsEntry{Organization: org}
			byOrg[org] = entry
		}
		entry.TotalReports++
		bumpStatus(&entry.ByStatus, r.Status)
		if r.Status == string(reportModel.ReportStatusAccepted) {
			entry.TotalParticipants += r.Participants
			if r.HasLive {
				entry.TotalAttendees += r.AttendanceCount
			}
			if r.Lat != nil && r.Lng != nil {
				entry.Points = append(entry.Points, reportDTO.LiveMapPoint{
					ID:                r.ID,
					Title:             r.Title,
					Organization:      r.Organization,
					TrainingType:      r.TrainingType,
					Date:              r.Date,
					Lat:               *r.Lat,
					Lng:               *r.Lng,
					Participants:      int(r.Participants),
					HasLiveAttendance: r.HasLive,
					AttendanceCount:   int(r.AttendanceCount),
				})
			}
		}
	}

	entries := make([]reportDTO.OrganizationAnalyticsEntry, 0, len(byOrg))
	for _, e := range byOrg {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].TotalReports != entries[b].TotalReports {
			return entries[a].TotalReports > entries[b].TotalReports
		}
		return entries[a].Organization < entries[b].Organization
	})

	return reportDTO.OrganizationAnalyticsResponse{
		TotalOrganizations: int64(len(entries)),
		Organizations:      entries,
	}
}

// filterOrganizations menyempitkan rollup ke satu organisasi bila
// query ?organization= diisi; kosong berarti semua.
func filterOrganizations(resp reportDTO.OrganizationAnalyticsResponse, organization string) reportDTO.OrganizationAnalyticsResponse {
	org := strings.TrimSpace(organization)
	if org == "" {
		return resp
	}
	filtered := make([]reportDTO.OrganizationAnalyticsEntry, 0, 1)
	for _, e := range resp.Organizations {
		if strings.EqualFold(e.Organization, org) {
			filtered = append(filtered, e)
		}
	}
	resp.Organizations = filtered
	resp.TotalOrganizations = int64(len(filtered))
	return resp
}

/* =======================================================
   Util kecil
======================================================= */

// monthKeys: n bulan kalender terakhir (termasuk bulan now), tertua dulu.
// Dinormalkan ke tanggal 1 dulu supaya aritmetika bulan tidak meleset
// di akhir bulan (mis. 31 Maret - 1 bulan).
func monthKeys(now time.Time, n int) []string {
	base := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, base.AddDate(0, -i, 0).Format("2006-01"))
	}
	return keys
}

func bumpStatus(b *reportDTO.StatusBreakdown, status string) {
	switch reportModel.ReportStatus(status) {
	case reportModel.ReportStatusDraft:
		b.Draft++
	case reportModel.ReportStatusPending:
		b.Pending++
	case reportModel.ReportStatusAccepted:
		b.Accepted++
	case reportModel.ReportStatusRejected:
		b.Rejected++
	}
}

func keyOrUnknown(p *string) string {
	if p == nil {
		return unknownBucket
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return unknownBucket
	}
	return v
}

func stringOrUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return unknownBucket
	}
	return v
}

// sortedKeyCounts: count desc, lalu key asc untuk tie.
func sortedKeyCounts(m map[string]int64) []reportDTO.KeyCount {
	out := make([]reportDTO.KeyCount, 0, len(m))
	for k, v := range m {
		out = append(out, reportDTO.KeyCount{Key: k, Count: v})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Key < out[b].Key
	})
	return out
}

func topN(kcs []reportDTO.KeyCount, n int) []reportDTO.KeyCount {
	if len(kcs) <= n {
		return kcs
	}
	return kcs[:n]
}
