// internals/features/reports/report/service/analytics_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	reportDTO "siagabencana_backend/internals/features/reports/report/dto"
)

func strp(s string) *string { return &s }

func flp(f float64) *float64 { return &f }

func TestMonthKeys(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want []string
	}{
		{
			name: "pertengahan bulan",
			now:  time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
			want: []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"},
		},
		{
			name: "lintas tahun",
			now:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			want: []string{"2023-09", "2023-10", "2023-11", "2023-12", "2024-01", "2024-02"},
		},
		{
			// 31 Maret - 1 bulan naif = 31 Feb = 2/3 Maret; normalisasi
			// ke tanggal 1 mencegah bucket Februari hilang
			name: "akhir bulan tidak meleset",
			now:  time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC),
			want: []string{"2023-10", "2023-11", "2023-12", "2024-01", "2024-02", "2024-03"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := monthKeys(tt.now, 6)
			if len(got) != len(tt.want) {
				t.Fatalf("monthKeys() len = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("monthKeys()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSortedKeyCountsTieBreak(t *testing.T) {
	got := sortedKeyCounts(map[string]int64{
		"banjir": 2,
		"gempa":  5,
		"abu":    2,
	})
	want := []reportDTO.KeyCount{
		{Key: "gempa", Count: 5},
		{Key: "abu", Count: 2},
		{Key: "banjir", Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTopN(t *testing.T) {
	kcs := []reportDTO.KeyCount{{Key: "a", Count: 9}, {Key: "b", Count: 8}, {Key: "c", Count: 7}}
	if got := topN(kcs, 5); len(got) != 3 {
		t.Errorf("topN di bawah limit: len = %d, want 3", len(got))
	}
	if got := topN(kcs, 2); len(got) != 2 || got[1].Key != "b" {
		t.Errorf("topN(2) = %v, want [a b]", got)
	}
}

func TestFoldAnalytics(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)
	twoMonthsAgo := time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC)
	lastYear := time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)

	rows := []reportStatRow{
		{Status: "accepted", TrainingType: strp("gempa"), CreatedAt: thisMonth, Participants: 40, HasLive: true, AttendanceCount: 35},
		{Status: "accepted", TrainingType: strp("banjir"), CreatedAt: twoMonthsAgo, Participants: 20, HasLive: false},
		{Status: "pending", TrainingType: nil, CreatedAt: thisMonth, Participants: 99},
		{Status: "draft", TrainingType: strp("gempa"), CreatedAt: lastYear, Participants: 10},
		{Status: "rejected", TrainingType: strp(""), CreatedAt: twoMonthsAgo, Participants: 5},
	}

	resp := foldAnalytics(rows, nil, now)

	if resp.TotalReports != 5 {
		t.Errorf("TotalReports = %d, want 5", resp.TotalReports)
	}
	if resp.ByStatus.Accepted != 2 || resp.ByStatus.Pending != 1 || resp.ByStatus.Draft != 1 || resp.ByStatus.Rejected != 1 {
		t.Errorf("ByStatus = %+v", resp.ByStatus)
	}
	if resp.WithLiveAttendance != 1 {
		t.Errorf("WithLiveAttendance = %d, want 1", resp.WithLiveAttendance)
	}
	// hanya klaim dari laporan accepted yang dihitung
	if resp.TotalParticipants != 60 {
		t.Errorf("TotalParticipants = %d, want 60", resp.TotalParticipants)
	}

	// 6 bucket bulan selalu terisi (zero-seeded), tertua dulu
	if len(resp.Monthly) != 6 {
		t.Fatalf("Monthly len = %d, want 6", len(resp.Monthly))
	}
	if resp.Monthly[0].Month != "2024-01" || resp.Monthly[5].Month != "2024-06" {
		t.Errorf("rentang bulan = %s..%s, want 2024-01..2024-06", resp.Monthly[0].Month, resp.Monthly[5].Month)
	}
	byMonth := map[string]reportDTO.MonthlyBucket{}
	for _, b := range resp.Monthly {
		byMonth[b.Month] = b
	}
	if byMonth["2024-06"].Reports != 2 {
		t.Errorf("2024-06 reports = %d, want 2", byMonth["2024-06"].Reports)
	}
	if byMonth["2024-06"].Attendance != 35 {
		t.Errorf("2024-06 attendance = %d, want 35", byMonth["2024-06"].Attendance)
	}
	if byMonth["2024-04"].Reports != 2 {
		t.Errorf("2024-04 reports = %d, want 2", byMonth["2024-04"].Reports)
	}
	if byMonth["2024-02"].Reports != 0 {
		t.Errorf("bulan kosong harus 0, got %d", byMonth["2024-02"].Reports)
	}

	// nil dan string kosong sama-sama masuk bucket "unknown"
	types := map[string]int64{}
	for _, kc := range resp.ByTrainingType {
		types[kc.Key] = kc.Count
	}
	if types["gempa"] != 2 || types["banjir"] != 1 || types[unknownBucket] != 2 {
		t.Errorf("ByTrainingType = %v", types)
	}

	// jumlah semua bucket status == total
	sum := resp.ByStatus.Draft + resp.ByStatus.Pending + resp.ByStatus.Accepted + resp.ByStatus.Rejected
	if sum != resp.TotalReports {
		t.Errorf("Σ status = %d, want %d", sum, resp.TotalReports)
	}
}

func TestFoldDemographics(t *testing.T) {
	good := datatypes.JSON([]byte(`[
		{"user_id":"u1","name":"Budi","age_bracket":"26-35","district":"Coblong","state":"Jawa Barat","method":"gps","timestamp":"2024-06-01T07:00:00Z"},
		{"user_id":"u2","name":"Sari","age_bracket":"26-35","district":"Lengkong","state":"Jawa Barat","method":"hotspot","timestamp":"2024-06-01T07:01:00Z"},
		{"user_id":"u1","name":"Budi","age_bracket":"","district":"","state":"","method":"manual","timestamp":"2024-06-02T07:00:00Z"}
	]`))
	broken := datatypes.JSON([]byte(`{not json`))
	empty := datatypes.JSON(nil)

	out := foldDemographics([]datatypes.JSON{good, broken, empty})

	if out.TotalAttendees != 3 {
		t.Errorf("TotalAttendees = %d, want 3", out.TotalAttendees)
	}
	if out.UniqueAttendees != 2 {
		t.Errorf("UniqueAttendees = %d, want 2", out.UniqueAttendees)
	}

	ages := map[string]int64{}
	for _, kc := range out.AgeBrackets {
		ages[kc.Key] = kc.Count
	}
	if ages["26-35"] != 2 || ages[unknownBucket] != 1 {
		t.Errorf("AgeBrackets = %v", ages)
	}

	methods := map[string]int64{}
	for _, kc := range out.Methods {
		methods[kc.Key] = kc.Count
	}
	if methods["gps"] != 1 || methods["hotspot"] != 1 || methods["manual"] != 1 {
		t.Errorf("Methods = %v", methods)
	}
}

func TestFoldDemographicsTopFive(t *testing.T) {
	blob := datatypes.JSON([]byte(`[
		{"user_id":"a","district":"D1","method":"gps","timestamp":"2024-06-01T07:00:00Z"},
		{"user_id":"b","district":"D1","method":"gps","timestamp":"2024-06-01T07:00:00Z"},
		{"user_id":"c","district":"D2","method":"gps","timestamp":"2024-06-01T07:00:00Z"},
		{"user_id":"d","district":"D3","method":"gps","timestamp":"2024-06-01T07:00:00Z"},
		{"user_id":"e","district":"D4","method":"gps","timestamp":"2024-06-01T07:00:00Z"},
		{"user_id":"f","district":"D5","method":"gps","timestamp":"2024-06-01T07:00:00Z"},
		{"user_id":"g","district":"D6","method":"gps","timestamp":"2024-06-01T07:00:00Z"}
	]`))

	out := foldDemographics([]datatypes.JSON{blob})

	if len(out.TopDistricts) != 5 {
		t.Fatalf("TopDistricts len = %d, want 5", len(out.TopDistricts))
	}
	if out.TopDistricts[0].Key != "D1" || out.TopDistricts[0].Count != 2 {
		t.Errorf("peringkat 1 = %+v, want D1/2", out.TopDistricts[0])
	}
	// sisanya count 1, urut alfabet; D6 terpotong
	if out.TopDistricts[4].Key != "D5" {
		t.Errorf("peringkat 5 = %+v, want D5", out.TopDistricts[4])
	}
	for _, kc := range out.TopDistricts {
		if kc.Key == "D6" {
			t.Errorf("D6 seharusnya terpotong dari top-5")
		}
	}
}

func TestFoldOrganizations(t *testing.T) {
	rows := []reportStatRow{
		{Status: "accepted", Organization: strp("BPBD DKI"), Participants: 30, HasLive: true, AttendanceCount: 28},
		{Status: "pending", Organization: strp("BPBD DKI"), Participants: 10},
		{Status: "accepted", Organization: nil, Participants: 15},
		{Status: "draft", Organization: strp("  ")},
		{Status: "accepted", Organization: strp("PMI"), Participants: 12, HasLive: true, AttendanceCount: 12},
		{Status: "rejected", Organization: strp("PMI")},
	}

	resp := foldOrganizations(rows)

	if resp.TotalOrganizations != 3 {
		t.Fatalf("TotalOrganizations = %d, want 3 (%+v)", resp.TotalOrganizations, resp.Organizations)
	}

	// 2-2-2 seri; urut alfabet: BPBD DKI, PMI, unknown
	if resp.Organizations[0].Organization != "BPBD DKI" ||
		resp.Organizations[1].Organization != "PMI" ||
		resp.Organizations[2].Organization != unknownBucket {
		t.Errorf("urutan organisasi salah: %+v", resp.Organizations)
	}

	bpbd := resp.Organizations[0]
	if bpbd.TotalReports != 2 || bpbd.ByStatus.Accepted != 1 || bpbd.ByStatus.Pending != 1 {
		t.Errorf("BPBD entry = %+v", bpbd)
	}
	if bpbd.TotalParticipants != 30 {
		t.Errorf("BPBD participants = %d, want 30 (pending tidak dihitung)", bpbd.TotalParticipants)
	}
	if bpbd.TotalAttendees != 28 {
		t.Errorf("BPBD attendees = %d, want 28", bpbd.TotalAttendees)
	}

	unknown := resp.Organizations[2]
	if unknown.TotalReports != 2 {
		t.Errorf("unknown total = %d, want 2 (nil + whitespace)", unknown.TotalReports)
	}
	if unknown.TotalParticipants != 15 {
		t.Errorf("unknown participants = %d, want 15", unknown.TotalParticipants)
	}
}

func TestFoldOrganizationsPoints(t *testing.T) {
	withGeo := uuid.New()
	rows := []reportStatRow{
		{ID: withGeo, Title: "Simulasi Gempa", Status: "accepted", Organization: strp("BPBD DKI"),
			Participants: 30, HasLive: true, AttendanceCount: 28, Lat: flp(-6.2), Lng: flp(106.8)},
		// accepted tanpa koordinat: masuk rollup, tidak jadi titik
		{ID: uuid.New(), Title: "Pelatihan P3K", Status: "accepted", Organization: strp("BPBD DKI"), Participants: 10},
		// pending dengan koordinat: bukan titik peta
		{ID: uuid.New(), Title: "Draft Banjir", Status: "pending", Organization: strp("BPBD DKI"), Lat: flp(-6.9), Lng: flp(107.6)},
	}

	resp := foldOrganizations(rows)

	if len(resp.Organizations) != 1 {
		t.Fatalf("Organizations len = %d, want 1", len(resp.Organizations))
	}
	entry := resp.Organizations[0]
	if len(entry.Points) != 1 {
		t.Fatalf("Points len = %d, want 1 (hanya accepted+koordinat)", len(entry.Points))
	}
	p := entry.Points[0]
	if p.ID != withGeo || p.Title != "Simulasi Gempa" || p.Lat != -6.2 || p.Lng != 106.8 {
		t.Errorf("point = %+v", p)
	}
	if p.Participants != 30 || p.AttendanceCount != 28 || !p.HasLiveAttendance {
		t.Errorf("point rollup = %+v", p)
	}
}

func TestFilterOrganizations(t *testing.T) {
	base := reportDTO.OrganizationAnalyticsResponse{
		TotalOrganizations: 3,
		Organizations: []reportDTO.OrganizationAnalyticsEntry{
			{Organization: "BPBD DKI", TotalReports: 4},
			{Organization: "PMI", TotalReports: 2},
			{Organization: "unknown", TotalReports: 1},
		},
	}

	tests := []struct {
		name     string
		filter   string
		wantLen  int
		wantOrgs []string
	}{
		{name: "kosong berarti semua", filter: "", wantLen: 3, wantOrgs: []string{"BPBD DKI", "PMI", "unknown"}},
		{name: "spasi saja berarti semua", filter: "   ", wantLen: 3, wantOrgs: []string{"BPBD DKI", "PMI", "unknown"}},
		{name: "cocok case-insensitive", filter: "pmi", wantLen: 1, wantOrgs: []string{"PMI"}},
		{name: "tidak cocok", filter: "Basarnas", wantLen: 0, wantOrgs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterOrganizations(base, tt.filter)
			if got.TotalOrganizations != int64(tt.wantLen) || len(got.Organizations) != tt.wantLen {
				t.Fatalf("TotalOrganizations = %d, len = %d, want %d",
					got.TotalOrganizations, len(got.Organizations), tt.wantLen)
			}
			for i, org := range tt.wantOrgs {
				if got.Organizations[i].Organization != org {
					t.Errorf("[%d] = %q, want %q", i, got.Organizations[i].Organization, org)
				}
			}
		})
	}
}
