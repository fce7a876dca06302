// file: internals/helpers/json_response_test.go
package helper

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestBuildPaginationFromPage(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		page       int
		perPage    int
		wantPages  int
		wantNext   bool
		wantPrev   bool
		wantPage   int
		wantPerPer int
	}{
		{"halaman tengah", 95, 2, 20, 5, true, true, 2, 20},
		{"halaman terakhir pas", 100, 5, 20, 5, false, true, 5, 20},
		{"total nol tetap 1 halaman", 0, 1, 20, 1, false, false, 1, 20},
		{"page nol dikoreksi", 30, 0, 10, 3, true, false, 1, 10},
		{"per_page nol pakai default", 45, 1, 0, 3, true, false, 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPaginationFromPage(tt.total, tt.page, tt.perPage)
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.HasNext != tt.wantNext || got.HasPrev != tt.wantPrev {
				t.Errorf("HasNext/HasPrev = %v/%v, want %v/%v", got.HasNext, got.HasPrev, tt.wantNext, tt.wantPrev)
			}
			if got.Page != tt.wantPage || got.PerPage != tt.wantPerPer {
				t.Errorf("Page/PerPage = %d/%d, want %d/%d", got.Page, got.PerPage, tt.wantPage, tt.wantPerPer)
			}
			if got.Total != tt.total {
				t.Errorf("Total = %d, want %d", got.Total, tt.total)
			}
		})
	}
}

func TestResolvePaging(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantPer    int
		wantOffset int
	}{
		{"tanpa query pakai default", "", 1, 20, 0},
		{"page dan per_page", "?page=3&per_page=10", 3, 10, 20},
		{"alias limit", "?limit=25", 1, 25, 0},
		{"per_page menang atas limit", "?per_page=15&limit=99", 1, 15, 0},
		{"per_page di atas max dipangkas", "?per_page=500", 1, 100, 0},
		{"page invalid jadi 1", "?page=abc", 1, 20, 0},
		{"page negatif jadi 1", "?page=-2", 1, 20, 0},
	}

	app := fiber.New()
	var got Paging
	app.Get("/probe", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, 20, 100)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/probe"+tt.query, nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			resp.Body.Close()

			if got.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", got.Page, tt.wantPage)
			}
			if got.PerPage != tt.wantPer || got.Limit != tt.wantPer {
				t.Errorf("PerPage/Limit = %d/%d, want %d", got.PerPage, got.Limit, tt.wantPer)
			}
			if got.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", got.Offset, tt.wantOffset)
			}
		})
	}
}

func TestStatusToErrorCode(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{fiber.StatusBadRequest, "BAD_REQUEST"},
		{fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{fiber.StatusForbidden, "FORBIDDEN"},
		{fiber.StatusNotFound, "NOT_FOUND"},
		{fiber.StatusConflict, "CONFLICT"},
		{fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{fiber.StatusInternalServerError, "INTERNAL_ERROR"},
		{fiber.StatusBadGateway, "INTERNAL_ERROR"},
		{fiber.StatusTeapot, "ERROR"},
	}
	for _, tt := range tests {
		if got := statusToErrorCode(tt.status); got != tt.want {
			t.Errorf("statusToErrorCode(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestJsonErrorEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return JsonError(c, fiber.StatusConflict, "Anda sudah absen di sesi ini")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var body ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, raw)
	}
	if body.Success {
		t.Errorf("success = true, want false")
	}
	if body.Message != "Anda sudah absen di sesi ini" {
		t.Errorf("message = %q", body.Message)
	}
	if body.ErrorCode != "CONFLICT" {
		t.Errorf("error_code = %q, want CONFLICT", body.ErrorCode)
	}
}

func TestJsonFromErrorFiberPassthrough(t *testing.T) {
	app := fiber.New()
	app.Get("/notfound", func(c *fiber.Ctx) error {
		return JsonFromError(c, fiber.NewError(fiber.StatusNotFound, "Sesi absensi tidak ditemukan"))
	})
	app.Get("/opaque", func(c *fiber.Ctx) error {
		return JsonFromError(c, io.ErrUnexpectedEOF)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/notfound", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("fiber.Error harus meneruskan status, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/opaque", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("error biasa harus 500, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	var body ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// detail error internal tidak boleh bocor ke klien
	if body.Message != "Terjadi kesalahan pada server" {
		t.Errorf("message = %q", body.Message)
	}
}
