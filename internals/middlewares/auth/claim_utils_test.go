// internals/middlewares/auth/claim_utils_test.go
package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		cookie  string
		want    string
		wantErr bool
	}{
		{name: "bearer standar", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "case-insensitive", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "spasi ganda", header: "Bearer   abc.def.ghi", want: "abc.def.ghi"},
		{name: "token terkutip", header: `Bearer "abc.def.ghi"`, want: "abc.def.ghi"},
		{name: "fallback cookie", cookie: "abc.def.ghi", want: "abc.def.ghi"},
		{name: "tanpa apa-apa", wantErr: true},
		{name: "skema salah", header: "Basic abc", wantErr: true},
		{name: "bearer tanpa token", header: "Bearer", wantErr: true},
	}

	app := fiber.New()
	var (
		got    string
		gotErr error
	)
	app.Get("/probe", func(c *fiber.Ctx) error {
		got, gotErr = extractBearerToken(c)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			resp.Body.Close()

			if tt.wantErr {
				if gotErr == nil {
					t.Errorf("want error, got token %q", got)
				}
				return
			}
			if gotErr != nil {
				t.Fatalf("unexpected error: %v", gotErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateTokenExpiry(t *testing.T) {
	future := time.Now().Add(1 * time.Hour).Unix()
	past := time.Now().Add(-1 * time.Hour).Unix()
	justPast := time.Now().Add(-10 * time.Second).Unix()

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		skew    time.Duration
		wantErr bool
	}{
		{"masih berlaku", jwt.MapClaims{"exp": float64(future)}, 0, false},
		{"sudah lewat", jwt.MapClaims{"exp": float64(past)}, 0, true},
		{"lewat tapi dalam toleransi skew", jwt.MapClaims{"exp": float64(justPast)}, 30 * time.Second, false},
		{"lewat melebihi skew", jwt.MapClaims{"exp": float64(past)}, 30 * time.Second, true},
		{"tanpa exp", jwt.MapClaims{}, 0, true},
		{"exp string valid", jwt.MapClaims{"exp": "9999999999"}, 0, false},
		{"exp string rusak", jwt.MapClaims{"exp": "bukan-angka"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTokenExpiry(tt.claims, tt.skew)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTokenExpiry() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExtractUserID(t *testing.T) {
	valid := uuid.New()

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    uuid.UUID
		wantErr bool
	}{
		{"id valid", jwt.MapClaims{"id": valid.String()}, valid, false},
		{"id dengan spasi", jwt.MapClaims{"id": "  " + valid.String() + "  "}, valid, false},
		{"tanpa id", jwt.MapClaims{}, uuid.Nil, true},
		{"id bukan string", jwt.MapClaims{"id": 12345}, uuid.Nil, true},
		{"id bukan uuid", jwt.MapClaims{"id": "bukan-uuid"}, uuid.Nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractUserID(tt.claims)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("userID = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseInt64(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"1712000000", 1712000000, false},
		{"12a3", 0, true},
		{"-5", 0, true},
	}
	for _, tt := range tests {
		got, err := parseInt64(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseInt64(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseInt64(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
