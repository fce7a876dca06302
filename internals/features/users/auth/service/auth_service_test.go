// internals/features/users/auth/service/auth_service_test.go
package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	userModel "siagabencana_backend/internals/features/users/user/model"
)

func TestComputeRefreshHash(t *testing.T) {
	h1 := computeRefreshHash("token-a", "secret-1")
	h2 := computeRefreshHash("token-a", "secret-1")
	if !bytes.Equal(h1, h2) {
		t.Errorf("hash harus deterministik untuk input sama")
	}
	if len(h1) != 32 {
		t.Errorf("panjang hash = %d, want 32 (SHA-256)", len(h1))
	}

	if bytes.Equal(h1, computeRefreshHash("token-b", "secret-1")) {
		t.Errorf("token beda harus menghasilkan hash beda")
	}
	if bytes.Equal(h1, computeRefreshHash("token-a", "secret-2")) {
		t.Errorf("secret beda harus menghasilkan hash beda")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"duplicate key", errString("ERROR: duplicate key value violates unique constraint \"users_email_key\""), true},
		{"unique saja", errString("UNIQUE constraint failed: users.email"), true},
		{"error lain", errString("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestBuildAccessClaims(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	user := userModel.UserModel{
		ID:       uuid.New(),
		UserName: "bpbd_jakarta",
		FullName: "BPBD DKI Jakarta",
		Role:     "authority",
	}

	claims := buildAccessClaims(user, now)

	if claims["typ"] != "access" {
		t.Errorf("typ = %v", claims["typ"])
	}
	if claims["sub"] != user.ID.String() || claims["id"] != user.ID.String() {
		t.Errorf("sub/id = %v/%v", claims["sub"], claims["id"])
	}
	if claims["user_name"] != "bpbd_jakarta" || claims["role"] != "authority" {
		t.Errorf("user_name/role = %v/%v", claims["user_name"], claims["role"])
	}
	if claims["iat"] != now.Unix() {
		t.Errorf("iat = %v, want %d", claims["iat"], now.Unix())
	}
	exp, _ := claims["exp"].(int64)
	if exp-now.Unix() != int64(accessTTLDefault/time.Second) {
		t.Errorf("exp delta = %d detik, want %d", exp-now.Unix(), int64(accessTTLDefault/time.Second))
	}
}

func TestBuildRefreshClaims(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	uid := uuid.New()

	claims := buildRefreshClaims(uid, now)

	if claims["typ"] != "refresh" {
		t.Errorf("typ = %v", claims["typ"])
	}
	if claims["sub"] != uid.String() {
		t.Errorf("sub = %v", claims["sub"])
	}
	// refresh token tidak boleh membawa profil/role
	if _, ok := claims["role"]; ok {
		t.Errorf("refresh claims tidak boleh memuat role")
	}
	exp, _ := claims["exp"].(int64)
	if exp-now.Unix() != int64(refreshTTLDefault/time.Second) {
		t.Errorf("exp delta = %d detik, want %d", exp-now.Unix(), int64(refreshTTLDefault/time.Second))
	}
}

func TestResolveBlacklistTTL(t *testing.T) {
	t.Run("override env", func(t *testing.T) {
		t.Setenv("BLACKLIST_TTL_SECONDS", "90")
		if got := resolveBlacklistTTL(""); got != 90*time.Second {
			t.Errorf("TTL = %v, want 90s", got)
		}
	})

	t.Run("env invalid jatuh ke default", func(t *testing.T) {
		t.Setenv("BLACKLIST_TTL_SECONDS", "nol")
		if got := resolveBlacklistTTL(""); got != 2*time.Minute {
			t.Errorf("TTL = %v, want 2m", got)
		}
	})

	t.Run("token kosong pakai default", func(t *testing.T) {
		t.Setenv("BLACKLIST_TTL_SECONDS", "")
		if got := resolveBlacklistTTL(""); got != 2*time.Minute {
			t.Errorf("TTL = %v, want 2m", got)
		}
	})

	t.Run("ikut sisa umur token", func(t *testing.T) {
		t.Setenv("BLACKLIST_TTL_SECONDS", "")
		t.Setenv("JWT_SECRET", "rahasia-test")

		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(10 * time.Minute).Unix(),
		})
		signed, err := tok.SignedString([]byte("rahasia-test"))
		if err != nil {
			t.Fatalf("signing: %v", err)
		}

		got := resolveBlacklistTTL(signed)
		// sisa umur (~10 menit) + buffer 60 detik
		if got < 10*time.Minute || got > 12*time.Minute {
			t.Errorf("TTL = %v, want sekitar 11m", got)
		}
	})
}
