// internals/features/attendance/sessions/service/session_token_test.go
package service

import (
	"strings"
	"testing"
)

func TestGenerateSessionTokenFormat(t *testing.T) {
	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error: %v", err)
	}

	parts := strings.Split(token, "-")
	if len(parts) != 3 {
		t.Fatalf("token %q: got %d segmen, want 3", token, len(parts))
	}
	if parts[0] != "SB" {
		t.Errorf("prefix = %q, want %q", parts[0], "SB")
	}
	if parts[1] != strings.ToUpper(parts[1]) {
		t.Errorf("segmen waktu %q harus uppercase", parts[1])
	}
	if len(parts[2]) != 16 {
		t.Errorf("suffix acak %q: len = %d, want 16 hex char", parts[2], len(parts[2]))
	}
	for _, ch := range parts[2] {
		if !strings.ContainsRune("0123456789abcdef", ch) {
			t.Errorf("suffix %q mengandung karakter non-hex %q", parts[2], ch)
		}
	}
}

func TestGenerateSessionTokenUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		token, err := GenerateSessionToken()
		if err != nil {
			t.Fatalf("GenerateSessionToken() error: %v", err)
		}
		if seen[token] {
			t.Fatalf("token duplikat pada iterasi %d: %q", i, token)
		}
		seen[token] = true
	}
}
