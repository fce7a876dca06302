// internals/features/attendance/sessions/service/session_token.go
package service

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// GenerateSessionToken membuat token join sesi: prefix waktu (base36)
// + suffix acak kriptografis. Unik ditegakkan index DB; token ini yang
// disebar trainer ke peserta, jadi tidak boleh bisa ditebak.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UTC().Unix(), 36))
	return "SB-" + ts + "-" + hex.EncodeToString(buf), nil
}
