package helper

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func isAlphaNumeric(s string) bool {
	hasLetter := regexp.MustCompile(`[A-Za-z]`).MatchString(s)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(s)
	return hasLetter && hasNumber
}

// Validasi Email (regex simple)
func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// ValidateRegisterInput — aturan minimal sebelum validasi struct
func ValidateRegisterInput(userName, email, password string) error {
	userName = strings.TrimSpace(userName)
	email = strings.TrimSpace(email)

	if len(userName) < 3 {
		return errors.New("username minimal 3 karakter")
	}
	if !isValidEmail(email) {
		return errors.New("format email tidak valid")
	}
	if len(password) < 8 {
		return errors.New("password minimal 8 karakter")
	}
	if !isAlphaNumeric(password) {
		return errors.New("password harus mengandung huruf dan angka")
	}
	return nil
}

func ValidateLoginInput(identifier, password string) error {
	if strings.TrimSpace(identifier) == "" {
		return errors.New("identifier wajib diisi")
	}
	if password == "" {
		return errors.New("password wajib diisi")
	}
	return nil
}

func ValidateChangePassword(currentPassword, newPassword string) error {
	if currentPassword == "" {
		return errors.New("password lama wajib diisi")
	}
	if len(newPassword) < 8 {
		return errors.New("password baru minimal 8 karakter")
	}
	if !isAlphaNumeric(newPassword) {
		return errors.New("password baru harus mengandung huruf dan angka")
	}
	if currentPassword == newPassword {
		return errors.New("password baru tidak boleh sama dengan password lama")
	}
	return nil
}

/* ====================== PASSWORD HASH ====================== */

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
