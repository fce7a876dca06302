package dto

import (
	"strings"
	"time"

	uModel "siagabencana_backend/internals/features/users/user/model"

	"github.com/google/uuid"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// UpdateProfileRequest — partial update profil sendiri
// (pakai pointer agar bisa bedakan omit vs kosong)
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	AgeBracket   *string `json:"age_bracket,omitempty" validate:"omitempty,max=20"`
	District     *string `json:"district,omitempty" validate:"omitempty,max=100"`
	State        *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Organization *string `json:"organization,omitempty" validate:"omitempty,max=150"`
}

// Normalize — trims if present
func (r *UpdateProfileRequest) Normalize() {
	trim := func(p **string) {
		if *p != nil {
			v := strings.TrimSpace(**p)
			*p = &v
		}
	}
	trim(&r.FullName)
	trim(&r.Phone)
	trim(&r.AgeBracket)
	trim(&r.District)
	trim(&r.State)
	trim(&r.Organization)
}

// ApplyToModel — terapkan perubahan parsial ke model existing
func (r *UpdateProfileRequest) ApplyToModel(m *uModel.UserModel) {
	if r.FullName != nil {
		m.FullName = *r.FullName
	}
	if r.Phone != nil {
		m.Phone = *r.Phone
	}
	if r.AgeBracket != nil {
		m.AgeBracket = *r.AgeBracket
	}
	if r.District != nil {
		m.District = *r.District
	}
	if r.State != nil {
		m.State = *r.State
	}
	if r.Organization != nil {
		m.Organization = *r.Organization
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

// Default response (tanpa password; aman untuk publik)
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	UserName     string    `json:"user_name"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone"`
	AgeBracket   string    `json:"age_bracket"`
	District     string    `json:"district"`
	State        string    `json:"state"`
	Organization string    `json:"organization"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FromModel — map model ke UserResponse
func FromModel(m *uModel.UserModel) *UserResponse {
	if m == nil {
		return nil
	}
	return &UserResponse{
		ID:           m.ID,
		UserName:     m.UserName,
		FullName:     m.FullName,
		Email:        m.Email,
		Role:         m.Role,
		Phone:        m.Phone,
		AgeBracket:   m.AgeBracket,
		District:     m.District,
		State:        m.State,
		Organization: m.Organization,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func FromModelList(list []uModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

// UserLookupResponse — proyeksi read-only untuk trainer/authority
// (field demografi yang dibekukan saat laporan ditautkan ke absensi)
type UserLookupResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	AgeBracket   string    `json:"age_bracket"`
	District     string    `json:"district"`
	State        string    `json:"state"`
	Organization string    `json:"organization"`
}

// displayName: full_name jika ada, fallback user_name
func displayName(m *uModel.UserModel) string {
	if strings.TrimSpace(m.FullName) != "" {
		return m.FullName
	}
	return m.UserName
}

func ToLookup(m *uModel.UserModel) *UserLookupResponse {
	if m == nil {
		return nil
	}
	return &UserLookupResponse{
		ID:           m.ID,
		Name:         displayName(m),
		Phone:        m.Phone,
		AgeBracket:   m.AgeBracket,
		District:     m.District,
		State:        m.State,
		Organization: m.Organization,
	}
}
