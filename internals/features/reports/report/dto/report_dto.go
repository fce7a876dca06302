// internals/features/reports/report/dto/report_dto.go
package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	reportModel "siagabencana_backend/internals/features/reports/report/model"
)

/* =======================================================
   REQUEST: create
======================================================= */

type CreateReportRequest struct {
	Title        string  `json:"title" validate:"required,min=3,max=200"`
	TrainingRef  *string `json:"training_ref,omitempty" validate:"omitempty,max=120"`
	Organization *string `json:"organization,omitempty" validate:"omitempty,max=150"`
	TrainingType *string `json:"training_type,omitempty" validate:"omitempty,max=50"`

	Date         *time.Time `json:"date,omitempty"`
	LocationName *string    `json:"location_name,omitempty" validate:"omitempty,max=200"`
	Lat          *float64   `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng          *float64   `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`

	Participants int      `json:"participants" validate:"omitempty,min=0"`
	Description  *string  `json:"description,omitempty"`
	PhotoURLs    []string `json:"photo_urls,omitempty" validate:"omitempty,dive,url"`

	// Link implisit ke sesi absensi; token tidak dikenal = warning, bukan error
	SessionToken string `json:"session_token,omitempty"`

	// true = langsung masuk antrean review tanpa mampir draft
	Submit bool `json:"submit,omitempty"`
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func (r *CreateReportRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.TrainingRef = trimPtr(r.TrainingRef)
	r.Organization = trimPtr(r.Organization)
	r.TrainingType = trimPtr(r.TrainingType)
	r.LocationName = trimPtr(r.LocationName)
	r.Description = trimPtr(r.Description)
	r.SessionToken = strings.TrimSpace(r.SessionToken)
}

func (r *CreateReportRequest) ToModel(ownerID uuid.UUID) *reportModel.ReportModel {
	m := &reportModel.ReportModel{
		ReportUserID:       ownerID,
		ReportTrainingRef:  r.TrainingRef,
		ReportTitle:        r.Title,
		ReportOrganization: r.Organization,
		ReportTrainingType: r.TrainingType,
		ReportDate:         r.Date,
		ReportLocationName: r.LocationName,
		ReportLat:          r.Lat,
		ReportLng:          r.Lng,
		ReportParticipants: r.Participants,
		ReportDescription:  r.Description,
		ReportStatus:       reportModel.ReportStatusDraft,
	}
	if r.Submit {
		m.ReportStatus = reportModel.ReportStatusPending
	}
	if len(r.PhotoURLs) > 0 {
		m.ReportPhotoURLs = pq.StringArray(r.PhotoURLs)
	}
	return m
}

/* =======================================================
   REQUEST: update (pemilik; draft/rejected saja)
======================================================= */

type UpdateReportRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	TrainingRef  *string `json:"training_ref,omitempty" validate:"omitempty,max=120"`
	Organization *string `json:"organization,omitempty" validate:"omitempty,max=150"`
	TrainingType *string `json:"training_type,omitempty" validate:"omitempty,max=50"`

	Date         *time.Time `json:"date,omitempty"`
	LocationName *string    `json:"location_name,omitempty" validate:"omitempty,max=200"`
	Lat          *float64   `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng          *float64   `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`

	Participants *int      `json:"participants,omitempty" validate:"omitempty,min=0"`
	Description  *string   `json:"description,omitempty"`
	PhotoURLs    *[]string `json:"photo_urls,omitempty" validate:"omitempty,dive,url"`
}

func (r *UpdateReportRequest) Normalize() {
	r.Title = trimPtr(r.Title)
	r.TrainingRef = trimPtr(r.TrainingRef)
	r.Organization = trimPtr(r.Organization)
	r.TrainingType = trimPtr(r.TrainingType)
	r.LocationName = trimPtr(r.LocationName)
}

func (r *UpdateReportRequest) ApplyToModel(m *reportModel.ReportModel) {
	if r.Title != nil {
		m.ReportTitle = *r.Title
	}
	if r.TrainingRef != nil {
		m.ReportTrainingRef = r.TrainingRef
	}
	if r.Organization != nil {
		m.ReportOrganization = r.Organization
	}
	if r.TrainingType != nil {
		m.ReportTrainingType = r.TrainingType
	}
	if r.Date != nil {
		m.ReportDate = r.Date
	}
	if r.LocationName != nil {
		m.ReportLocationName = r.LocationName
	}
	if r.Lat != nil {
		m.ReportLat = r.Lat
	}
	if r.Lng != nil {
		m.ReportLng = r.Lng
	}
	if r.Participants != nil && !m.ReportHasLiveAttendance {
		// klaim manual hanya berlaku selama belum tertaut absensi
		m.ReportParticipants = *r.Participants
	}
	if r.Description != nil {
		m.ReportDescription = r.Description
	}
	if r.PhotoURLs != nil {
		m.ReportPhotoURLs = pq.StringArray(*r.PhotoURLs)
	}
}

/* =======================================================
   REQUEST: review & link
======================================================= */

type ReviewReportRequest struct {
	Decision        string  `json:"decision" validate:"required,oneof=accepted rejected"`
	RejectionReason *string `json:"rejection_reason,omitempty" validate:"required_if=Decision rejected,omitempty,min=3"`
}

func (r *ReviewReportRequest) Normalize() {
	r.Decision = strings.ToLower(strings.TrimSpace(r.Decision))
	r.RejectionReason = trimPtr(r.RejectionReason)
}

type LinkAttendanceRequest struct {
	SessionToken string `json:"session_token"`
}

/* =======================================================
   RESPONSE
======================================================= */

type ReportResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	TrainingRef  *string    `json:"training_ref,omitempty"`
	Title        string     `json:"title"`
	Organization *string    `json:"organization,omitempty"`
	TrainingType *string    `json:"training_type,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	LocationName *string    `json:"location_name,omitempty"`
	Lat          *float64   `json:"lat,omitempty"`
	Lng          *float64   `json:"lng,omitempty"`
	Participants int        `json:"participants"`
	Description  *string    `json:"description,omitempty"`
	PhotoURLs    []string   `json:"photo_urls,omitempty"`

	Status          string     `json:"status"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	HasLiveAttendance   bool            `json:"has_live_attendance"`
	AttendanceSessionID *uuid.UUID      `json:"attendance_session_id,omitempty"`
	AttendanceCount     int             `json:"attendance_count"`
	AttendanceDetails   json.RawMessage `json:"attendance_details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromReportModel(m *reportModel.ReportModel) ReportResponse {
	resp := ReportResponse{
		ID:                  m.ReportID,
		UserID:              m.ReportUserID,
		TrainingRef:         m.ReportTrainingRef,
		Title:               m.ReportTitle,
		Organization:        m.ReportOrganization,
		TrainingType:        m.ReportTrainingType,
		Date:                m.ReportDate,
		LocationName:        m.ReportLocationName,
		Lat:                 m.ReportLat,
		Lng:                 m.ReportLng,
		Participants:        m.ReportParticipants,
		Description:         m.ReportDescription,
		PhotoURLs:           []string(m.ReportPhotoURLs),
		Status:              string(m.ReportStatus),
		ReviewedBy:          m.ReportReviewedBy,
		ReviewedAt:          m.ReportReviewedAt,
		RejectionReason:     m.ReportRejectionReason,
		HasLiveAttendance:   m.ReportHasLiveAttendance,
		AttendanceSessionID: m.ReportAttendanceSessionID,
		AttendanceCount:     m.ReportAttendanceCount,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if len(m.ReportAttendanceDetails) > 0 {
		resp.AttendanceDetails = json.RawMessage(m.ReportAttendanceDetails)
	}
	return resp
}

// FromReportModelList: versi list tanpa attendance_details (payload berat).
func FromReportModelList(items []reportModel.ReportModel) []ReportResponse {
	out := make([]ReportResponse, 0, len(items))
	for i := range items {
		r := FromReportModel(&items[i])
		r.AttendanceDetails = nil
		out = append(out, r)
	}
	return out
}
