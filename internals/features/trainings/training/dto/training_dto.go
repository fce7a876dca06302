// internals/features/trainings/training/dto/training_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	trainingModel "siagabencana_backend/internals/features/trainings/training/model"
)

/* =======================================================
   REQUEST: create
======================================================= */

type CreateTrainingRequest struct {
	Title     string  `json:"title" validate:"required,min=3,max=200"`
	Type      string  `json:"type" validate:"required,min=2,max=50"`
	Organizer *string `json:"organizer,omitempty" validate:"omitempty,max=150"`

	LocationName *string  `json:"location_name,omitempty" validate:"omitempty,max=200"`
	Lat          *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng          *float64 `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`

	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`

	Description  *string  `json:"description,omitempty"`
	MaterialURLs []string `json:"material_urls,omitempty" validate:"omitempty,dive,url"`
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

func (r *CreateTrainingRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Organizer = trimPtr(r.Organizer)
	r.LocationName = trimPtr(r.LocationName)
	r.Description = trimPtr(r.Description)
}

func (r *CreateTrainingRequest) ToModel(creatorID uuid.UUID) *trainingModel.TrainingModel {
	m := &trainingModel.TrainingModel{
		TrainingTitle:        r.Title,
		TrainingType:         r.Type,
		TrainingOrganizer:    r.Organizer,
		TrainingLocationName: r.LocationName,
		TrainingLat:          r.Lat,
		TrainingLng:          r.Lng,
		TrainingStartAt:      r.StartAt,
		TrainingEndAt:        r.EndAt,
		TrainingDescription:  r.Description,
		TrainingCreatedBy:    &creatorID,
	}
	if len(r.MaterialURLs) > 0 {
		m.TrainingMaterialURLs = pq.StringArray(r.MaterialURLs)
	}
	return m
}

/* =======================================================
   REQUEST: update (partial, hanya field non-nil)
======================================================= */

type UpdateTrainingRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Type      *string `json:"type,omitempty" validate:"omitempty,min=2,max=50"`
	Organizer *string `json:"organizer,omitempty" validate:"omitempty,max=150"`

	LocationName *string  `json:"location_name,omitempty" validate:"omitempty,max=200"`
	Lat          *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng          *float64 `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`

	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`

	Description  *string   `json:"description,omitempty"`
	MaterialURLs *[]string `json:"material_urls,omitempty" validate:"omitempty,dive,url"`
}

func (r *UpdateTrainingRequest) Normalize() {
	r.Title = trimPtr(r.Title)
	if r.Type != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Type))
		r.Type = &v
	}
	r.Organizer = trimPtr(r.Organizer)
	r.LocationName = trimPtr(r.LocationName)
}

func (r *UpdateTrainingRequest) ApplyToModel(m *trainingModel.TrainingModel) {
	if r.Title != nil {
		m.TrainingTitle = *r.Title
	}
	if r.Type != nil && *r.Type != "" {
		m.TrainingType = *r.Type
	}
	if r.Organizer != nil {
		m.TrainingOrganizer = r.Organizer
	}
	if r.LocationName != nil {
		m.TrainingLocationName = r.LocationName
	}
	if r.Lat != nil {
		m.TrainingLat = r.Lat
	}
	if r.Lng != nil {
		m.TrainingLng = r.Lng
	}
	if r.StartAt != nil {
		m.TrainingStartAt = r.StartAt
	}
	if r.EndAt != nil {
		m.TrainingEndAt = r.EndAt
	}
	if r.Description != nil {
		m.TrainingDescription = r.Description
	}
	if r.MaterialURLs != nil {
		m.TrainingMaterialURLs = pq.StringArray(*r.MaterialURLs)
	}
}

/* =======================================================
   RESPONSE
======================================================= */

type TrainingResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	Organizer    *string    `json:"organizer,omitempty"`
	LocationName *string    `json:"location_name,omitempty"`
	Lat          *float64   `json:"lat,omitempty"`
	Lng          *float64   `json:"lng,omitempty"`
	StartAt      *time.Time `json:"start_at,omitempty"`
	EndAt        *time.Time `json:"end_at,omitempty"`
	Description  *string    `json:"description,omitempty"`
	MaterialURLs []string   `json:"material_urls,omitempty"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func FromTrainingModel(m *trainingModel.TrainingModel) TrainingResponse {
	return TrainingResponse{
		ID:           m.TrainingID,
		Title:        m.TrainingTitle,
		Type:         m.TrainingType,
		Organizer:    m.TrainingOrganizer,
		LocationName: m.TrainingLocationName,
		Lat:          m.TrainingLat,
		Lng:          m.TrainingLng,
		StartAt:      m.TrainingStartAt,
		EndAt:        m.TrainingEndAt,
		Description:  m.TrainingDescription,
		MaterialURLs: []string(m.TrainingMaterialURLs),
		CreatedBy:    m.TrainingCreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func FromTrainingModelList(items []trainingModel.TrainingModel) []TrainingResponse {
	out := make([]TrainingResponse, 0, len(items))
	for i := range items {
		out = append(out, FromTrainingModel(&items[i]))
	}
	return out
}
