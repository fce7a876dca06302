// internals/features/trainings/training/model/training_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

/* =========================================
   MODEL: trainings
   Entitas referensi; attendance hanya memegang
   training_ref string dan tidak pernah join ke sini.
========================================= */

type TrainingModel struct {
	TrainingID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:training_id" json:"training_id"`

	TrainingTitle     string  `gorm:"type:varchar(200);not null;column:training_title" json:"training_title"`
	TrainingType      string  `gorm:"type:varchar(50);not null;column:training_type" json:"training_type"`
	TrainingOrganizer *string `gorm:"type:varchar(150);column:training_organizer" json:"training_organizer,omitempty"`

	TrainingLocationName *string  `gorm:"type:varchar(200);column:training_location_name" json:"training_location_name,omitempty"`
	TrainingLat          *float64 `gorm:"column:training_lat" json:"training_lat,omitempty"`
	TrainingLng          *float64 `gorm:"column:training_lng" json:"training_lng,omitempty"`

	TrainingStartAt *time.Time `gorm:"type:timestamptz;column:training_start_at" json:"training_start_at,omitempty"`
	TrainingEndAt   *time.Time `gorm:"type:timestamptz;column:training_end_at" json:"training_end_at,omitempty"`

	TrainingDescription  *string        `gorm:"type:text;column:training_description" json:"training_description,omitempty"`
	TrainingMaterialURLs pq.StringArray `gorm:"type:text[];column:training_material_urls" json:"training_material_urls,omitempty"`

	TrainingCreatedBy *uuid.UUID `gorm:"type:uuid;column:training_created_by" json:"training_created_by,omitempty"`

	CreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (TrainingModel) TableName() string {
	return "trainings"
}
