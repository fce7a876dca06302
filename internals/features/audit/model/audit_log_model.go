// internals/features/audit/model/audit_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================
   MODEL: audit_logs (append-only)
========================================= */

type AuditLogModel struct {
	AuditLogID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:audit_log_id" json:"audit_log_id"`

	AuditLogAction    string     `gorm:"type:varchar(50);not null;column:audit_log_action" json:"audit_log_action"`
	AuditLogActorID   *uuid.UUID `gorm:"type:uuid;column:audit_log_actor_id" json:"audit_log_actor_id,omitempty"`
	AuditLogActorName *string    `gorm:"type:varchar(100);column:audit_log_actor_name" json:"audit_log_actor_name,omitempty"`
	AuditLogActorRole *string    `gorm:"type:varchar(20);column:audit_log_actor_role" json:"audit_log_actor_role,omitempty"`

	AuditLogEntityType *string `gorm:"type:varchar(50);column:audit_log_entity_type" json:"audit_log_entity_type,omitempty"`
	AuditLogEntityID   *string `gorm:"type:varchar(120);column:audit_log_entity_id" json:"audit_log_entity_id,omitempty"`

	AuditLogNote     *string           `gorm:"type:text;column:audit_log_note" json:"audit_log_note,omitempty"`
	AuditLogMetadata datatypes.JSONMap `gorm:"type:jsonb;column:audit_log_metadata" json:"audit_log_metadata,omitempty"`

	AuditLogIP        *string `gorm:"type:varchar(64);column:audit_log_ip" json:"audit_log_ip,omitempty"`
	AuditLogUserAgent *string `gorm:"type:text;column:audit_log_user_agent" json:"audit_log_user_agent,omitempty"`

	AuditLogCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:audit_log_created_at" json:"audit_log_created_at"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}
