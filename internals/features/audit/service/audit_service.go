// internals/features/audit/service/audit_service.go
package service

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	auditModel "siagabencana_backend/internals/features/audit/model"
)

/* =========================
   Action names
========================= */

const (
	ActionRegister       = "auth.register"
	ActionLogin          = "auth.login"
	ActionSessionCreate  = "attendance.session.create"
	ActionSessionEnd     = "attendance.session.end"
	ActionSessionExpire  = "attendance.session.expire"
	ActionAttendanceMark = "attendance.mark"
	ActionBatchSync      = "attendance.batch_sync"
	ActionReportSubmit   = "report.submit"
	ActionReportReview   = "report.review"
	ActionReportLink     = "report.link_attendance"
	ActionFileUpload     = "file.upload"
	ActionFileDelete     = "file.delete"
)

/* =========================
   Recorder
========================= */

// Record menulis satu baris audit. Kegagalan hanya di-log,
// tidak pernah menggagalkan request pemanggil.
func Record(db *gorm.DB, c *fiber.Ctx, action, entityType, entityID, note string, metadata map[string]any) {
	if db == nil {
		return
	}

	row := auditModel.AuditLogModel{
		AuditLogAction: action,
	}

	if c != nil {
		if idStr, ok := c.Locals("user_id").(string); ok && idStr != "" {
			if id, err := uuid.Parse(idStr); err == nil {
				row.AuditLogActorID = &id
			}
		}
		if name, ok := c.Locals("user_name").(string); ok && name != "" {
			row.AuditLogActorName = &name
		}
		if role, ok := c.Locals("userRole").(string); ok && role != "" {
			row.AuditLogActorRole = &role
		}
		if ip := strings.TrimSpace(c.IP()); ip != "" {
			row.AuditLogIP = &ip
		}
		if ua := strings.TrimSpace(c.Get("User-Agent")); ua != "" {
			row.AuditLogUserAgent = &ua
		}
	}

	if et := strings.TrimSpace(entityType); et != "" {
		row.AuditLogEntityType = &et
	}
	if eid := strings.TrimSpace(entityID); eid != "" {
		row.AuditLogEntityID = &eid
	}
	if n := strings.TrimSpace(note); n != "" {
		row.AuditLogNote = &n
	}
	if len(metadata) > 0 {
		row.AuditLogMetadata = datatypes.JSONMap(metadata)
	}

	if err := db.Create(&row).Error; err != nil {
		log.Printf("[AUDIT] gagal tulis %s: %v", action, err)
	}
}

// RecordSystem untuk aksi scheduler/boot tanpa request context.
func RecordSystem(db *gorm.DB, action, entityType, entityID, note string, metadata map[string]any) {
	Record(db, nil, action, entityType, entityID, note, metadata)
}
