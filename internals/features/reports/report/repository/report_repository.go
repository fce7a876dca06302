// internals/features/reports/report/repository/report_repository.go
package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	reportModel "siagabencana_backend/internals/features/reports/report/model"
)

func CreateReport(db *gorm.DB, m *reportModel.ReportModel) error {
	return db.Create(m).Error
}

func FindReportByID(db *gorm.DB, id uuid.UUID) (*reportModel.ReportModel, error) {
	var m reportModel.ReportModel
	if err := db.Where("report_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func SaveReport(db *gorm.DB, m *reportModel.ReportModel) error {
	return db.Save(m).Error
}

// DeleteReport: soft delete; mengembalikan jumlah baris supaya controller
// bisa membedakan 404.
func DeleteReport(db *gorm.DB, id uuid.UUID) (int64, error) {
	res := db.Where("report_id = ?", id).Delete(&reportModel.ReportModel{})
	return res.RowsAffected, res.Error
}

/* =======================================================
   Listing
======================================================= */

type ListReportsOpts struct {
	// nil = semua pemilik (scope authority); non-nil = hanya milik user ini
	OwnerID *uuid.UUID

	Status       string // exact: draft|pending|accepted|rejected
	Organization string // ILIKE
	Query        string // ILIKE judul
	Limit        int
	Offset       int
}

func ListReports(db *gorm.DB, opts ListReportsOpts) ([]reportModel.ReportModel, int64, error) {
	tx := db.Model(&reportModel.ReportModel{})

	if opts.OwnerID != nil {
		tx = tx.Where("report_user_id = ?", *opts.OwnerID)
	}
	if s := strings.TrimSpace(opts.Status); s != "" {
		tx = tx.Where("report_status = ?", strings.ToLower(s))
	}
	if org := strings.TrimSpace(opts.Organization); org != "" {
		tx = tx.Where("report_organization ILIKE ?", "%"+org+"%")
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		tx = tx.Where("report_title ILIKE ?", "%"+q+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []reportModel.ReportModel
	if err := tx.
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
