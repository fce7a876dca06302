// internals/features/reports/report/controller/report_analytics_controller.go
package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportService "siagabencana_backend/internals/features/reports/report/service"
	helper "siagabencana_backend/internals/helpers"
)

// Konsumsi dashboard authority/admin; gate role ada di route.
type ReportAnalyticsController struct {
	DB *gorm.DB
	// Agg bisa diisi stub di test; nil berarti scan tabel laporan.
	Agg reportService.Aggregator
}

func NewReportAnalyticsController(db *gorm.DB) *ReportAnalyticsController {
	return &ReportAnalyticsController{DB: db}
}

func (ac *ReportAnalyticsController) aggregator(c *fiber.Ctx) reportService.Aggregator {
	if ac.Agg != nil {
		return ac.Agg
	}
	return reportService.NewAnalyticsService(ac.DB.WithContext(c.Context()))
}

// GET /api/reports/analytics-with-attendance
func (ac *ReportAnalyticsController) AnalyticsWithAttendance(c *fiber.Ctx) error {
	resp, err := ac.aggregator(c).AnalyticsWithAttendance(time.Now().UTC())
	if err != nil {
		log.Printf("[ANALYTICS] agregasi laporan gagal: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung analitik")
	}
	return helper.JsonOK(c, "OK", resp)
}

// GET /api/reports/live-map
func (ac *ReportAnalyticsController) LiveMap(c *fiber.Ctx) error {
	resp, err := ac.aggregator(c).LiveMap()
	if err != nil {
		log.Printf("[ANALYTICS] live map gagal: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data peta")
	}
	return helper.JsonOK(c, "OK", resp)
}

// GET /api/reports/analytics-by-organization?organization=...
func (ac *ReportAnalyticsController) AnalyticsByOrganization(c *fiber.Ctx) error {
	resp, err := ac.aggregator(c).AnalyticsByOrganization(c.Query("organization"))
	if err != nil {
		log.Printf("[ANALYTICS] rollup organisasi gagal: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung analitik organisasi")
	}
	return helper.JsonOK(c, "OK", resp)
}
