// internals/features/reports/report/route/report_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"siagabencana_backend/internals/constants"
	reportController "siagabencana_backend/internals/features/reports/report/controller"
	authMiddleware "siagabencana_backend/internals/middlewares/auth"
)

// Base: /api/reports
func ReportRoutes(api fiber.Router, db *gorm.DB) {
	reportCtl := reportController.NewReportController(db)
	analyticsCtl := reportController.NewReportAnalyticsController(db)

	reports := api.Group("/reports", authMiddleware.AuthMiddleware(db))

	// 📊 Analitik (authority/admin). Didaftarkan sebelum "/:id" supaya
	// path statis tidak tertelan param.
	reports.Get("/analytics-with-attendance",
		authMiddleware.OnlyRoles(constants.RoleErrorAuthority("analitik laporan"), constants.AuthorityAndAbove...),
		analyticsCtl.AnalyticsWithAttendance,
	)
	reports.Get("/live-map",
		authMiddleware.OnlyRoles(constants.RoleErrorAuthority("peta pelatihan"), constants.AuthorityAndAbove...),
		analyticsCtl.LiveMap,
	)
	reports.Get("/analytics-by-organization",
		authMiddleware.OnlyRoles(constants.RoleErrorAuthority("analitik organisasi"), constants.AuthorityAndAbove...),
		analyticsCtl.AnalyticsByOrganization,
	)

	// 📝 Semua user login: laporan milik sendiri (scope & kepemilikan
	// dicek di controller)
	reports.Post("/", reportCtl.CreateReport)
	reports.Get("/", reportCtl.ListReports)
	reports.Get("/:id", reportCtl.GetReportByID)
	reports.Put("/:id", reportCtl.UpdateReport)
	reports.Delete("/:id", reportCtl.DeleteReport)
	reports.Post("/:id/submit", reportCtl.SubmitReport)
	reports.Post("/:id/link-attendance", reportCtl.LinkAttendance)

	// ✅ Review keputusan akhir: authority/admin
	reports.Post("/:id/review",
		authMiddleware.OnlyRoles(constants.RoleErrorAuthority("review laporan"), constants.AuthorityAndAbove...),
		reportCtl.ReviewReport,
	)
}
