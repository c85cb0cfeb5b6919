package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/ceejaycejas/nutrikid-sbfp/config"
	"github.com/ceejaycejas/nutrikid-sbfp/database"
	"github.com/ceejaycejas/nutrikid-sbfp/handlers"
	"github.com/ceejaycejas/nutrikid-sbfp/middlewares"
	"github.com/ceejaycejas/nutrikid-sbfp/models"
	"github.com/ceejaycejas/nutrikid-sbfp/services"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Services =====
	mailer := services.NewMailer(services.NewEmailService(cfg))
	notifier := services.NewNotificationService(database.DB)

	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret, notifier)
	school := handlers.NewSchoolHandler(notifier)
	admin := handlers.NewAdminHandler(mailer, notifier)
	section := handlers.NewSectionHandler()
	student := handlers.NewStudentHandler(mailer, notifier)
	dash := handlers.NewDashboardHandler()
	report := handlers.NewReportHandler(notifier)
	reset := handlers.NewPasswordResetHandler(mailer, notifier)
	notif := handlers.NewNotificationHandler()

	// ===== Public =====
	e.GET("/healthz", handlers.Health)
	e.POST("/auth/login", auth.Login)
	e.POST("/password-reset/request", reset.Request)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Any authenticated user =====
	me := e.Group("/me", authMW)
	me.GET("", auth.Me)
	me.GET("/student", student.MyRecord)
	me.GET("/notifications", notif.List)
	me.PUT("/notifications/read-all", notif.MarkAllRead)
	me.PUT("/notifications/:id/read", notif.MarkRead)
	me.DELETE("/notifications/:id", notif.Delete)
	me.GET("/password-reset-requests", reset.MyRequests)
	e.POST("/auth/change-password", auth.ChangePassword, authMW)

	// ===== School admin (super admin may act in any school) =====
	adm := e.Group("/admin", authMW, middlewares.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	adm.GET("/dashboard", dash.AdminDashboard)

	adm.GET("/grade-levels", section.ListGradeLevels)
	adm.POST("/grade-levels", section.CreateGradeLevel)
	adm.DELETE("/grade-levels/:id", section.DeleteGradeLevel)

	adm.GET("/sections", section.ListSections)
	adm.POST("/sections", section.CreateSection)
	adm.PUT("/sections/:id", section.UpdateSection)
	adm.DELETE("/sections/:id", section.DeleteSection)

	adm.GET("/students", student.List)
	adm.GET("/students/:id", student.Get)
	adm.POST("/students", student.Create)
	adm.PUT("/students/:id", student.Update)
	adm.DELETE("/students/:id", student.Delete)

	// ===== Super admin =====
	sa := e.Group("/super-admin", authMW, middlewares.RequireRole(models.RoleSuperAdmin))

	sa.GET("/dashboard", dash.SuperAdminDashboard)

	sa.GET("/schools", school.List)
	sa.GET("/schools/:id", school.Get)
	sa.POST("/schools", school.Create)
	sa.PUT("/schools/:id", school.Update)
	sa.DELETE("/schools/:id", school.Delete)

	sa.GET("/admins", admin.List)
	sa.POST("/admins", admin.Create)
	sa.PUT("/admins/:id", admin.Update)
	sa.DELETE("/admins/:id", admin.Delete)

	sa.GET("/users", admin.ListSuperAdmins)
	sa.POST("/users", admin.CreateSuperAdmin)
	sa.PUT("/users/:id", admin.UpdateSuperAdmin)
	sa.DELETE("/users/:id", admin.DeleteSuperAdmin)

	sa.GET("/students", student.ListGrouped)

	sa.GET("/schools/:id/export/excel", report.ExportSchoolExcel)
	sa.GET("/schools/:id/export/pdf", report.ExportSchoolPDF)
	sa.GET("/reports/sbfp", report.GenerateSBFPReport)
	sa.GET("/reports", report.ListReports)
	sa.PUT("/reports/:id/read", report.MarkReportRead)
	sa.DELETE("/reports/:id", report.DeleteReport)

	sa.GET("/password-resets", reset.ListPending)
	sa.PUT("/password-resets/:id/approve", reset.Approve)
	sa.PUT("/password-resets/:id/deny", reset.Deny)
	sa.DELETE("/password-resets/expired", reset.CleanupExpired)
	sa.DELETE("/password-resets", reset.ClearAll)
}
