package routes

import (
	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/eventsphere/internal/app/auth"
	"github.com/yigit/eventsphere/internal/app/controllers"
	"github.com/yigit/eventsphere/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	claimController *controllers.ClaimController,
	studentController *controllers.StudentController,
	maintenanceController *controllers.MaintenanceController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", healthController.Health)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", healthController.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", authController.Me)

	events := authenticated.Group("/events")
	{
		events.GET("", eventController.ListEvents)
		events.GET("/available", eventController.ListAvailableEvents)
		events.GET("/:id", eventController.GetEvent)
		events.POST("", eventController.CreateEvent)
		events.POST("/:id/register", registrationController.Register)
		events.DELETE("/:id/unregister", registrationController.Unregister)

		eventsAdmin := events.Group("")
		{
			eventsAdmin.GET("/pending", authMiddleware.CapabilityRequired(appauth.ViewPendingEvents), eventController.ListPendingEvents)
			eventsAdmin.PUT("/:id/approve", authMiddleware.CapabilityRequired(appauth.ApproveEvents), eventController.ApproveEvent)
			eventsAdmin.DELETE("/:id", authMiddleware.CapabilityRequired(appauth.DeleteEvents), eventController.DeleteEvent)
			eventsAdmin.GET("/:id/registrations", authMiddleware.CapabilityRequired(appauth.ViewAllRegistrations), registrationController.ListEventRegistrations)
		}
	}

	registrations := authenticated.Group("/registrations")
	{
		registrations.GET("/my", registrationController.MyRegistrations)
		registrations.GET("", authMiddleware.CapabilityRequired(appauth.ViewAllRegistrations), registrationController.ListRegistrations)
		registrations.PUT("/:id/attendance", authMiddleware.CapabilityRequired(appauth.MarkAttendance), registrationController.UpdateAttendance)
	}

	claims := authenticated.Group("/claims")
	{
		claims.POST("", claimController.CreateClaim)
		claims.GET("/my", claimController.MyClaims)
		claims.GET("", authMiddleware.CapabilityRequired(appauth.ReviewClaims), claimController.ListClaims)
		claims.PUT("/:id/review", authMiddleware.CapabilityRequired(appauth.ReviewClaims), claimController.ReviewClaim)
	}

	// Student management is admin-only
	students := authenticated.Group("/students")
	students.Use(authMiddleware.CapabilityRequired(appauth.ManageStudents))
	{
		students.GET("", studentController.SearchStudents)
		students.GET("/export", studentController.ExportStudents)
		students.POST("/import", studentController.ImportStudents)
		students.GET("/:rollNumber/stats", studentController.ParticipationStats)
	}

	maintenance := authenticated.Group("")
	maintenance.Use(authMiddleware.CapabilityRequired(appauth.Maintenance))
	{
		maintenance.POST("/seed", maintenanceController.Seed)
		maintenance.DELETE("/clear-data", maintenanceController.ClearData)
		maintenance.POST("/migrate-emails", maintenanceController.MigrateEmails)
	}
}
