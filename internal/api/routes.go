package api

import (
	"fitlink/pt-marketplace/internal/domain" // Needed for RoleMiddleware
	"fitlink/pt-marketplace/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	scheduleService service.ScheduleService,
	packageService service.PackageService,
	trainerService service.TrainerService,
) {

	scheduleHandler := NewScheduleHandler(scheduleService)
	packageHandler := NewPackageHandler(packageService)
	trainerHandler := NewTrainerHandler(trainerService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.Use(RequestIDMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	// --- Public Routes ---
	// Students browse availability before booking; no token required.
	apiV1.GET("/trainers/:id/availability", trainerHandler.GetAvailabilityBlocks)

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Package Routes ---
		packageGroup := protected.Group("/packages")
		packageGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// POST /api/v1/packages
			packageGroup.POST("", packageHandler.CreatePackage)
			// GET /api/v1/packages - the authenticated trainer's own packages
			packageGroup.GET("", packageHandler.GetTrainerPackages)
			// GET /api/v1/packages/{id}
			packageGroup.GET("/:id", packageHandler.GetPackageByID)
			// PUT /api/v1/packages/{id}
			packageGroup.PUT("/:id", packageHandler.UpdatePackage)
			// PATCH /api/v1/packages/{id}/active
			packageGroup.PATCH("/:id/active", packageHandler.SetPackageActive)
		}

		// --- Schedule Routes ---
		scheduleGroup := protected.Group("/schedule")
		scheduleGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// GET /api/v1/schedule/preview?packageId=...
			scheduleGroup.GET("/preview", scheduleHandler.PreviewSchedule)
			// POST /api/v1/schedule/preview-draft - preview an unsaved package
			scheduleGroup.POST("/preview-draft", scheduleHandler.PreviewScheduleDraft)
			// POST /api/v1/schedule/generate - persist the slot list
			scheduleGroup.POST("/generate", scheduleHandler.GenerateSchedule)
		}

		// --- Trainer Specific Routes ---
		// All routes in this group require authentication (from 'protected')
		// AND the user to have the 'trainer' role.
		trainerApiGroup := protected.Group("/trainer")
		trainerApiGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// GET /api/v1/trainer/profile
			trainerApiGroup.GET("/profile", trainerHandler.GetProfile)
			// PUT /api/v1/trainer/profile
			trainerApiGroup.PUT("/profile", trainerHandler.UpsertProfile)

			// --- Slot Management ---
			// GET /api/v1/trainer/slots?from=...&to=...&status=...
			trainerApiGroup.GET("/slots", trainerHandler.GetSlots)
			// POST /api/v1/trainer/slots - open one ad-hoc slot
			trainerApiGroup.POST("/slots", trainerHandler.CreateSingleSlot)

			// --- Session Management ---
			// GET /api/v1/trainer/sessions?from=...&to=...
			trainerApiGroup.GET("/sessions", trainerHandler.GetSessions)
			// PATCH /api/v1/trainer/sessions/{id}/status
			trainerApiGroup.PATCH("/sessions/:id/status", trainerHandler.UpdateSessionStatus)
		}
	}
}
