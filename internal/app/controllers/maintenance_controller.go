package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/services"
	"github.com/yigit/eventsphere/internal/middleware"
)

// MaintenanceController exposes data maintenance to admins
type MaintenanceController struct {
	maintenanceService *services.MaintenanceService
	logger             zerolog.Logger
}

// NewMaintenanceController creates a new MaintenanceController
func NewMaintenanceController(maintenanceService *services.MaintenanceService, logger zerolog.Logger) *MaintenanceController {
	return &MaintenanceController{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// Seed inserts the default users and sample events
// @Summary Seed default data
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SeedResult} "Seeded"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /seed [post]
func (c *MaintenanceController) Seed(ctx *gin.Context) {
	res, err := c.maintenanceService.Seed(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(res))
}

// ClearData removes all stored data
// @Summary Clear all data
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Cleared"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /clear-data [delete]
func (c *MaintenanceController) ClearData(ctx *gin.Context) {
	if err := c.maintenanceService.ClearData(ctx.Request.Context(), middleware.CurrentUser(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "All data cleared"}))
}

// MigrateEmails rewrites legacy email domains
// @Summary Migrate legacy email domains
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MigrationResult} "Migrated"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /migrate-emails [post]
func (c *MaintenanceController) MigrateEmails(ctx *gin.Context) {
	res, err := c.maintenanceService.MigrateLegacyEmailDomain(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(res))
}
