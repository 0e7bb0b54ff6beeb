package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/services"
	"github.com/yigit/eventsphere/internal/middleware"
)

// RegistrationController handles event registration and attendance
type RegistrationController struct {
	registrationService *services.RegistrationService
	logger              zerolog.Logger
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService *services.RegistrationService, logger zerolog.Logger) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		logger:              logger,
	}
}

// Register signs the caller up for an event
// @Summary Register for an event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationResponse} "Registered"
// @Failure 400 {object} dto.ErrorResponse "Event full, already registered or institution email required"
// @Failure 404 {object} dto.ErrorResponse "Event or user not found"
// @Router /events/{id}/register [post]
func (c *RegistrationController) Register(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		middleware.HandleAPIError(ctx, errUnauthenticated)
		return
	}

	reg, err := c.registrationService.RegisterForEvent(ctx.Request.Context(), ctx.Param("id"), user.ID)
	if err != nil {
		c.logger.Warn().Err(err).Str("eventID", ctx.Param("id")).Str("userID", user.ID).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.RegistrationResponse{Registration: *reg}))
}

// Unregister cancels the caller's registration
// @Summary Cancel a registration
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Unregistered"
// @Failure 404 {object} dto.ErrorResponse "Not registered"
// @Router /events/{id}/unregister [delete]
func (c *RegistrationController) Unregister(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		middleware.HandleAPIError(ctx, errUnauthenticated)
		return
	}

	if err := c.registrationService.UnregisterFromEvent(ctx.Request.Context(), ctx.Param("id"), user.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Unregistered from event"}))
}

// ListRegistrations returns every registration
// @Summary List all registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationListResponse} "Registrations"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /registrations [get]
func (c *RegistrationController) ListRegistrations(ctx *gin.Context) {
	regs, err := c.registrationService.ListRegistrations(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.RegistrationListResponse{Registrations: regs}))
}

// ListEventRegistrations returns the registrations of one event
// @Summary List registrations of an event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationListResponse} "Registrations"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /events/{id}/registrations [get]
func (c *RegistrationController) ListEventRegistrations(ctx *gin.Context) {
	regs, err := c.registrationService.ListEventRegistrations(ctx.Request.Context(), ctx.Param("id"), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.RegistrationListResponse{Registrations: regs}))
}

// MyRegistrations returns the caller's registrations
// @Summary List my registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationListResponse} "Registrations"
// @Router /registrations/my [get]
func (c *RegistrationController) MyRegistrations(ctx *gin.Context) {
	regs, err := c.registrationService.MyRegistrations(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.RegistrationListResponse{Registrations: regs}))
}

// UpdateAttendance marks a registration attended or not
// @Summary Mark attendance
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param request body dto.AttendanceRequest true "Attendance"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse} "Attendance updated"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id}/attendance [put]
func (c *RegistrationController) UpdateAttendance(ctx *gin.Context) {
	var req dto.AttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reg, err := c.registrationService.UpdateAttendance(ctx.Request.Context(), ctx.Param("id"), *req.Attended, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.RegistrationResponse{Registration: *reg}))
}
