package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/repositories"
)

// HealthResponse reports service liveness
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Store  string `json:"store" example:"memory"`
}

// HealthController answers liveness probes
type HealthController struct {
	store  repositories.RecordStore
	driver string
}

// NewHealthController creates a new HealthController
func NewHealthController(store repositories.RecordStore, driver string) *HealthController {
	return &HealthController{store: store, driver: driver}
}

// Health checks that the record store answers
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=controllers.HealthResponse} "Healthy"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	probeCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if _, err := c.store.Get(probeCtx, models.CollectionUsers, "__health__"); err != nil && !repositories.IsNotFound(err) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Store unavailable").WithDetails(err.Error())
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(HealthResponse{Status: "ok", Store: c.driver}))
}
