package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/services"
	"github.com/yigit/eventsphere/internal/middleware"
)

// ClaimController handles Non-CGPA claims
type ClaimController struct {
	claimService *services.ClaimService
	logger       zerolog.Logger
}

// NewClaimController creates a new ClaimController
func NewClaimController(claimService *services.ClaimService, logger zerolog.Logger) *ClaimController {
	return &ClaimController{
		claimService: claimService,
		logger:       logger,
	}
}

// CreateClaim submits a claim for the caller
// @Summary Submit a Non-CGPA claim
// @Description Documents are image data URLs; oversized images are downscaled before storage.
// @Tags claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClaimRequest true "Claim"
// @Success 201 {object} dto.APIResponse{data=dto.ClaimResponse} "Claim submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid claim or documents"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /claims [post]
func (c *ClaimController) CreateClaim(ctx *gin.Context) {
	var req dto.CreateClaimRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	claim, err := c.claimService.CreateClaim(ctx.Request.Context(), &req, middleware.CurrentUser(ctx))
	if err != nil {
		c.logger.Warn().Err(err).Msg("Claim submission failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.ClaimResponse{Claim: *claim}))
}

// MyClaims returns the caller's claims
// @Summary List my claims
// @Tags claims
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ClaimListResponse} "Claims"
// @Router /claims/my [get]
func (c *ClaimController) MyClaims(ctx *gin.Context) {
	claims, err := c.claimService.MyClaims(ctx.Request.Context(), middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ClaimListResponse{Claims: claims}))
}

// ListClaims returns claims, optionally filtered by status
// @Summary List claims
// @Tags claims
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} dto.APIResponse{data=dto.ClaimListResponse} "Claims"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /claims [get]
func (c *ClaimController) ListClaims(ctx *gin.Context) {
	status := models.ApprovalStatus(ctx.Query("status"))
	claims, err := c.claimService.ListClaims(ctx.Request.Context(), status, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ClaimListResponse{Claims: claims}))
}

// ReviewClaim records an admin decision on a claim
// @Summary Review a claim
// @Tags claims
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param request body dto.ReviewClaimRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.ClaimResponse} "Claim reviewed"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Claim not found"
// @Router /claims/{id}/review [put]
func (c *ClaimController) ReviewClaim(ctx *gin.Context) {
	var req dto.ReviewClaimRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	claim, err := c.claimService.ReviewClaim(ctx.Request.Context(), ctx.Param("id"), req.Status, req.AdminComments, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ClaimResponse{Claim: *claim}))
}
