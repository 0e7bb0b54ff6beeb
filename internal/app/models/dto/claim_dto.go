package dto

import "github.com/yigit/eventsphere/internal/app/models"

// CreateClaimRequest is a new Non-CGPA claim. Documents are image data URLs.
type CreateClaimRequest struct {
	Reason      string   `json:"reason" example:"Non-CGPA Claim"`
	Description string   `json:"description" binding:"required"`
	Documents   []string `json:"documents"`
}

// ReviewClaimRequest is an admin decision on a claim
type ReviewClaimRequest struct {
	Status        models.ApprovalStatus `json:"status" binding:"required,oneof=approved rejected"`
	AdminComments string                `json:"adminComments"`
}

// ClaimResponse wraps a single claim
type ClaimResponse struct {
	Claim models.NonCGPAClaim `json:"claim"`
}

// ClaimListResponse wraps a list of claims
type ClaimListResponse struct {
	Claims []models.NonCGPAClaim `json:"claims"`
}
