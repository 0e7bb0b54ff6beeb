package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/eventsphere/internal/app/auth"
	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	"github.com/yigit/eventsphere/internal/pkg/documents"
	"github.com/yigit/eventsphere/internal/pkg/notify"
)

// DefaultClaimReason is used when a claim is submitted without a reason
const DefaultClaimReason = "Non-CGPA Claim"

// ClaimService handles Non-CGPA claim submission and review
type ClaimService struct {
	repos     *repositories.Repositories
	authz     *appauth.AuthorizationService
	documents *documents.Normalizer
	notifier  *notify.Dispatcher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(repos *repositories.Repositories, authz *appauth.AuthorizationService, docs *documents.Normalizer, notifier *notify.Dispatcher, now func() time.Time, logger zerolog.Logger) *ClaimService {
	return &ClaimService{
		repos:     repos,
		authz:     authz,
		documents: docs,
		notifier:  notifier,
		now:       now,
		logger:    logger,
	}
}

// CreateClaim stores a pending claim for the user. Attached documents are
// normalized before they are stored.
func (s *ClaimService) CreateClaim(ctx context.Context, req *dto.CreateClaimRequest, user *models.User) (*models.NonCGPAClaim, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	student, err := s.repos.UserRepository.GetByID(ctx, user.ID)
	if repositories.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidation, "description is required").
			WithDetails(map[string]interface{}{"fields": []string{"description"}})
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = DefaultClaimReason
	}

	docs := req.Documents
	if s.documents != nil {
		docs, err = s.documents.Normalize(req.Documents)
		if err != nil {
			return nil, err
		}
	}
	if docs == nil {
		docs = []string{}
	}

	claim := &models.NonCGPAClaim{
		ID:           uuid.New().String(),
		StudentID:    student.ID,
		StudentName:  student.Name,
		StudentEmail: student.Email,
		RollNumber:   student.RollNumber,
		Department:   student.Department,
		Year:         student.Year,
		Reason:       reason,
		Description:  description,
		Documents:    docs,
		Status:       models.ApprovalPending,
		CreatedAt:    s.now(),
	}
	if err := s.repos.ClaimRepository.Save(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to save claim: %w", err)
	}

	s.logger.Info().Str("claimID", claim.ID).Str("studentID", student.ID).Int("documents", len(docs)).Msg("Claim submitted")
	s.notifier.Notify(ctx, notify.Notification{
		Kind:      notify.ClaimSubmitted,
		Recipient: student.Email,
		Subject:   "Non-CGPA claim submitted",
		Data:      map[string]string{"claimId": claim.ID},
	})
	return claim, nil
}

// ReviewClaim records an admin decision. A reviewed claim may be reviewed again.
func (s *ClaimService) ReviewClaim(ctx context.Context, claimID string, status models.ApprovalStatus, comments string, admin *models.User) (*models.NonCGPAClaim, error) {
	if err := s.authz.Require(admin, appauth.ReviewClaims); err != nil {
		return nil, err
	}
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return nil, apperrors.NewValidationError("status must be approved or rejected")
	}

	claim, err := s.repos.ClaimRepository.Get(ctx, claimID)
	if repositories.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("claim not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load claim: %w", err)
	}

	reviewedAt := s.now()
	claim.Status = status
	claim.ReviewedAt = &reviewedAt
	claim.ReviewedBy = admin.ID
	claim.AdminComments = comments
	if err := s.repos.ClaimRepository.Save(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to save claim: %w", err)
	}

	s.logger.Info().Str("claimID", claimID).Str("status", string(status)).Str("reviewedBy", admin.ID).Msg("Claim reviewed")
	s.notifier.Notify(ctx, notify.Notification{
		Kind:      notify.ClaimReviewed,
		Recipient: claim.StudentEmail,
		Subject:   fmt.Sprintf("Non-CGPA claim %s", status),
		Data:      map[string]string{"claimId": claim.ID, "status": string(status)},
	})
	return claim, nil
}

// ListClaims returns claims with the given status, or all claims when status is empty
func (s *ClaimService) ListClaims(ctx context.Context, status models.ApprovalStatus, admin *models.User) ([]models.NonCGPAClaim, error) {
	if err := s.authz.Require(admin, appauth.ReviewClaims); err != nil {
		return nil, err
	}
	switch status {
	case "", models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected:
	default:
		return nil, apperrors.NewValidationError("unknown claim status " + string(status))
	}
	return s.repos.ClaimRepository.List(ctx, status)
}

// MyClaims returns the claims submitted by the user
func (s *ClaimService) MyClaims(ctx context.Context, user *models.User) ([]models.NonCGPAClaim, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.repos.ClaimRepository.ListByStudent(ctx, user.ID)
}
