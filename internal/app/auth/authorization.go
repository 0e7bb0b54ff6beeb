package auth

import (
	"context"
	"fmt"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	pkgauth "github.com/yigit/eventsphere/internal/pkg/auth"
	"github.com/yigit/eventsphere/internal/pkg/logger"
)

// Capability names a privileged action
type Capability string

const (
	ApproveEvents        Capability = "events:approve"
	DeleteEvents         Capability = "events:delete"
	ViewPendingEvents    Capability = "events:pending"
	ViewAllRegistrations Capability = "registrations:list"
	MarkAttendance       Capability = "registrations:attendance"
	ReviewClaims         Capability = "claims:review"
	ManageStudents       Capability = "students:manage"
	Maintenance          Capability = "maintenance"
)

// roleCapabilities is the single source of truth for role privileges.
// Actions open to every signed-in user are not listed.
var roleCapabilities = map[models.Role]map[Capability]bool{
	models.RoleAdmin: {
		ApproveEvents:        true,
		DeleteEvents:         true,
		ViewPendingEvents:    true,
		ViewAllRegistrations: true,
		MarkAttendance:       true,
		ReviewClaims:         true,
		ManageStudents:       true,
		Maintenance:          true,
	},
	models.RoleStudent: {},
}

type userLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthorizationService turns session tokens into users and checks role
// capabilities
type AuthorizationService struct {
	verifier pkgauth.Verifier
	users    userLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(verifier pkgauth.Verifier, users userLookup) *AuthorizationService {
	return &AuthorizationService{
		verifier: verifier,
		users:    users,
	}
}

// Authenticate verifies the token and loads the user profile it names.
// A valid token for a user that no longer exists fails with ErrProfileNotFound.
func (s *AuthorizationService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if repositories.IsNotFound(err) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		logger.Error().Err(err).Str("userID", claims.UserID()).Msg("Error loading user profile during authentication")
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	return user, nil
}

// Can reports whether the role holds the capability
func Can(role models.Role, capability Capability) bool {
	return roleCapabilities[role][capability]
}

// Require fails with ErrForbidden unless the user holds the capability
func (s *AuthorizationService) Require(user *models.User, capability Capability) error {
	if user == nil {
		return apperrors.ErrUnauthenticated
	}
	if !Can(user.Role, capability) {
		return apperrors.NewForbiddenError(fmt.Sprintf("role %q may not perform %s", user.Role, capability))
	}
	return nil
}
