package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	pkgauth "github.com/yigit/eventsphere/internal/pkg/auth"
)

func setup(t *testing.T) (*AuthorizationService, *pkgauth.JWTService, *repositories.UserRepository) {
	store, err := repositories.NewMemoryStore(nil)
	require.NoError(t, err)
	users := repositories.NewUserRepository(store)
	jwtSvc := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "t"})
	return NewAuthorizationService(jwtSvc, users), jwtSvc, users
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	authz, jwtSvc, users := setup(t)

	student := &models.User{ID: "student-1", Email: "john@klu.ac.in", Role: models.RoleStudent}
	require.NoError(t, users.Create(ctx, student))

	token, _, err := jwtSvc.IssueToken(student)
	require.NoError(t, err)

	got, err := authz.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "student-1", got.ID)

	ghostToken, _, err := jwtSvc.IssueToken(&models.User{ID: "ghost", Role: models.RoleStudent})
	require.NoError(t, err)
	_, err = authz.Authenticate(ctx, ghostToken)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)

	_, err = authz.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRequire(t *testing.T) {
	authz, _, _ := setup(t)
	admin := &models.User{ID: "a", Role: models.RoleAdmin}
	student := &models.User{ID: "s", Role: models.RoleStudent}

	for _, c := range []Capability{ApproveEvents, DeleteEvents, ViewPendingEvents, ViewAllRegistrations, MarkAttendance, ReviewClaims, ManageStudents, Maintenance} {
		assert.NoError(t, authz.Require(admin, c), c)
		assert.ErrorIs(t, authz.Require(student, c), apperrors.ErrForbidden, c)
	}

	assert.ErrorIs(t, authz.Require(nil, ApproveEvents), apperrors.ErrUnauthenticated)
	assert.False(t, Can(models.Role("guest"), ApproveEvents))
}
