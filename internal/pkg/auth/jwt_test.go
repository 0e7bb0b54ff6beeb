package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "eventsphere.test",
	})
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := newTestService()
	user := &models.User{ID: "student-1", Email: "john@klu.ac.in", Role: models.RoleStudent}

	token, expiresIn, err := svc.IssueToken(user)
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "student-1", claims.UserID())
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "john@klu.ac.in", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	svc := newTestService()
	user := &models.User{ID: "admin-1", Email: "admin@klu.ac.in", Role: models.RoleAdmin}

	token, _, err := svc.IssueToken(user)
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "another", AccessTokenExp: time.Hour, TokenIssuer: "eventsphere.test"})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.Verify("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	late := newTestService().WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	_, err = late.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	tok, err = ExtractBearerToken("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("Bearer ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
