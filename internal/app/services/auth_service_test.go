package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

func TestSignup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.AuthService.Signup(ctx, &dto.SignupRequest{
		Email:      " Jane@KLU.ac.in ",
		Password:   "secret1",
		Name:       "Jane Doe",
		Role:       models.RoleStudent,
		RollNumber: "CS22010",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@klu.ac.in", res.User.Email)
	assert.Empty(t, res.User.PasswordHash)
	assert.Equal(t, "Bearer", res.TokenType)

	claims, err := f.jwt.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID())

	stored, err := f.repos.UserRepository.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.True(t, testNow.Equal(stored.CreatedAt), "created at %s", stored.CreatedAt)
	assert.Equal(t, testNow, res.User.CreatedAt)

	tests := []struct {
		name    string
		req     dto.SignupRequest
		wantErr error
	}{
		{"duplicate email", dto.SignupRequest{Email: "jane@klu.ac.in", Password: "secret1", Name: "Jane", Role: models.RoleStudent}, apperrors.ErrDuplicate},
		{"student outside institution", dto.SignupRequest{Email: "jane@gmail.com", Password: "secret1", Name: "Jane", Role: models.RoleStudent}, apperrors.ErrInvalidEmail},
		{"short password", dto.SignupRequest{Email: "x@klu.ac.in", Password: "123", Name: "Jane", Role: models.RoleStudent}, apperrors.ErrValidation},
		{"bad email", dto.SignupRequest{Email: "nope", Password: "secret1", Name: "Jane", Role: models.RoleAdmin}, apperrors.ErrValidation},
		{"unknown role", dto.SignupRequest{Email: "y@klu.ac.in", Password: "secret1", Name: "Jane", Role: "guest"}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AuthService.Signup(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	admin, err := f.svc.AuthService.Signup(ctx, &dto.SignupRequest{Email: "boss@gmail.com", Password: "secret1", Name: "Boss", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.User.Role)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.AuthService.Signup(ctx, &dto.SignupRequest{Email: "jane@klu.ac.in", Password: "secret1", Name: "Jane", Role: models.RoleStudent})
	require.NoError(t, err)

	res, err := f.svc.AuthService.Login(ctx, &dto.LoginRequest{Email: "JANE@klu.ac.in", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "jane@klu.ac.in", res.User.Email)

	_, err = f.svc.AuthService.Login(ctx, &dto.LoginRequest{Email: "jane@klu.ac.in", Password: "wrong!"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.AuthService.Login(ctx, &dto.LoginRequest{Email: "nobody@klu.ac.in", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)

	_, err = f.svc.AuthService.Login(ctx, &dto.LoginRequest{Email: "jane@klu.ac.in"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Seeded accounts have no hash
	res, err = f.svc.AuthService.Login(ctx, &dto.LoginRequest{Email: "admin@klu.ac.in", Password: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "admin-1", res.User.ID)
}
