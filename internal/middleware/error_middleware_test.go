package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	"github.com/yigit/eventsphere/internal/pkg/auth"
)

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"profile", apperrors.ErrProfileNotFound, http.StatusNotFound, dto.ErrorCodeProfileNotFound},
		{"forbidden", apperrors.NewForbiddenError("admins only"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"not found", fmt.Errorf("load event: %w", apperrors.ErrNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"full", apperrors.ErrFull, http.StatusBadRequest, dto.ErrorCodeEventFull},
		{"duplicate", apperrors.NewDuplicateError("already registered"), http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"email", apperrors.ErrInvalidEmail, http.StatusBadRequest, dto.ErrorCodeInvalidEmail},
		{"validation", apperrors.NewValidationError("bad"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := errorDetail(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, detail.Code)
		})
	}
}

func TestErrorDetail_MessagesAndDetails(t *testing.T) {
	_, detail := errorDetail(apperrors.NewForbiddenError("admins only"))
	assert.Equal(t, "admins only", detail.Message)

	err := apperrors.NewCustomError(apperrors.ErrValidation, "missing required fields: venue").
		WithDetails(map[string]interface{}{"fields": []string{"venue"}})
	_, detail = errorDetail(fmt.Errorf("create event: %w", err))
	assert.Equal(t, "missing required fields: venue", detail.Message)
	assert.Equal(t, map[string]interface{}{"fields": []string{"venue"}}, detail.Details)

	_, detail = errorDetail(errors.New("secret internals"))
	assert.Equal(t, "Internal server error", detail.Message)
}
