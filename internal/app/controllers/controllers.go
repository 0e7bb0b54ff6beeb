package controllers

import (
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

var errUnauthenticated = apperrors.ErrUnauthenticated

func badRequest(message string, details interface{}) *dto.ErrorResponse {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	if details != nil {
		errorDetail = errorDetail.WithDetails(details)
	}
	return dto.NewErrorResponse(errorDetail)
}
