package dto

import "github.com/yigit/eventsphere/internal/app/models"

// AttendanceRequest marks a registration attended or not
type AttendanceRequest struct {
	Attended *bool `json:"attended" binding:"required"`
}

// RegistrationResponse wraps a single registration
type RegistrationResponse struct {
	Registration models.Registration `json:"registration"`
}

// RegistrationListResponse wraps a list of registrations
type RegistrationListResponse struct {
	Registrations []models.Registration `json:"registrations"`
}
