package dto

import "github.com/yigit/eventsphere/internal/app/models"

// CreateEventRequest carries the fields of a new event. Required fields are
// checked by the service so that every missing field is reported together.
type CreateEventRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Venue         string `json:"venue"`
	Date          string `json:"date" example:"2025-10-15"`
	Time          string `json:"time" example:"09:00"`
	Capacity      int    `json:"capacity" example:"100"`
	ContactPerson string `json:"contactPerson"`
	ContactEmail  string `json:"contactEmail"`
}

// ApproveEventRequest is an admin decision on a pending event
type ApproveEventRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// AvailableEvent is an event annotated for the requesting user
type AvailableEvent struct {
	models.Event
	IsRegistered bool `json:"isRegistered"`
}

// EventListResponse wraps a list of events
type EventListResponse struct {
	Events []models.Event `json:"events"`
}

// AvailableEventListResponse wraps a list of annotated events
type AvailableEventListResponse struct {
	Events []AvailableEvent `json:"events"`
}

// EventResponse wraps a single event
type EventResponse struct {
	Event models.Event `json:"event"`
}
