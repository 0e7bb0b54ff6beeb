package models

import "time"

// Event is a campus event. Student submissions live in the pending
// collection until an admin reviews them.
type Event struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name" example:"Annual Tech Fest"`
	Description        string         `json:"description"`
	Category           string         `json:"category" example:"technical"`
	Venue              string         `json:"venue" example:"Main Auditorium"`
	Date               string         `json:"date" example:"2025-10-15"`
	Time               string         `json:"time" example:"09:00"`
	Capacity           int            `json:"capacity" example:"200"`
	ContactPerson      string         `json:"contactPerson"`
	ContactEmail       string         `json:"contactEmail"`
	RegistrationsCount int            `json:"registrationsCount"`
	Status             EventStatus    `json:"status" example:"upcoming"`
	CreatedBy          string         `json:"createdBy"`
	CreatedByName      string         `json:"createdByName"`
	CreatedByRole      Role           `json:"createdByRole"`
	ApprovalStatus     ApprovalStatus `json:"approvalStatus" example:"approved"`
	RegisteredUserIDs  []string       `json:"registeredUserIds"`
	CreatedAt          time.Time      `json:"createdAt"`
	ApprovedBy         string         `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time     `json:"approvedAt,omitempty"`
}

// HasRegistered reports whether userID is in the registered set
func (e *Event) HasRegistered(userID string) bool {
	for _, id := range e.RegisteredUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the event has no seats left
func (e *Event) IsFull() bool {
	return e.RegistrationsCount >= e.Capacity
}
