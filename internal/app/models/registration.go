package models

import "time"

// Registration links a user to an event. Event and student fields are
// snapshots taken at registration time and are never refreshed.
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	EventName    string    `json:"eventName"`
	UserID       string    `json:"userId"`
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	Department   string    `json:"department"`
	Year         string    `json:"year"`
	RegisteredAt time.Time `json:"registeredAt"`
	Attended     *bool     `json:"attended,omitempty"`
	Category     string    `json:"category"`
	EventDate    string    `json:"eventDate"`
	EventVenue   string    `json:"eventVenue"`
	RollNumber   string    `json:"rollNumber"`
}

// HasAttended reports whether attendance was marked true
func (r *Registration) HasAttended() bool {
	return r.Attended != nil && *r.Attended
}

// RegistrationRef is the value stored under both registration index keys
type RegistrationRef struct {
	RegistrationID string `json:"registrationId"`
	EventID        string `json:"eventId"`
	UserID         string `json:"userId"`
}
