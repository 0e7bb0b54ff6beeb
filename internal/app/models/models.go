package models

// Role is the closed set of user roles
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// EventStatus is the lifecycle status of an event
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventPending   EventStatus = "pending"
	EventRejected  EventStatus = "rejected"
)

// ApprovalStatus tracks the review state of events and claims
type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Collection names used by the record store
const (
	CollectionUsers             = "users"
	CollectionEvents            = "events"
	CollectionPendingEvents     = "pending-events"
	CollectionRegistrations     = "registrations"
	CollectionRegistrationIndex = "registration"
	CollectionClaims            = "claims"
)

// AllCollections lists every collection in a stable order
var AllCollections = []string{
	CollectionUsers,
	CollectionEvents,
	CollectionPendingEvents,
	CollectionRegistrations,
	CollectionRegistrationIndex,
	CollectionClaims,
}
