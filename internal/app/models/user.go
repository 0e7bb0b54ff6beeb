package models

import (
	"time"
)

// User is an account of either role. Student-only fields are empty for admins.
type User struct {
	ID           string    `json:"id" example:"5b3f0c1e-7f55-4a53-9a55-2b1f0f5b8a10"`
	Email        string    `json:"email" example:"john@klu.ac.in"`
	Name         string    `json:"name" example:"John Smith"`
	Role         Role      `json:"role" example:"student"`
	Department   string    `json:"department,omitempty" example:"Computer Science"`
	Year         string    `json:"year,omitempty" example:"3"`
	RollNumber   string    `json:"rollNumber,omitempty" example:"CS21001"`
	Course       string    `json:"course,omitempty" example:"B.Tech Computer Science"`
	PasswordHash string    `json:"passwordHash,omitempty" swaggerignore:"true"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Public returns a copy without the password hash
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// SystemAdmin is the actor used by command line maintenance tasks
func SystemAdmin() *User {
	return &User{ID: "system", Name: "System Admin", Role: RoleAdmin}
}
