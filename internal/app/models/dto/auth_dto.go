package dto

import "github.com/yigit/eventsphere/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// SignupRequest represents a new account
type SignupRequest struct {
	Email      string      `json:"email" binding:"required,email"`
	Password   string      `json:"password" binding:"required,min=6"`
	Name       string      `json:"name" binding:"required"`
	Role       models.Role `json:"role" binding:"required,oneof=admin student"`
	Department string      `json:"department"`
	Year       string      `json:"year"`
	RollNumber string      `json:"rollNumber"`
	Course     string      `json:"course"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type" example:"Bearer"`
	ExpiresIn   int         `json:"expires_in" example:"86400"`
}
