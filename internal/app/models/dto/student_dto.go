package dto

import "github.com/yigit/eventsphere/internal/app/models"

// StudentSearchQuery filters the student list
type StudentSearchQuery struct {
	Query      string `form:"q"`
	Department string `form:"department"`
	Year       string `form:"year"`
}

// StudentListResponse wraps a list of students
type StudentListResponse struct {
	Students []models.User `json:"students"`
}

// ImportResult reports how many CSV rows were imported or skipped
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SeedResult reports what the seeder inserted
type SeedResult struct {
	Users  int `json:"users"`
	Events int `json:"events"`
}

// MigrationResult reports how many records were rewritten
type MigrationResult struct {
	Users         int `json:"users"`
	Events        int `json:"events"`
	Registrations int `json:"registrations"`
}
