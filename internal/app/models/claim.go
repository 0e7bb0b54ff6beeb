package models

import "time"

// NonCGPAClaim is a student request for participation credit outside of
// coursework grades. Only admin review mutates it after creation.
type NonCGPAClaim struct {
	ID            string         `json:"id"`
	StudentID     string         `json:"studentId"`
	StudentName   string         `json:"studentName"`
	StudentEmail  string         `json:"studentEmail"`
	RollNumber    string         `json:"rollNumber"`
	Department    string         `json:"department"`
	Year          string         `json:"year"`
	Reason        string         `json:"reason" example:"Non-CGPA Claim"`
	Description   string         `json:"description"`
	Documents     []string       `json:"documents"`
	Status        ApprovalStatus `json:"status" example:"pending"`
	CreatedAt     time.Time      `json:"createdAt"`
	ReviewedAt    *time.Time     `json:"reviewedAt,omitempty"`
	ReviewedBy    string         `json:"reviewedBy,omitempty"`
	AdminComments string         `json:"adminComments,omitempty"`
}

// ParticipationStats aggregates a student's registrations. Student is nil
// when the roll number did not match anyone.
type ParticipationStats struct {
	Student        *User          `json:"student"`
	Registrations  []Registration `json:"registrations"`
	TotalEvents    int            `json:"totalEvents"`
	AttendedEvents int            `json:"attendedEvents"`
	UpcomingEvents int            `json:"upcomingEvents"`
}
