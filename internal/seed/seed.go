package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/eventsphere/internal/app/models"
	appRepos "github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

// SeedAdminID is the creator recorded on the sample events
const SeedAdminID = "admin_seed"

// Result reports how many records were inserted
type Result struct {
	Users  int
	Events int
}

// DefaultUsers are the accounts every fresh installation starts with. They
// carry no password hash, so any non-empty password logs them in.
func DefaultUsers(now time.Time) []appModels.User {
	return []appModels.User{
		{
			ID:        "admin-1",
			Email:     "admin@klu.ac.in",
			Name:      "Admin User",
			Role:      appModels.RoleAdmin,
			CreatedAt: now,
		},
		{
			ID:         "student-1",
			Email:      "john@klu.ac.in",
			Name:       "John Smith",
			Role:       appModels.RoleStudent,
			Department: "Computer Science",
			Year:       "3",
			RollNumber: "CS21001",
			Course:     "B.Tech Computer Science",
			CreatedAt:  now,
		},
	}
}

func sampleEvent(id, name, description, category, venue, date, clock string, capacity int, contact, email string, now time.Time) appModels.Event {
	return appModels.Event{
		ID:                id,
		Name:              name,
		Description:       description,
		Category:          category,
		Venue:             venue,
		Date:              date,
		Time:              clock,
		Capacity:          capacity,
		ContactPerson:     contact,
		ContactEmail:      email,
		Status:            appModels.EventUpcoming,
		ApprovalStatus:    appModels.ApprovalApproved,
		CreatedBy:         SeedAdminID,
		CreatedByName:     "System Admin",
		CreatedByRole:     appModels.RoleAdmin,
		RegisteredUserIDs: []string{},
		CreatedAt:         now,
	}
}

// SampleEvents are inserted when no live event exists yet
func SampleEvents(now time.Time) []appModels.Event {
	return []appModels.Event{
		sampleEvent("event_tech_symposium_2025", "Annual Tech Symposium 2025",
			"A comprehensive technology conference featuring industry experts, workshops on emerging technologies, and networking opportunities for students and professionals.",
			"technical", "Main Auditorium", "2025-03-15", "09:00", 150, "Dr. Sarah Johnson", "sarah.johnson@klu.ac.in", now),
		sampleEvent("event_cultural_fest_2025", "Spring Cultural Festival",
			"Celebrate diversity and talent with performances, art exhibitions, food stalls, and cultural competitions. Students from all departments are welcome to participate.",
			"cultural", "College Grounds", "2025-04-20", "10:00", 300, "Prof. Michael Chen", "michael.chen@klu.ac.in", now),
		sampleEvent("event_sports_tournament", "Inter-Department Sports Tournament",
			"Annual sports competition featuring cricket, football, basketball, and track events. Teams representing different departments will compete for the championship trophy.",
			"sports", "Sports Complex", "2025-05-10", "08:00", 200, "Coach David Wilson", "david.wilson@klu.ac.in", now),
		sampleEvent("event_ai_workshop", "AI & Machine Learning Workshop",
			"Hands-on workshop covering the fundamentals of artificial intelligence and machine learning. Participants will work on real-world projects using Python and popular ML libraries.",
			"workshop", "Computer Lab 1", "2025-03-25", "14:00", 40, "Dr. Emily Rodriguez", "emily.rodriguez@klu.ac.in", now),
		sampleEvent("event_career_fair", "Career Fair 2025",
			"Meet recruiters from top companies, attend career guidance sessions, and explore internship and job opportunities across various industries.",
			"academic", "Exhibition Hall", "2025-04-05", "11:00", 500, "Ms. Lisa Thompson", "lisa.thompson@klu.ac.in", now),
	}
}

// CreateDefaultData inserts the default users that are missing and, when the
// live event collection is empty, the sample events. Running it twice
// inserts nothing the second time.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, now time.Time, lgr zerolog.Logger) (Result, error) {
	var result Result
	var finalErr error

	lgr.Info().Msg("Checking/Creating default data (users/events)...")

	for _, u := range DefaultUsers(now) {
		u := u
		err := repos.UserRepository.Create(ctx, &u)
		switch {
		case err == nil:
			result.Users++
		case errors.Is(err, apperrors.ErrDuplicate):
			lgr.Debug().Str("email", u.Email).Msg("Default user already exists")
		default:
			lgr.Error().Err(err).Str("email", u.Email).Msg("Error creating default user")
			finalErr = errors.Join(finalErr, err)
		}
	}

	existing, err := repos.EventRepository.List(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error listing events before seeding")
		return result, errors.Join(finalErr, err)
	}
	if len(existing) > 0 {
		lgr.Info().Int("events", len(existing)).Msg("Events already present, skipping sample events")
		return result, finalErr
	}

	for _, e := range SampleEvents(now) {
		e := e
		if err := repos.EventRepository.Save(ctx, &e); err != nil {
			lgr.Error().Err(err).Str("eventID", e.ID).Msg("Error creating sample event")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		result.Events++
	}

	lgr.Info().Int("users", result.Users).Int("events", result.Events).Msg("Default data ensured")
	return result, finalErr
}
