package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appauth "github.com/yigit/eventsphere/internal/app/auth"
	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/auth"
	"github.com/yigit/eventsphere/internal/pkg/documents"
	"github.com/yigit/eventsphere/internal/pkg/notify"
	"github.com/yigit/eventsphere/internal/pkg/notify/notifytest"
)

const testDomain = "@klu.ac.in"

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Services
	repos    *repositories.Repositories
	jwt      *auth.JWTService
	recorder *notifytest.Recorder
	admin    *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	recorder := &notifytest.Recorder{}
	f := newFixtureWithPublisher(t, recorder)
	f.recorder = recorder
	return f
}

func newFixtureWithPublisher(t *testing.T, publisher notify.Publisher) *fixture {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost

	store, err := repositories.NewMemoryStore(nil)
	require.NoError(t, err)
	repos := repositories.NewRepositories(store)

	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})

	svc := NewServices(Deps{
		Repos:              repos,
		Authz:              appauth.NewAuthorizationService(jwtSvc, repos.UserRepository),
		JWT:                jwtSvc,
		Notifier:           notify.NewDispatcher(publisher, zerolog.Nop()),
		Documents:          documents.NewNormalizer(documents.Config{MaxCount: 3, MaxBytes: 1 << 20, MaxDimension: 64, MaxPixels: 1 << 20}),
		InstitutionDomain:  testDomain,
		LegacyEmailDomains: []string{"@college.edu"},
		Logger:             zerolog.Nop(),
		Now:                func() time.Time { return testNow },
	})

	admin := &models.User{ID: "admin-1", Name: "Admin", Email: "admin@klu.ac.in", Role: models.RoleAdmin}
	require.NoError(t, repos.UserRepository.Create(context.Background(), admin))

	return &fixture{svc: svc, repos: repos, jwt: jwtSvc, admin: admin}
}

func (f *fixture) student(t *testing.T, id, email, roll string) *models.User {
	t.Helper()
	u := &models.User{
		ID:         id,
		Name:       "Student " + id,
		Email:      email,
		Role:       models.RoleStudent,
		RollNumber: roll,
		Department: "Computer Science",
		Year:       "3",
		Course:     "B.Tech",
	}
	require.NoError(t, f.repos.UserRepository.Create(context.Background(), u))
	return u
}

func (f *fixture) event(t *testing.T, id string, capacity int) *models.Event {
	t.Helper()
	e := &models.Event{
		ID:                id,
		Name:              "Event " + id,
		Category:          "technical",
		Venue:             "Hall",
		Date:              "2025-10-15",
		Time:              "10:00",
		Capacity:          capacity,
		Status:            models.EventUpcoming,
		ApprovalStatus:    models.ApprovalApproved,
		RegisteredUserIDs: []string{},
	}
	require.NoError(t, f.repos.EventRepository.Save(context.Background(), e))
	return e
}
