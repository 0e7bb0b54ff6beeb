package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/eventsphere/internal/app/auth"
	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/seed"
)

// MaintenanceService seeds, clears and migrates stored data
type MaintenanceService struct {
	repos             *repositories.Repositories
	authz             *appauth.AuthorizationService
	lock              *sync.Mutex
	institutionDomain string
	legacyDomains     []string
	now               func() time.Time
	logger            zerolog.Logger
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(repos *repositories.Repositories, authz *appauth.AuthorizationService, lock *sync.Mutex, institutionDomain string, legacyDomains []string, now func() time.Time, logger zerolog.Logger) *MaintenanceService {
	return &MaintenanceService{
		repos:             repos,
		authz:             authz,
		lock:              lock,
		institutionDomain: institutionDomain,
		legacyDomains:     legacyDomains,
		now:               now,
		logger:            logger,
	}
}

// Seed inserts the default users and sample events that are missing
func (s *MaintenanceService) Seed(ctx context.Context, admin *models.User) (*dto.SeedResult, error) {
	if err := s.authz.Require(admin, appauth.Maintenance); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	res, err := seed.CreateDefaultData(ctx, s.repos, s.now(), s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to seed data: %w", err)
	}
	return &dto.SeedResult{Users: res.Users, Events: res.Events}, nil
}

// ClearData empties every collection
func (s *MaintenanceService) ClearData(ctx context.Context, admin *models.User) error {
	if err := s.authz.Require(admin, appauth.Maintenance); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	for _, collection := range models.AllCollections {
		if err := s.repos.Store.Clear(ctx, collection); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
	}
	s.logger.Warn().Str("by", admin.ID).Msg("All data cleared")
	return nil
}

// MigrateLegacyEmailDomain rewrites addresses on a legacy domain to the
// institution domain in users, events and registrations.
func (s *MaintenanceService) MigrateLegacyEmailDomain(ctx context.Context, admin *models.User) (*dto.MigrationResult, error) {
	if err := s.authz.Require(admin, appauth.Maintenance); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	result := &dto.MigrationResult{}

	users, err := s.repos.UserRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for i := range users {
		email, changed := s.migrateEmail(users[i].Email)
		if !changed {
			continue
		}
		users[i].Email = email
		if err := s.repos.UserRepository.Update(ctx, &users[i]); err != nil {
			return nil, fmt.Errorf("failed to update user %s: %w", users[i].ID, err)
		}
		result.Users++
	}

	events, err := s.repos.EventRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	for i := range events {
		email, changed := s.migrateEmail(events[i].ContactEmail)
		if !changed {
			continue
		}
		events[i].ContactEmail = email
		if err := s.repos.EventRepository.Save(ctx, &events[i]); err != nil {
			return nil, fmt.Errorf("failed to update event %s: %w", events[i].ID, err)
		}
		result.Events++
	}

	pending, err := s.repos.EventRepository.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending events: %w", err)
	}
	for i := range pending {
		email, changed := s.migrateEmail(pending[i].ContactEmail)
		if !changed {
			continue
		}
		pending[i].ContactEmail = email
		if err := s.repos.EventRepository.SavePending(ctx, &pending[i]); err != nil {
			return nil, fmt.Errorf("failed to update pending event %s: %w", pending[i].ID, err)
		}
		result.Events++
	}

	regs, err := s.repos.RegistrationRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}
	for i := range regs {
		email, changed := s.migrateEmail(regs[i].StudentEmail)
		if !changed {
			continue
		}
		regs[i].StudentEmail = email
		if err := s.repos.RegistrationRepository.Update(ctx, &regs[i]); err != nil {
			return nil, fmt.Errorf("failed to update registration %s: %w", regs[i].ID, err)
		}
		result.Registrations++
	}

	s.logger.Info().
		Int("users", result.Users).
		Int("events", result.Events).
		Int("registrations", result.Registrations).
		Msg("Legacy email domains migrated")
	return result, nil
}

// migrateEmail swaps a legacy domain suffix for the institution domain.
// The suffix is compared on the original bytes so the local part is cut
// at the right offset even when lowercasing would change its length.
func (s *MaintenanceService) migrateEmail(email string) (string, bool) {
	for _, legacy := range s.legacyDomains {
		if legacy == "" || strings.EqualFold(legacy, s.institutionDomain) {
			continue
		}
		cut := len(email) - len(legacy)
		if cut >= 0 && strings.EqualFold(email[cut:], legacy) {
			return email[:cut] + s.institutionDomain, true
		}
	}
	return email, false
}
