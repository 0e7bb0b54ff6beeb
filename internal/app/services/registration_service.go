package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/eventsphere/internal/app/auth"
	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	"github.com/yigit/eventsphere/internal/pkg/notify"
	"github.com/yigit/eventsphere/internal/pkg/validation"
)

// RegistrationService handles event registrations and attendance
type RegistrationService struct {
	repos             *repositories.Repositories
	authz             *appauth.AuthorizationService
	notifier          *notify.Dispatcher
	lock              *sync.Mutex
	institutionDomain string
	now               func() time.Time
	logger            zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(repos *repositories.Repositories, authz *appauth.AuthorizationService, notifier *notify.Dispatcher, lock *sync.Mutex, institutionDomain string, now func() time.Time, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		repos:             repos,
		authz:             authz,
		notifier:          notifier,
		lock:              lock,
		institutionDomain: institutionDomain,
		now:               now,
		logger:            logger,
	}
}

// RegisterForEvent registers the user for a live event. Checks run in a
// fixed order: event, user, institution email, capacity, duplicate.
func (s *RegistrationService) RegisterForEvent(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	reg, n, err := s.register(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, n)
	return reg, nil
}

// register runs under the store lock; delivery of the returned notification
// happens after it is released
func (s *RegistrationService) register(ctx context.Context, eventID, userID string) (*models.Registration, notify.Notification, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var none notify.Notification

	event, err := s.repos.EventRepository.Get(ctx, eventID)
	if repositories.IsNotFound(err) {
		return nil, none, apperrors.NewNotFoundError("event not found")
	}
	if err != nil {
		return nil, none, fmt.Errorf("failed to load event: %w", err)
	}

	user, err := s.repos.UserRepository.GetByID(ctx, userID)
	if repositories.IsNotFound(err) {
		return nil, none, apperrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, none, fmt.Errorf("failed to load user: %w", err)
	}

	if user.Role == models.RoleStudent && !validation.HasInstitutionDomain(user.Email, s.institutionDomain) {
		return nil, none, apperrors.NewCustomError(apperrors.ErrInvalidEmail, fmt.Sprintf("only %s accounts may register for events", s.institutionDomain))
	}

	if event.IsFull() {
		return nil, none, apperrors.NewCustomError(apperrors.ErrFull, "event is full")
	}

	if event.HasRegistered(userID) {
		return nil, none, apperrors.NewDuplicateError("already registered for this event")
	}
	if _, err := s.repos.RegistrationRepository.FindByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, none, apperrors.NewDuplicateError("already registered for this event")
	} else if !repositories.IsNotFound(err) {
		return nil, none, fmt.Errorf("failed to check registration: %w", err)
	}

	reg := &models.Registration{
		ID:           uuid.New().String(),
		EventID:      event.ID,
		EventName:    event.Name,
		UserID:       user.ID,
		StudentName:  user.Name,
		StudentEmail: user.Email,
		Department:   user.Department,
		Year:         user.Year,
		RegisteredAt: s.now(),
		Category:     event.Category,
		EventDate:    event.Date,
		EventVenue:   event.Venue,
		RollNumber:   user.RollNumber,
	}
	if err := s.repos.RegistrationRepository.Create(ctx, reg); err != nil {
		return nil, none, fmt.Errorf("failed to save registration: %w", err)
	}

	event.RegisteredUserIDs = append(event.RegisteredUserIDs, user.ID)
	event.RegistrationsCount++
	if err := s.repos.EventRepository.Save(ctx, event); err != nil {
		return nil, none, fmt.Errorf("failed to update event: %w", err)
	}

	s.logger.Info().Str("eventID", eventID).Str("userID", userID).Int("count", event.RegistrationsCount).Msg("Registered for event")
	return reg, notify.Notification{
		Kind:      notify.RegistrationCreated,
		Recipient: user.Email,
		Subject:   fmt.Sprintf("Registered for %s", event.Name),
		Data:      map[string]string{"eventId": event.ID, "registrationId": reg.ID},
	}, nil
}

// UnregisterFromEvent cancels the user's registration. The registration is
// found through the index, falling back to a match on the user's email.
func (s *RegistrationService) UnregisterFromEvent(ctx context.Context, eventID, userID string) error {
	reg, err := s.unregister(ctx, eventID, userID)
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Kind:      notify.RegistrationCancelled,
		Recipient: reg.StudentEmail,
		Subject:   fmt.Sprintf("Registration for %s cancelled", reg.EventName),
		Data:      map[string]string{"eventId": eventID, "registrationId": reg.ID},
	})
	return nil
}

func (s *RegistrationService) unregister(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	reg, err := s.findRegistration(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repos.RegistrationRepository.Delete(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to delete registration: %w", err)
	}

	event, err := s.repos.EventRepository.Get(ctx, eventID)
	switch {
	case err == nil:
		event.RegisteredUserIDs = removeString(event.RegisteredUserIDs, reg.UserID)
		if event.RegistrationsCount > 0 {
			event.RegistrationsCount--
		}
		if err := s.repos.EventRepository.Save(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
	case !repositories.IsNotFound(err):
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	s.logger.Info().Str("eventID", eventID).Str("userID", userID).Msg("Unregistered from event")
	return reg, nil
}

func (s *RegistrationService) findRegistration(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	reg, err := s.repos.RegistrationRepository.FindByEventAndUser(ctx, eventID, userID)
	if err == nil {
		return reg, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up registration: %w", err)
	}

	user, err := s.repos.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("registration not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	all, err := s.repos.RegistrationRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].EventID == eventID && strings.EqualFold(all[i].StudentEmail, user.Email) {
			return &all[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("registration not found")
}

// UpdateAttendance marks a registration as attended or not
func (s *RegistrationService) UpdateAttendance(ctx context.Context, registrationID string, attended bool, admin *models.User) (*models.Registration, error) {
	if err := s.authz.Require(admin, appauth.MarkAttendance); err != nil {
		return nil, err
	}

	reg, err := s.repos.RegistrationRepository.GetByID(ctx, registrationID)
	if repositories.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("registration not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}

	reg.Attended = &attended
	if err := s.repos.RegistrationRepository.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}

	s.logger.Info().Str("registrationID", registrationID).Bool("attended", attended).Msg("Attendance updated")
	s.notifier.Notify(ctx, notify.Notification{
		Kind:      notify.AttendanceMarked,
		Recipient: reg.StudentEmail,
		Subject:   fmt.Sprintf("Attendance updated for %s", reg.EventName),
		Data:      map[string]string{"registrationId": reg.ID, "attended": fmt.Sprint(attended)},
	})
	return reg, nil
}

// ListRegistrations returns every registration
func (s *RegistrationService) ListRegistrations(ctx context.Context, admin *models.User) ([]models.Registration, error) {
	if err := s.authz.Require(admin, appauth.ViewAllRegistrations); err != nil {
		return nil, err
	}
	return s.repos.RegistrationRepository.List(ctx)
}

// ListEventRegistrations returns the registrations of one event
func (s *RegistrationService) ListEventRegistrations(ctx context.Context, eventID string, admin *models.User) ([]models.Registration, error) {
	if err := s.authz.Require(admin, appauth.ViewAllRegistrations); err != nil {
		return nil, err
	}
	return s.repos.RegistrationRepository.ListByEvent(ctx, eventID)
}

// MyRegistrations returns the registrations of the user
func (s *RegistrationService) MyRegistrations(ctx context.Context, user *models.User) ([]models.Registration, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.repos.RegistrationRepository.ListByUser(ctx, user.ID)
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
