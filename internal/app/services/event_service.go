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
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	"github.com/yigit/eventsphere/internal/pkg/notify"
	"github.com/yigit/eventsphere/internal/pkg/validation"
)

// EventService handles event creation, the approval workflow and deletion
type EventService struct {
	repos    *repositories.Repositories
	authz    *appauth.AuthorizationService
	notifier *notify.Dispatcher
	lock     *sync.Mutex
	now      func() time.Time
	logger   zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(repos *repositories.Repositories, authz *appauth.AuthorizationService, notifier *notify.Dispatcher, lock *sync.Mutex, now func() time.Time, logger zerolog.Logger) *EventService {
	return &EventService{
		repos:    repos,
		authz:    authz,
		notifier: notifier,
		lock:     lock,
		now:      now,
		logger:   logger,
	}
}

func validateEvent(req *dto.CreateEventRequest) error {
	fields := map[string]*validation.StringValidation{
		"name":        validation.NewStringValidation(req.Name),
		"description": validation.NewStringValidation(req.Description),
		"category":    validation.NewStringValidation(req.Category),
		"venue":       validation.NewStringValidation(req.Venue),
		"date":        validation.NewStringValidation(req.Date),
		"time":        validation.NewStringValidation(req.Time),
	}
	missing := validation.Missing(fields, "name", "description", "category", "venue", "date", "time")
	if !validation.NewNumericValidation(req.Capacity).WithMin(1).Validate() {
		missing = append(missing, "capacity")
	}
	if len(missing) > 0 {
		return apperrors.NewCustomError(apperrors.ErrValidation, "missing required fields: "+strings.Join(missing, ", ")).
			WithDetails(map[string]interface{}{"fields": missing})
	}

	contact := validation.NewStringValidation(strings.ToLower(req.ContactEmail)).
		WithRequired(false).
		WithPattern(validation.CompiledPatterns.Email)
	if !contact.Validate() {
		return apperrors.NewValidationError("contactEmail must be a valid email address")
	}
	return nil
}

// CreateEvent stores a new event. Admin events go live immediately; student
// events wait in the pending collection for review.
func (s *EventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest, creator *models.User) (*models.Event, error) {
	if creator == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if err := validateEvent(req); err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(req.Name),
		Description:       strings.TrimSpace(req.Description),
		Category:          strings.TrimSpace(req.Category),
		Venue:             strings.TrimSpace(req.Venue),
		Date:              strings.TrimSpace(req.Date),
		Time:              strings.TrimSpace(req.Time),
		Capacity:          req.Capacity,
		ContactPerson:     strings.TrimSpace(req.ContactPerson),
		ContactEmail:      strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		CreatedBy:         creator.ID,
		CreatedByName:     creator.Name,
		CreatedByRole:     creator.Role,
		RegisteredUserIDs: []string{},
		CreatedAt:         s.now(),
	}
	if event.ContactPerson == "" {
		event.ContactPerson = creator.Name
	}
	if event.ContactEmail == "" {
		event.ContactEmail = creator.Email
	}

	if creator.IsAdmin() {
		event.Status = models.EventUpcoming
		event.ApprovalStatus = models.ApprovalApproved
		if err := s.repos.EventRepository.Save(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to save event: %w", err)
		}
		s.logger.Info().Str("eventID", event.ID).Str("adminID", creator.ID).Msg("Event created")
		return event, nil
	}

	event.Status = models.EventPending
	event.ApprovalStatus = models.ApprovalPending
	if err := s.repos.EventRepository.SavePending(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save pending event: %w", err)
	}
	s.logger.Info().Str("eventID", event.ID).Str("userID", creator.ID).Msg("Event submitted for approval")
	s.notifier.Notify(ctx, notify.Notification{
		Kind:      notify.EventSubmitted,
		Recipient: creator.Email,
		Subject:   fmt.Sprintf("%s was submitted for approval", event.Name),
		Data:      map[string]string{"eventId": event.ID},
	})
	return event, nil
}

// ApproveEvent reviews a pending event. An approved event moves to the live
// collection; a rejected one is dropped and never becomes visible.
func (s *EventService) ApproveEvent(ctx context.Context, eventID string, approved bool, admin *models.User) (*models.Event, error) {
	if err := s.authz.Require(admin, appauth.ApproveEvents); err != nil {
		return nil, err
	}

	event, n, err := s.review(ctx, eventID, approved, admin)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, n)
	return event, nil
}

func (s *EventService) review(ctx context.Context, eventID string, approved bool, admin *models.User) (*models.Event, notify.Notification, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var none notify.Notification

	event, err := s.repos.EventRepository.GetPending(ctx, eventID)
	if repositories.IsNotFound(err) {
		return nil, none, apperrors.NewNotFoundError("pending event not found")
	}
	if err != nil {
		return nil, none, fmt.Errorf("failed to load pending event: %w", err)
	}

	reviewedAt := s.now()
	event.ApprovedBy = admin.ID
	event.ApprovedAt = &reviewedAt

	kind := notify.EventRejected
	if approved {
		kind = notify.EventApproved
		event.Status = models.EventUpcoming
		event.ApprovalStatus = models.ApprovalApproved
		if err := s.repos.EventRepository.Save(ctx, event); err != nil {
			return nil, none, fmt.Errorf("failed to publish event: %w", err)
		}
	} else {
		event.Status = models.EventRejected
		event.ApprovalStatus = models.ApprovalRejected
	}

	if err := s.repos.EventRepository.DeletePending(ctx, eventID); err != nil {
		return nil, none, fmt.Errorf("failed to remove pending event: %w", err)
	}

	s.logger.Info().Str("eventID", eventID).Bool("approved", approved).Str("adminID", admin.ID).Msg("Event reviewed")
	return event, notify.Notification{
		Kind:      kind,
		Recipient: s.creatorEmail(ctx, event),
		Subject:   fmt.Sprintf("%s was %s", event.Name, event.ApprovalStatus),
		Data:      map[string]string{"eventId": event.ID},
	}, nil
}

// DeleteEvent removes a live event with all of its registrations, or a
// pending event
func (s *EventService) DeleteEvent(ctx context.Context, eventID string, admin *models.User) error {
	if err := s.authz.Require(admin, appauth.DeleteEvents); err != nil {
		return err
	}

	deleted, err := s.deleteEvent(ctx, eventID)
	if err != nil {
		return err
	}
	// pending events have nobody to tell
	if deleted != nil {
		s.notifier.Notify(ctx, notify.Notification{
			Kind:      notify.EventDeleted,
			Recipient: deleted.ContactEmail,
			Subject:   fmt.Sprintf("%s was deleted", deleted.Name),
			Data:      map[string]string{"eventId": eventID},
		})
	}
	return nil
}

// deleteEvent returns the removed live event, or nil when a pending one was
// removed instead
func (s *EventService) deleteEvent(ctx context.Context, eventID string) (*models.Event, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	event, err := s.repos.EventRepository.Get(ctx, eventID)
	switch {
	case err == nil:
		removed, err := s.repos.RegistrationRepository.DeleteByEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to delete registrations: %w", err)
		}
		if err := s.repos.EventRepository.Delete(ctx, eventID); err != nil {
			return nil, fmt.Errorf("failed to delete event: %w", err)
		}
		s.logger.Info().Str("eventID", eventID).Int("registrations", removed).Msg("Event deleted")
		return event, nil
	case !repositories.IsNotFound(err):
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	if _, err := s.repos.EventRepository.GetPending(ctx, eventID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("event not found")
		}
		return nil, fmt.Errorf("failed to load pending event: %w", err)
	}
	if err := s.repos.EventRepository.DeletePending(ctx, eventID); err != nil {
		return nil, fmt.Errorf("failed to delete pending event: %w", err)
	}
	s.logger.Info().Str("eventID", eventID).Msg("Pending event deleted")
	return nil, nil
}

// GetEvent returns a live event
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.repos.EventRepository.Get(ctx, eventID)
	if repositories.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("event not found")
	}
	return event, err
}

// ListEvents returns every live event
func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.repos.EventRepository.List(ctx)
}

// ListAvailableEvents returns the events the user may see, marked with
// whether the user is registered. Students only see approved events.
func (s *EventService) ListAvailableEvents(ctx context.Context, user *models.User) ([]dto.AvailableEvent, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	events, err := s.repos.EventRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AvailableEvent, 0, len(events))
	for _, e := range events {
		if !user.IsAdmin() && e.ApprovalStatus != models.ApprovalApproved {
			continue
		}
		out = append(out, dto.AvailableEvent{Event: e, IsRegistered: e.HasRegistered(user.ID)})
	}
	return out, nil
}

// ListPendingEvents returns the events awaiting review
func (s *EventService) ListPendingEvents(ctx context.Context, admin *models.User) ([]models.Event, error) {
	if err := s.authz.Require(admin, appauth.ViewPendingEvents); err != nil {
		return nil, err
	}
	return s.repos.EventRepository.ListPending(ctx)
}

func (s *EventService) creatorEmail(ctx context.Context, event *models.Event) string {
	if creator, err := s.repos.UserRepository.GetByID(ctx, event.CreatedBy); err == nil {
		return creator.Email
	}
	return event.ContactEmail
}
