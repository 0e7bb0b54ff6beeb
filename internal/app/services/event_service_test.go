package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	"github.com/yigit/eventsphere/internal/pkg/notify"
)

func validEventRequest() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Name:        "Robotics Workshop",
		Description: "Build a line follower",
		Category:    "technical",
		Venue:       "Lab 2",
		Date:        "2025-11-20",
		Time:        "14:00",
		Capacity:    30,
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	f := newFixture(t)

	req := validEventRequest()
	req.Venue = " "
	req.Capacity = 0
	_, err := f.svc.EventService.CreateEvent(context.Background(), req, f.admin)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	var ce *apperrors.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"venue", "capacity"}, ce.Details["fields"])

	req = validEventRequest()
	req.ContactEmail = "not-an-email"
	_, err = f.svc.EventService.CreateEvent(context.Background(), req, f.admin)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateEvent_AdminEventIsLive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	event, err := f.svc.EventService.CreateEvent(ctx, validEventRequest(), f.admin)
	require.NoError(t, err)
	assert.Equal(t, models.EventUpcoming, event.Status)
	assert.Equal(t, models.ApprovalApproved, event.ApprovalStatus)
	assert.Equal(t, "Admin", event.ContactPerson)
	assert.Equal(t, "admin@klu.ac.in", event.ContactEmail)

	live, err := f.svc.EventService.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, event.ID, live[0].ID)
}

func TestApprovalWorkflow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	student := f.student(t, "s1", "s1@klu.ac.in", "R1")

	submitted, err := f.svc.EventService.CreateEvent(ctx, validEventRequest(), student)
	require.NoError(t, err)
	assert.Equal(t, models.EventPending, submitted.Status)
	assert.Equal(t, models.ApprovalPending, submitted.ApprovalStatus)

	available, err := f.svc.EventService.ListAvailableEvents(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, available)

	_, err = f.svc.EventService.ListPendingEvents(ctx, student)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	pending, err := f.svc.EventService.ListPendingEvents(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = f.svc.EventService.ApproveEvent(ctx, submitted.ID, true, student)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	approved, err := f.svc.EventService.ApproveEvent(ctx, submitted.ID, true, f.admin)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, approved.ApprovalStatus)
	assert.Equal(t, "admin-1", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	available, err = f.svc.EventService.ListAvailableEvents(ctx, student)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.False(t, available[0].IsRegistered)

	_, err = f.svc.RegistrationService.RegisterForEvent(ctx, submitted.ID, student.ID)
	require.NoError(t, err)
	available, err = f.svc.EventService.ListAvailableEvents(ctx, student)
	require.NoError(t, err)
	assert.True(t, available[0].IsRegistered)

	pending, err = f.svc.EventService.ListPendingEvents(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.svc.EventService.ApproveEvent(ctx, submitted.ID, true, f.admin)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, []notify.Kind{notify.EventSubmitted, notify.EventApproved, notify.RegistrationCreated}, f.recorder.Kinds())
	assert.Equal(t, "s1@klu.ac.in", f.recorder.Sent()[1].Recipient)
}

func TestApprovalWorkflow_RejectionIsPermanent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	student := f.student(t, "s1", "s1@klu.ac.in", "R1")

	submitted, err := f.svc.EventService.CreateEvent(ctx, validEventRequest(), student)
	require.NoError(t, err)

	rejected, err := f.svc.EventService.ApproveEvent(ctx, submitted.ID, false, f.admin)
	require.NoError(t, err)
	assert.Equal(t, models.EventRejected, rejected.Status)
	assert.Equal(t, models.ApprovalRejected, rejected.ApprovalStatus)

	live, err := f.svc.EventService.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)

	pending, err := f.svc.EventService.ListPendingEvents(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.svc.EventService.GetEvent(ctx, submitted.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteEvent_CascadesRegistrations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.event(t, "e1", 5)
	f.event(t, "e2", 5)
	f.student(t, "s1", "s1@klu.ac.in", "R1")

	_, err := f.svc.RegistrationService.RegisterForEvent(ctx, "e1", "s1")
	require.NoError(t, err)
	_, err = f.svc.RegistrationService.RegisterForEvent(ctx, "e2", "s1")
	require.NoError(t, err)

	require.NoError(t, f.svc.EventService.DeleteEvent(ctx, "e1", f.admin))

	regs, err := f.repos.RegistrationRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "e2", regs[0].EventID)

	_, err = f.repos.RegistrationRepository.FindByEventAndUser(ctx, "e1", "s1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, f.svc.EventService.DeleteEvent(ctx, "e1", f.admin), apperrors.ErrNotFound)
}

func TestDeleteEvent_Pending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	student := f.student(t, "s1", "s1@klu.ac.in", "R1")

	submitted, err := f.svc.EventService.CreateEvent(ctx, validEventRequest(), student)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.EventService.DeleteEvent(ctx, submitted.ID, student), apperrors.ErrForbidden)
	require.NoError(t, f.svc.EventService.DeleteEvent(ctx, submitted.ID, f.admin))

	pending, err := f.svc.EventService.ListPendingEvents(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
