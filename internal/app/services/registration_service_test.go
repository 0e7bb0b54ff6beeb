package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	"github.com/yigit/eventsphere/internal/pkg/notify"
)

func TestRegisterForEvent_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.event(t, "e1", 5)
	f.student(t, "s1", "s1@klu.ac.in", "R1")
	f.student(t, "outsider", "someone@gmail.com", "R2")

	_, err := f.svc.RegistrationService.RegisterForEvent(ctx, "missing", "s1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.RegistrationService.RegisterForEvent(ctx, "e1", "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.RegistrationService.RegisterForEvent(ctx, "e1", "outsider")
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)

	reg, err := f.svc.RegistrationService.RegisterForEvent(ctx, "e1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Event e1", reg.EventName)
	assert.Equal(t, "s1@klu.ac.in", reg.StudentEmail)
	assert.Equal(t, "R1", reg.RollNumber)
	assert.Nil(t, reg.Attended)
}

func TestRegisterForEvent_DuplicateLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.event(t, "e1", 5)
	f.student(t, "s1", "s1@klu.ac.in", "R1")

	_, err := f.svc.RegistrationService.RegisterForEvent(ctx, "e1", "s1")
	require.NoError(t, err)

	_, err = f.svc.RegistrationService.RegisterForEvent(ctx, "e1", "s1")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	event, err := f.repos.EventRepository.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, event.RegistrationsCount)
	assert.Equal(t, []string{"s1"}, event.RegisteredUserIDs)

	regs, err := f.repos.RegistrationRepository.List(ctx)
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestRegistration_CapacityOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.event(t, "e1", 1)
	f.student(t, "a", "a@klu.ac.in", "RA")
	f.student(t, "b", "b@klu.ac.in", "RB")
	regs := f.svc.RegistrationService

	_, err := regs.RegisterForEvent(ctx, "e1", "a")
	require.NoError(t, err)

	_, err = regs.RegisterForEvent(ctx, "e1", "b")
	assert.ErrorIs(t, err, apperrors.ErrFull)

	require.NoError(t, regs.UnregisterFromEvent(ctx, "e1", "a"))

	_, err = regs.RegisterForEvent(ctx, "e1", "b")
	require.NoError(t, err)

	event, err := f.repos.EventRepository.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, event.RegistrationsCount)
	assert.Equal(t, []string{"b"}, event.RegisteredUserIDs)
}

func TestRegistration_CountTracksRegistersMinusUnregisters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.event(t, "e1", 10)

	const n, m = 7, 3
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("s%d", i)
		f.student(t, id, id+"@klu.ac.in", "R"+id)
		_, err := f.svc.RegistrationService.RegisterForEvent(ctx, "e1", id)
		require.NoError(t, err)
	}
	for i := 0; i < m; i++ {
		require.NoError(t, f.svc.RegistrationService.UnregisterFromEvent(ctx, "e1", fmt.Sprintf("s%d", i)))
	}

	event, err := f.repos.EventRepository.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, n-m, event.RegistrationsCount)
	assert.Len(t, event.RegisteredUserIDs, n-m)

	byEvent, err := f.repos.RegistrationRepository.ListByEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, byEvent, n-m)
}

func TestRegistration_ConcurrentRegistrationsNeverOverbook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const capacity, students = 10, 100
	f.event(t, "e1", capacity)
	for i := 0; i < students; i++ {
		id := fmt.Sprintf("s%03d", i)
		f.student(t, id, id+"@klu.ac.in", "R"+id)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for i := 0; i < students; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.RegistrationService.RegisterForEvent(ctx, "e1", id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case apperrors.Is(err, apperrors.ErrFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(fmt.Sprintf("s%03d", i))
	}
	wg.Wait()

	assert.Equal(t, capacity, ok)
	assert.Equal(t, students-capacity, full)

	event, err := f.repos.EventRepository.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, capacity, event.RegistrationsCount)
	assert.Len(t, event.RegisteredUserIDs, capacity)
}

func TestUnregisterFromEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.event(t, "e1", 5)
	f.student(t, "s1", "s1@klu.ac.in", "R1")

	err := f.svc.RegistrationService.UnregisterFromEvent(ctx, "e1", "s1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	t.Run("falls back to email match", func(t *testing.T) {
		// A registration written without index entries
		require.NoError(t, f.repos.Store.Put(ctx, models.CollectionRegistrations, "legacy",
			[]byte(`{"id":"legacy","eventId":"e1","userId":"old-id","studentEmail":"S1@klu.ac.in"}`)))

		require.NoError(t, f.svc.RegistrationService.UnregisterFromEvent(ctx, "e1", "s1"))

		_, err := f.repos.RegistrationRepository.GetByID(ctx, "legacy")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		event, err := f.repos.EventRepository.Get(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, 0, event.RegistrationsCount)
	})

	assert.Contains(t, f.recorder.Kinds(), notify.RegistrationCancelled)
}

func TestUpdateAttendance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.event(t, "e1", 5)
	student := f.student(t, "s1", "s1@klu.ac.in", "R1")

	reg, err := f.svc.RegistrationService.RegisterForEvent(ctx, "e1", "s1")
	require.NoError(t, err)

	_, err = f.svc.RegistrationService.UpdateAttendance(ctx, reg.ID, true, student)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.RegistrationService.UpdateAttendance(ctx, "missing", true, f.admin)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err := f.svc.RegistrationService.UpdateAttendance(ctx, reg.ID, true, f.admin)
	require.NoError(t, err)
	assert.True(t, updated.HasAttended())

	mine, err := f.svc.RegistrationService.MyRegistrations(ctx, student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].HasAttended())

	all, err := f.svc.RegistrationService.ListRegistrations(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.svc.RegistrationService.ListRegistrations(ctx, student)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	assert.Equal(t, []notify.Kind{notify.RegistrationCreated, notify.AttendanceMarked}, f.recorder.Kinds())
}

// gatePublisher holds every delivery until release is closed
type gatePublisher struct {
	arrived chan notify.Kind
	release chan struct{}
}

func (g *gatePublisher) Publish(ctx context.Context, n notify.Notification) error {
	g.arrived <- n.Kind
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gatePublisher) Close() error { return nil }

func TestSlowDeliveryDoesNotHoldStoreLock(t *testing.T) {
	ctx := context.Background()
	gate := &gatePublisher{arrived: make(chan notify.Kind, 3), release: make(chan struct{})}
	f := newFixtureWithPublisher(t, gate)
	f.event(t, "e1", 5)
	f.event(t, "e2", 5)
	doomed := f.event(t, "e3", 5)
	doomed.ContactEmail = "organiser@klu.ac.in"
	require.NoError(t, f.repos.EventRepository.Save(ctx, doomed))
	f.student(t, "s1", "s1@klu.ac.in", "R1")
	f.student(t, "s2", "s2@klu.ac.in", "R2")

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for _, p := range [][2]string{{"e1", "s1"}, {"e2", "s2"}} {
		wg.Add(1)
		go func(eventID, userID string) {
			defer wg.Done()
			_, err := f.svc.RegistrationService.RegisterForEvent(ctx, eventID, userID)
			errs <- err
		}(p[0], p[1])
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- f.svc.EventService.DeleteEvent(ctx, "e3", f.admin)
	}()

	// every write must commit while the earlier deliveries are still stuck
	var kinds []notify.Kind
	for range 3 {
		select {
		case k := <-gate.arrived:
			kinds = append(kinds, k)
		case <-time.After(2 * time.Second):
			close(gate.release)
			wg.Wait()
			t.Fatalf("only %d of 3 operations reached delivery", len(kinds))
		}
	}
	assert.ElementsMatch(t, []notify.Kind{notify.RegistrationCreated, notify.RegistrationCreated, notify.EventDeleted}, kinds)

	regs, err := f.repos.RegistrationRepository.List(ctx)
	require.NoError(t, err)
	assert.Len(t, regs, 2)
	_, err = f.repos.EventRepository.Get(ctx, "e3")
	assert.Error(t, err)

	close(gate.release)
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
