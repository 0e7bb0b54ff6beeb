package repositories

import (
	"context"

	"github.com/yigit/eventsphere/internal/app/models"
)

// RegistrationRepository keeps the registrations collection as the source of
// truth plus two derived index entries per registration:
//
//	registration/{eventId}:{userId}
//	registration/user:{userId}:{eventId}
type RegistrationRepository struct {
	store RecordStore
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(store RecordStore) *RegistrationRepository {
	return &RegistrationRepository{store: store}
}

func eventIndexID(eventID, userID string) string { return eventID + ":" + userID }
func userIndexID(userID, eventID string) string  { return "user:" + userID + ":" + eventID }

// Create stores the registration and both index entries
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	if err := putRecord(ctx, r.store, models.CollectionRegistrations, reg.ID, reg); err != nil {
		return err
	}
	ref := models.RegistrationRef{RegistrationID: reg.ID, EventID: reg.EventID, UserID: reg.UserID}
	if err := putRecord(ctx, r.store, models.CollectionRegistrationIndex, eventIndexID(reg.EventID, reg.UserID), ref); err != nil {
		return err
	}
	return putRecord(ctx, r.store, models.CollectionRegistrationIndex, userIndexID(reg.UserID, reg.EventID), ref)
}

// GetByID retrieves a registration
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	return getRecord[models.Registration](ctx, r.store, models.CollectionRegistrations, id)
}

// FindByEventAndUser resolves the registration through the event index
func (r *RegistrationRepository) FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	ref, err := getRecord[models.RegistrationRef](ctx, r.store, models.CollectionRegistrationIndex, eventIndexID(eventID, userID))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, ref.RegistrationID)
}

// ListByEvent returns the registrations of one event via the event index
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	refs, err := scanRecords[models.RegistrationRef](ctx, r.store, models.CollectionRegistrationIndex, eventID+":")
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, refs)
}

// ListByUser returns the registrations of one user via the user index
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	refs, err := scanRecords[models.RegistrationRef](ctx, r.store, models.CollectionRegistrationIndex, "user:"+userID+":")
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, refs)
}

// List returns every registration in creation order
func (r *RegistrationRepository) List(ctx context.Context) ([]models.Registration, error) {
	return listRecords[models.Registration](ctx, r.store, models.CollectionRegistrations)
}

// Update overwrites the registration record; index entries are unaffected
func (r *RegistrationRepository) Update(ctx context.Context, reg *models.Registration) error {
	return putRecord(ctx, r.store, models.CollectionRegistrations, reg.ID, reg)
}

// Delete removes the registration and both index entries
func (r *RegistrationRepository) Delete(ctx context.Context, reg *models.Registration) error {
	if err := r.store.Delete(ctx, models.CollectionRegistrations, reg.ID); err != nil {
		return err
	}
	return r.store.Delete(ctx, models.CollectionRegistrationIndex,
		eventIndexID(reg.EventID, reg.UserID),
		userIndexID(reg.UserID, reg.EventID),
	)
}

// DeleteByEvent removes every registration of the event, returning how many
// were removed
func (r *RegistrationRepository) DeleteByEvent(ctx context.Context, eventID string) (int, error) {
	all, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := range all {
		if all[i].EventID != eventID {
			continue
		}
		if err := r.Delete(ctx, &all[i]); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// resolve loads the registrations behind index refs, skipping dangling refs
func (r *RegistrationRepository) resolve(ctx context.Context, refs []models.RegistrationRef) ([]models.Registration, error) {
	out := make([]models.Registration, 0, len(refs))
	for _, ref := range refs {
		reg, err := r.GetByID(ctx, ref.RegistrationID)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *reg)
	}
	return out, nil
}
