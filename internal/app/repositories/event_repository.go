package repositories

import (
	"context"

	"github.com/yigit/eventsphere/internal/app/models"
)

// EventRepository stores live events and pending student submissions in
// two separate collections
type EventRepository struct {
	store RecordStore
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(store RecordStore) *EventRepository {
	return &EventRepository{store: store}
}

// Get retrieves a live event
func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	return getRecord[models.Event](ctx, r.store, models.CollectionEvents, id)
}

// List returns all live events in creation order
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	return listRecords[models.Event](ctx, r.store, models.CollectionEvents)
}

// Save creates or overwrites a live event
func (r *EventRepository) Save(ctx context.Context, event *models.Event) error {
	return putRecord(ctx, r.store, models.CollectionEvents, event.ID, event)
}

// Delete removes a live event
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, models.CollectionEvents, id)
}

// GetPending retrieves an event awaiting review
func (r *EventRepository) GetPending(ctx context.Context, id string) (*models.Event, error) {
	return getRecord[models.Event](ctx, r.store, models.CollectionPendingEvents, id)
}

// ListPending returns all events awaiting review
func (r *EventRepository) ListPending(ctx context.Context) ([]models.Event, error) {
	return listRecords[models.Event](ctx, r.store, models.CollectionPendingEvents)
}

// SavePending creates or overwrites a pending event
func (r *EventRepository) SavePending(ctx context.Context, event *models.Event) error {
	return putRecord(ctx, r.store, models.CollectionPendingEvents, event.ID, event)
}

// DeletePending removes a pending event
func (r *EventRepository) DeletePending(ctx context.Context, id string) error {
	return r.store.Delete(ctx, models.CollectionPendingEvents, id)
}
