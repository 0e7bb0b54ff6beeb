package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yigit/eventsphere/internal/pkg/filestorage"
)

type collectionData struct {
	order  []string
	values map[string][]byte
}

func newCollectionData() *collectionData {
	return &collectionData{values: make(map[string][]byte)}
}

type snapshotEntry struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

// MemoryStore keeps every collection in process memory. With a blob storage
// attached, each write re-serializes the whole touched collection.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*collectionData
	snapshots   filestorage.BlobStorage
}

// NewMemoryStore creates an empty store. A non-nil snapshots storage is
// loaded first and then kept in sync on every write.
func NewMemoryStore(snapshots filestorage.BlobStorage) (*MemoryStore, error) {
	s := &MemoryStore{
		collections: make(map[string]*collectionData),
		snapshots:   snapshots,
	}
	if snapshots == nil {
		return s, nil
	}

	names, err := snapshots.List()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		raw, err := snapshots.Read(name)
		if err != nil {
			return nil, err
		}
		var entries []snapshotEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
		}
		c := newCollectionData()
		for _, e := range entries {
			if _, ok := c.values[e.ID]; !ok {
				c.order = append(c.order, e.ID)
			}
			c.values[e.ID] = []byte(e.Value)
		}
		s.collections[name] = c
	}
	return s, nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, ErrRecordNotFound
	}
	v, ok := c.values[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Record, error) {
	return s.Scan(ctx, collection, "")
}

func (s *MemoryStore) Scan(_ context.Context, collection, prefix string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return []Record{}, nil
	}
	out := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		out = append(out, Record{ID: id, Value: append([]byte(nil), c.values[id]...)})
	}
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, collection, id string, value []byte) error {
	if !json.Valid(value) {
		return errors.New("record value is not valid JSON")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = newCollectionData()
		s.collections[collection] = c
	}
	if _, exists := c.values[id]; !exists {
		c.order = append(c.order, id)
	}
	c.values[id] = append([]byte(nil), value...)
	return s.persist(collection)
}

func (s *MemoryStore) Delete(_ context.Context, collection string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil
	}
	removed := false
	for _, id := range ids {
		if _, exists := c.values[id]; !exists {
			continue
		}
		delete(c.values, id)
		removed = true
	}
	if !removed {
		return nil
	}
	order := c.order[:0]
	for _, id := range c.order {
		if _, exists := c.values[id]; exists {
			order = append(order, id)
		}
	}
	c.order = order
	return s.persist(collection)
}

func (s *MemoryStore) Clear(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, collection)
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.Delete(collection)
}

func (s *MemoryStore) Close() error { return nil }

// persist must be called with the write lock held
func (s *MemoryStore) persist(collection string) error {
	if s.snapshots == nil {
		return nil
	}
	c := s.collections[collection]
	entries := make([]snapshotEntry, 0, len(c.order))
	for _, id := range c.order {
		entries = append(entries, snapshotEntry{ID: id, Value: c.values[id]})
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", collection, err)
	}
	return s.snapshots.Write(collection, raw)
}
