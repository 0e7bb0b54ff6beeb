package repositories

import (
	"context"
	"errors"
	"strings"
)

// ErrKeyNotFound is returned by a KV backend for a missing key
var ErrKeyNotFound = errors.New("key not found")

// KV is a flat string-keyed byte store. GetByPrefix returns pairs in the
// order the keys were first written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
	GetByPrefix(ctx context.Context, prefix string) ([]KVPair, error)
	Close() error
}

// KVPair is one key and its value
type KVPair struct {
	Key   string
	Value []byte
}

// KVStore maps collections onto a KV backend using "{collection}:{id}" keys
type KVStore struct {
	kv KV
}

// NewKVStore wraps a KV backend as a RecordStore
func NewKVStore(kv KV) *KVStore {
	return &KVStore{kv: kv}
}

func kvKey(collection, id string) string {
	return collection + ":" + id
}

func (s *KVStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	v, err := s.kv.Get(ctx, kvKey(collection, id))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrRecordNotFound
	}
	return v, err
}

func (s *KVStore) List(ctx context.Context, collection string) ([]Record, error) {
	return s.Scan(ctx, collection, "")
}

func (s *KVStore) Scan(ctx context.Context, collection, prefix string) ([]Record, error) {
	base := collection + ":"
	pairs, err := s.kv.GetByPrefix(ctx, base+prefix)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Record{ID: strings.TrimPrefix(p.Key, base), Value: p.Value})
	}
	return out, nil
}

func (s *KVStore) Put(ctx context.Context, collection, id string, value []byte) error {
	return s.kv.Set(ctx, kvKey(collection, id), value)
}

func (s *KVStore) Delete(ctx context.Context, collection string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = kvKey(collection, id)
	}
	return s.kv.Del(ctx, keys...)
}

func (s *KVStore) Clear(ctx context.Context, collection string) error {
	pairs, err := s.kv.GetByPrefix(ctx, collection+":")
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return nil
	}
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	return s.kv.Del(ctx, keys...)
}

func (s *KVStore) Close() error {
	return s.kv.Close()
}
