package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

// ErrRecordNotFound is returned by a RecordStore when no record has the id
var ErrRecordNotFound = fmt.Errorf("record %w", apperrors.ErrNotFound)

// Record is a stored JSON document together with its id inside the collection
type Record struct {
	ID    string
	Value []byte
}

// RecordStore is a flat document store over named collections.
// List and Scan return records in insertion order; overwriting a record keeps
// its original position. There are no transactions: the last write wins.
type RecordStore interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	List(ctx context.Context, collection string) ([]Record, error)
	Scan(ctx context.Context, collection, prefix string) ([]Record, error)
	Put(ctx context.Context, collection, id string, value []byte) error
	Delete(ctx context.Context, collection string, ids ...string) error
	Clear(ctx context.Context, collection string) error
	Close() error
}

func getRecord[T any](ctx context.Context, s RecordStore, collection, id string) (*T, error) {
	raw, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &v, nil
}

func decodeRecords[T any](collection string, records []Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, r := range records {
		var v T
		if err := json.Unmarshal(r.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, r.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func listRecords[T any](ctx context.Context, s RecordStore, collection string) ([]T, error) {
	records, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](collection, records)
}

func scanRecords[T any](ctx context.Context, s RecordStore, collection, prefix string) ([]T, error) {
	records, err := s.Scan(ctx, collection, prefix)
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](collection, records)
}

func putRecord(ctx context.Context, s RecordStore, collection, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return s.Put(ctx, collection, id, raw)
}

// IsNotFound reports whether err means a missing record
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
