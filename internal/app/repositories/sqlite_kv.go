package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	key TEXT NOT NULL UNIQUE,
	value TEXT NOT NULL
);`

// SQLiteKV keeps pairs in a single kv_store table. The autoincrement seq
// column survives upserts and gives the insertion order.
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV creates the schema when missing and returns the backend
func NewSQLiteKV(ctx context.Context, db *sql.DB) (*SQLiteKV, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to init sqlite schema: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(value))
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("sqlite del: %w", err)
	}
	return nil
}

func (s *SQLiteKV) GetByPrefix(ctx context.Context, prefix string) ([]KVPair, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM kv_store
		WHERE substr(key, 1, length(?)) = ?
		ORDER BY seq`, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("sqlite scan %s: %w", prefix, err)
	}
	defer rows.Close()

	out := []KVPair{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("sqlite scan %s: %w", prefix, err)
		}
		out = append(out, KVPair{Key: key, Value: []byte(value)})
	}
	return out, rows.Err()
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
