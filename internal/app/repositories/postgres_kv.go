package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresKV keeps pairs in the kv_store table created by the migrator
type PostgresKV struct {
	pool *pgxpool.Pool
}

// NewPostgresKV creates a Postgres backend over an existing pool
func NewPostgresKV(pool *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{pool: pool}
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value::text FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value) VALUES ($1, $2::jsonb)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := p.pool.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = ANY($1)`, keys); err != nil {
		return fmt.Errorf("postgres del: %w", err)
	}
	return nil
}

func (p *PostgresKV) GetByPrefix(ctx context.Context, prefix string) ([]KVPair, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT key, value::text FROM kv_store
		WHERE left(key, char_length($1)) = $1
		ORDER BY seq`, prefix)
	if err != nil {
		return nil, fmt.Errorf("postgres scan %s: %w", prefix, err)
	}
	defer rows.Close()

	out := []KVPair{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("postgres scan %s: %w", prefix, err)
		}
		out = append(out, KVPair{Key: key, Value: []byte(value)})
	}
	return out, rows.Err()
}

// Close releases the pool
func (p *PostgresKV) Close() error {
	p.pool.Close()
	return nil
}
