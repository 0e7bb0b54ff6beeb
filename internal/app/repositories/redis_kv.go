package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores values as plain string keys under a namespace. A sorted
// set with equal scores indexes the keys for lexicographic prefix ranges,
// and a hash records the sequence number each key was first written with.
type RedisKV struct {
	client    *redis.Client
	namespace string
}

// NewRedisKV creates a Redis backend. namespace is prepended to every key.
func NewRedisKV(client *redis.Client, namespace string) *RedisKV {
	return &RedisKV{client: client, namespace: namespace}
}

func (r *RedisKV) dataKey(key string) string { return r.namespace + key }
func (r *RedisKV) indexKey() string         { return r.namespace + "__keys" }
func (r *RedisKV) seqKey() string           { return r.namespace + "__seq" }
func (r *RedisKV) counterKey() string       { return r.namespace + "__counter" }

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.dataKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	exists, err := r.client.HExists(ctx, r.seqKey(), key).Result()
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	if !exists {
		seq, err := r.client.Incr(ctx, r.counterKey()).Result()
		if err != nil {
			return fmt.Errorf("redis set %s: %w", key, err)
		}
		if err := r.client.HSetNX(ctx, r.seqKey(), key, seq).Err(); err != nil {
			return fmt.Errorf("redis set %s: %w", key, err)
		}
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.dataKey(key), value, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: 0, Member: key})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	dataKeys := make([]string, len(keys))
	members := make([]interface{}, len(keys))
	for i, k := range keys {
		dataKeys[i] = r.dataKey(k)
		members[i] = k
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, dataKeys...)
		pipe.ZRem(ctx, r.indexKey(), members...)
		pipe.HDel(ctx, r.seqKey(), keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisKV) GetByPrefix(ctx context.Context, prefix string) ([]KVPair, error) {
	rng := &redis.ZRangeBy{Min: "-", Max: "+"}
	if prefix != "" {
		rng = &redis.ZRangeBy{Min: "[" + prefix, Max: "[" + prefix + "\xff"}
	}
	keys, err := r.client.ZRangeByLex(ctx, r.indexKey(), rng).Result()
	if err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
	}
	if len(keys) == 0 {
		return []KVPair{}, nil
	}

	dataKeys := make([]string, len(keys))
	for i, k := range keys {
		dataKeys[i] = r.dataKey(k)
	}
	values, err := r.client.MGet(ctx, dataKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
	}
	seqs, err := r.client.HMGet(ctx, r.seqKey(), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
	}

	type ordered struct {
		pair KVPair
		seq  int64
	}
	items := make([]ordered, 0, len(keys))
	for i, k := range keys {
		s, ok := values[i].(string)
		if !ok {
			continue
		}
		var seq int64
		if raw, ok := seqs[i].(string); ok {
			seq, _ = strconv.ParseInt(raw, 10, 64)
		}
		items = append(items, ordered{pair: KVPair{Key: k, Value: []byte(s)}, seq: seq})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].seq < items[j].seq })

	out := make([]KVPair, len(items))
	for i, it := range items {
		out[i] = it.pair
	}
	return out, nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
