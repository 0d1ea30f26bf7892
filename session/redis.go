package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/tripgraph/planner"
)

// RedisStore persists sessions in Redis as JSON values. A companion set
// indexes all session IDs so List does not need to scan the keyspace.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)
var _ planner.SessionStore = (*RedisStore)(nil)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	// Addr is the Redis server address, e.g. "localhost:6379".
	Addr string
	// Password is optional.
	Password string
	// DB selects the Redis database number.
	DB int
	// KeyPrefix defaults to "tripgraph:session:".
	KeyPrefix string
	// TTL expires sessions after the given duration. Zero means no expiry.
	TTL time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "tripgraph:session:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis store: ping %s: %w", opts.Addr, err)
	}

	return &RedisStore{client: client, prefix: opts.KeyPrefix, ttl: opts.TTL}, nil
}

// NewRedisStoreWithClient wraps an existing client, mainly for tests.
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "tripgraph:session:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) indexKey() string {
	return r.prefix + "ids"
}

func (r *RedisStore) Save(ctx context.Context, id string, state planner.TripState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("redis store: marshal state: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(id), data, r.ttl)
	pipe.SAdd(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: save session %s: %w", id, err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (planner.TripState, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return planner.TripState{}, ErrNotFound
	}
	if err != nil {
		return planner.TripState{}, fmt.Errorf("redis store: load session %s: %w", id, err)
	}

	var state planner.TripState
	if err := json.Unmarshal(data, &state); err != nil {
		return planner.TripState{}, fmt.Errorf("redis store: unmarshal session %s: %w", id, err)
	}
	return state, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: delete session %s: %w", id, err)
	}
	return nil
}

func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis store: list sessions: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
