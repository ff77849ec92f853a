// Package rediscp is a Redis-backed Checkpoint, grounded on the
// go-redis client construction and ping-on-connect shape of the
// teacher's RedisCache.
package rediscp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/go-argmin/argmin/argerr"
)

// Options configures the Redis connection a Checkpoint opens.
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	TTL      time.Duration
}

func (o Options) withDefaults() Options {
	if o.PoolSize <= 0 {
		o.PoolSize = 10
	}
	if o.TTL <= 0 {
		o.TTL = 24 * time.Hour
	}
	return o
}

// Checkpoint stores one (solver, state) snapshot per run under a single
// Redis key, JSON-encoded. Solver and St must be JSON-serializable.
type Checkpoint[Solver, St any] struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

type snapshot[Solver, St any] struct {
	Solver Solver `json:"solver"`
	State  St     `json:"state"`
}

// New opens a Redis connection and verifies it with a ping, matching the
// teacher's fail-fast construction; key identifies the run (typically a
// runid.ID).
func New[Solver, St any](opts Options, key string) (*Checkpoint[Solver, St], error) {
	opts = opts.withDefaults()
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, argerr.Wrap(err, argerr.CodeIOError, "redis ping failed")
	}

	return &Checkpoint[Solver, St]{client: client, key: key, ttl: opts.TTL}, nil
}

func (c *Checkpoint[Solver, St]) Save(solver Solver, st St) error {
	payload, err := json.Marshal(snapshot[Solver, St]{Solver: solver, State: st})
	if err != nil {
		return argerr.Wrap(err, argerr.CodeIOError, "marshal checkpoint snapshot")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return argerr.Wrap(err, argerr.CodeIOError, "write checkpoint to redis")
	}
	return nil
}

func (c *Checkpoint[Solver, St]) Load() (Solver, St, bool, error) {
	var snap snapshot[Solver, St]
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return snap.Solver, snap.State, false, nil
		}
		return snap.Solver, snap.State, false, argerr.Wrap(err, argerr.CodeIOError, "read checkpoint from redis")
	}

	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap.Solver, snap.State, false, argerr.Wrap(err, argerr.CodeIOError, "unmarshal checkpoint snapshot")
	}
	return snap.Solver, snap.State, true, nil
}

// Close releases the underlying connection pool.
func (c *Checkpoint[Solver, St]) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("close redis checkpoint: %w", err)
	}
	return nil
}
