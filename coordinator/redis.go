package coordinator

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jpillora/backoff"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/semaphore"
)

const (
	defaultPrefix      = "rlengine:"
	defaultTimeout     = 500 * time.Millisecond
	defaultMaxInFlight = 256
)

// acquireScript mirrors the reference Lua token script: it initializes a
// key to maxTokens on first sight, then decrements it if a token is
// available. It returns 1 when a token was acquired, 0 otherwise.
const acquireScript = `
local key = KEYS[1]
local max_tokens = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	redis.call('SET', key, max_tokens)
	current = max_tokens
else
	current = tonumber(current)
end

if current > 0 then
	redis.call('DECRBY', key, 1)
	return 1
end
return 0
`

// RedisCoordinator is the reference engine.Coordinator backed by Redis. It
// never blocks the caller beyond its own timeout and never panics; every
// public method swallows nothing itself (the engine package is the layer
// that swallows coordinator errors) but is written so that a timeout or a
// single transient failure costs at most one retry.
type RedisCoordinator struct {
	client   *redis.Client
	prefix   string
	timeout  time.Duration
	backoff  *backoff.Backoff
	sem      *semaphore.Weighted
	brokerID string
	logger   *slog.Logger
}

// RedisOption configures a RedisCoordinator at construction time.
type RedisOption func(*RedisCoordinator)

// WithPrefix sets the Redis key prefix. Default "rlengine:".
func WithPrefix(prefix string) RedisOption {
	return func(c *RedisCoordinator) { c.prefix = prefix }
}

// WithTimeout bounds how long a single Redis round trip may take before
// the coordinator gives up and reports an error (which the engine treats
// as fail-open). Default 500ms.
func WithTimeout(d time.Duration) RedisOption {
	return func(c *RedisCoordinator) { c.timeout = d }
}

// WithMaxInFlight bounds the number of concurrent Redis calls this
// coordinator will issue; callers beyond the limit wait for a slot rather
// than piling up unbounded goroutines behind a slow Redis. Default 256.
func WithMaxInFlight(n int64) RedisOption {
	return func(c *RedisCoordinator) { c.sem = semaphore.NewWeighted(n) }
}

// WithLogger overrides the logger used for swallowed-error diagnostics.
func WithLogger(l *slog.Logger) RedisOption {
	return func(c *RedisCoordinator) { c.logger = l }
}

// NewRedisCoordinator constructs a RedisCoordinator over an existing
// *redis.Client.
func NewRedisCoordinator(client *redis.Client, opts ...RedisOption) *RedisCoordinator {
	c := &RedisCoordinator{
		client:  client,
		prefix:  defaultPrefix,
		timeout: defaultTimeout,
		sem:     semaphore.NewWeighted(defaultMaxInFlight),
		backoff: &backoff.Backoff{Min: 20 * time.Millisecond, Max: 200 * time.Millisecond, Factor: 2, Jitter: true},
		brokerID: uuid.NewString(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCoordinator) fullKey(key string) string {
	return c.prefix + key
}

// BrokerID identifies this coordinator's process among its peers. A
// RedisEventBroker constructed with the same ID avoids reacting to its
// own published events.
func (c *RedisCoordinator) BrokerID() string {
	return c.brokerID
}

// withSlot runs fn while holding one of the coordinator's concurrency
// slots, retrying fn exactly once (after one backoff interval) on error.
func (c *RedisCoordinator) withSlot(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	err := fn(ctx)
	if err == nil {
		return nil
	}

	b := c.backoff
	time.Sleep(b.Duration())
	b.Reset()
	return fn(ctx)
}

// TryAcquire implements engine.Coordinator.
func (c *RedisCoordinator) TryAcquire(key string, maxTokens int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var acquired bool
	err := c.withSlot(ctx, func(ctx context.Context) error {
		res, err := c.client.Eval(ctx, acquireScript, []string{c.fullKey(key)}, maxTokens).Int64()
		if err != nil {
			return err
		}
		acquired = res == 1
		return nil
	})
	if err != nil {
		c.logger.Error("coordinator: tryAcquire failed, falling open", slog.Any("error", err), slog.String("key", key), slog.String("broker_id", c.brokerID))
		return false, err
	}
	return acquired, nil
}

// Release implements engine.Coordinator.
func (c *RedisCoordinator) Release(key string, tokens int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	err := c.withSlot(ctx, func(ctx context.Context) error {
		return c.client.IncrBy(ctx, c.fullKey(key), tokens).Err()
	})
	if err != nil {
		c.logger.Error("coordinator: release failed", slog.Any("error", err), slog.String("key", key), slog.String("broker_id", c.brokerID))
	}
	return err
}

// Reset implements engine.Coordinator.
func (c *RedisCoordinator) Reset(key string, maxTokens int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	err := c.withSlot(ctx, func(ctx context.Context) error {
		return c.client.Set(ctx, c.fullKey(key), maxTokens, 0).Err()
	})
	if err != nil {
		c.logger.Error("coordinator: reset failed", slog.Any("error", err), slog.String("key", key), slog.String("broker_id", c.brokerID))
	}
	return err
}
