package coordinator

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/parkerroan/rlengine/engine"
)

// EventType names a control operation that one engine.Engine instance
// wants its peers to apply too.
type EventType string

const (
	// EventRemoveLimiter asks peers to call engine.RemoveLimiter(Key).
	EventRemoveLimiter EventType = "REMOVE_LIMITER"
	// EventAddPenalty asks peers to call engine.AddPenalty(Key, Points).
	EventAddPenalty EventType = "ADD_PENALTY"
	// EventRemovePenalty asks peers to call engine.RemovePenalty(Key, Points).
	EventRemovePenalty EventType = "REMOVE_PENALTY"
)

// Event is one control message broadcast across engine instances sharing
// a deployment. Propagation is best-effort, same as the rest of this
// package's contract with the engine: a missed event just means a peer's
// local view of a key's penalty or existence lags until its own callers
// reconcile it (e.g. the next CreateLimiter for that key).
type Event struct {
	BrokerID string    `json:"broker_id"`
	Type     EventType `json:"type"`
	Key      string    `json:"key"`
	Points   int64     `json:"points,omitempty"`
}

// EventBroker publishes and consumes Events. It is the multi-node
// propagation half of the distributed story; the Coordinator interface in
// the engine package is the per-request token-budget half. They're kept
// separate because a deployment may want one without the other (e.g.
// distributed token budgets without cross-node penalty propagation).
type EventBroker interface {
	Publish(ctx context.Context, event Event) error
	Consume(ctx context.Context, handle func(Event)) error
}

// Apply replays event against a local engine, ignoring event types it
// does not recognize. It is the handler a caller passes to
// EventBroker.Consume to keep a fleet of engines eventually consistent on
// removals and penalties.
func Apply(e *engine.Engine, event Event) {
	switch event.Type {
	case EventRemoveLimiter:
		e.RemoveLimiter(event.Key)
	case EventAddPenalty:
		e.AddPenalty(event.Key, event.Points)
	case EventRemovePenalty:
		e.RemovePenalty(event.Key, event.Points)
	}
}

// RedisEventBroker is an EventBroker backed by a Redis stream: Publish
// appends with XADD and Consume reads with a blocking XREAD.
type RedisEventBroker struct {
	client   *redis.Client
	stream   string
	brokerID string
}

// NewRedisEventBroker constructs a RedisEventBroker over client, writing
// to and reading from the named stream.
func NewRedisEventBroker(client *redis.Client, stream string, brokerID string) *RedisEventBroker {
	return &RedisEventBroker{client: client, stream: stream, brokerID: brokerID}
}

// Publish appends event to the stream.
func (b *RedisEventBroker) Publish(ctx context.Context, event Event) error {
	event.BrokerID = b.brokerID
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]interface{}{"event": payload},
	}).Err()
}

// Consume blocks reading new messages from the stream, calling handle for
// every event not originated by this broker's own BrokerID (a peer should
// not re-apply its own writes). It returns when ctx is canceled.
func (b *RedisEventBroker) Consume(ctx context.Context, handle func(Event)) error {
	lastID := "$"
	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := b.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{b.stream, lastID},
			Count:   100,
			Block:   0,
		}).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				raw, ok := msg.Values["event"].(string)
				if !ok {
					continue
				}
				var event Event
				if err := json.Unmarshal([]byte(raw), &event); err != nil {
					continue
				}
				if event.BrokerID == b.brokerID {
					continue
				}
				handle(event)
			}
		}
	}
}
