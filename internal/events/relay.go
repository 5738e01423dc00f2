package events

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/trymedating/trymed/pkg/logger"
)

const channelPrefix = "events:"

type envelope struct {
	Origin  string          `json:"origin"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Publisher is what services publish through; a bare Bus works for a single
// instance, the Relay adds cross-instance fan-out.
type Publisher interface {
	Publish(ev Event)
}

// Relay mirrors local events onto Redis pub/sub and re-delivers events
// published by other instances into the local bus. Each instance tags its
// messages with an origin id so its own publishes are not echoed.
type Relay struct {
	bus    *Bus
	rdb    *redis.Client
	origin string
}

func NewRelay(bus *Bus, rdb *redis.Client) *Relay {
	return &Relay{
		bus:    bus,
		rdb:    rdb,
		origin: uuid.NewString(),
	}
}

// Publish delivers locally and broadcasts to peers.
func (r *Relay) Publish(ev Event) {
	r.bus.Publish(ev)

	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Warn("Failed to marshal event payload", "type", ev.Type, "error", err)
		payload = nil
	}
	data, err := json.Marshal(envelope{Origin: r.origin, Type: ev.Type, Payload: payload})
	if err != nil {
		return
	}

	channel := channelPrefix + strconv.FormatUint(uint64(ev.UserID), 10)
	if err := r.rdb.Publish(context.Background(), channel, data).Err(); err != nil {
		logger.Warn("Failed to publish event to redis", "channel", channel, "error", err)
	}
}

// Run consumes peer events until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	sub := r.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.deliver(msg)
		}
	}
}

func (r *Relay) deliver(msg *redis.Message) {
	var env envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		logger.Warn("Dropping malformed relay message", "error", err)
		return
	}
	if env.Origin == r.origin {
		return
	}

	idStr := strings.TrimPrefix(msg.Channel, channelPrefix)
	userID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return
	}

	var payload interface{}
	if len(env.Payload) > 0 {
		_ = json.Unmarshal(env.Payload, &payload)
	}
	r.bus.Publish(Event{Type: env.Type, UserID: uint(userID), Payload: payload})
}
