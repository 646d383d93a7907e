package queue

import (
	"context"
	"encoding/json"

	rd "github.com/redis/go-redis/v9"
)

// Outbox appends order events to a Redis Stream. The HTTP request only
// pays for one XADD; the Relay forwards to Kafka in the background, so a
// broker outage never delays or fails a checkout.
type Outbox struct {
	rdb    *rd.Client
	stream string
}

func NewOutbox(rdb *rd.Client, stream string) *Outbox {
	return &Outbox{rdb: rdb, stream: stream}
}

// Publish appends one event. The payload travels as a single JSON field so
// relay parsing stays in one place.
func (o *Outbox) Publish(ctx context.Context, ev OrderEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return o.rdb.XAdd(ctx, &rd.XAddArgs{
		Stream: o.stream,
		Values: map[string]interface{}{
			"event_id": ev.EventID,
			"payload":  string(b),
		},
	}).Err()
}
