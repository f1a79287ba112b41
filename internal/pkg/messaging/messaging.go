// Package messaging is the transport layer of the cross-service protocol:
// a typed envelope, a fire-and-forget publisher and per-topic consumers.
// Delivery is at-least-once with no ordering guarantee across topics, so
// every consumer handler must be idempotent.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope wraps every payload on the wire with an id, a kind discriminator
// and the production timestamp.
type Envelope struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope marshals payload into an envelope of the given kind.
func NewEnvelope(kind string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return Envelope{
		ID:         uuid.NewString(),
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v interface{}) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Kind, err)
	}
	return nil
}

// Publisher sends an envelope to a topic. Implementations are
// fire-and-forget: a failed publish is logged, never surfaced to the caller,
// matching the save-locally-then-notify pattern. The key selects the
// partition so messages about one entity stay ordered.
type Publisher interface {
	Publish(topic, key string, env Envelope)
}

// Handler processes one delivered envelope. Returning an error makes the
// consumer retry the delivery a few times; a message that keeps failing is
// skipped so it cannot wedge the partition.
type Handler func(ctx context.Context, env Envelope) error
