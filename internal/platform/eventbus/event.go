// Package eventbus define el sobre de eventos entre servicios y el puerto de publicación.
//
// La entrega es at-most-once: Publish no reintenta y no hay outbox. Un consumidor que
// se cae entre la publicación y el procesamiento pierde el evento.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregateId"`
	OccurredOn  time.Time       `json:"occurredOn"`
	Payload     json.RawMessage `json:"payload"`
}

// New arma un evento serializando payload a JSON.
func New(eventType, aggregateID string, occurredOn time.Time, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredOn:  occurredOn.UTC(),
		Payload:     raw,
	}, nil
}

// MustNew es para payloads que siempre serializan (structs propios).
func MustNew(eventType, aggregateID string, occurredOn time.Time, payload any) Event {
	e, err := New(eventType, aggregateID, occurredOn, payload)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s has empty payload", e.Type)
	}
	return json.Unmarshal(e.Payload, v)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

// Discard es el publisher por defecto cuando no hay broker configurado.
var Discard Publisher = PublisherFunc(func(context.Context, Event) error { return nil })
