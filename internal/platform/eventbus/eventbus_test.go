package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientPayload struct {
	Email string `json:"email"`
}

func TestNew_RoundTripsPayload(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	e, err := New("client.created", "c-1", at, clientPayload{Email: "a@b.co"})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, time.UTC, e.OccurredOn.Location())

	var p clientPayload
	require.NoError(t, e.Decode(&p))
	assert.Equal(t, "a@b.co", p.Email)
}

func TestDispatcher_RoutesByTypeAndDropsUnknown(t *testing.T) {
	d := NewDispatcher(nil)

	var got []string
	d.Register("client.created", func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.AggregateID)
		return errors.New("handler failure does not stop others")
	})
	d.Register("client.created", func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.AggregateID)
		return nil
	})

	ctx := context.Background()
	d.Dispatch(ctx, Event{Type: "client.created", AggregateID: "c-1"})
	d.Dispatch(ctx, Event{Type: "invoice.issued", AggregateID: "inv-1"})

	assert.Equal(t, []string{"first:c-1", "second:c-1"}, got)
	assert.ElementsMatch(t, []string{"client.created"}, d.Types())
}

func TestMemoryBus_FansOutToAttachedDispatchers(t *testing.T) {
	bus := NewMemoryBus()
	a, b := NewDispatcher(nil), NewDispatcher(nil)
	bus.Attach(a)
	bus.Attach(b)

	hits := 0
	count := func(context.Context, Event) error { hits++; return nil }
	a.Register("payment.refunded", count)
	b.Register("payment.refunded", count)

	require.NoError(t, bus.Publish(context.Background(), Event{Type: "payment.refunded"}))
	require.NoError(t, bus.Publish(context.Background(), Event{Type: "unrouted"}))

	assert.Equal(t, 2, hits)
	assert.Equal(t, []string{"payment.refunded", "unrouted"}, bus.PublishedTypes())
}
