package eventbus

import (
	"context"
	"sync"
)

// MemoryBus entrega en el mismo proceso, de forma síncrona. Sirve para modo dev
// (sin Redis) y tests: publicar un client.created ya actualiza la réplica de patients.
type MemoryBus struct {
	mu        sync.RWMutex
	consumers []*Dispatcher
	published []Event
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Attach(d *Dispatcher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consumers = append(b.consumers, d)
}

func (b *MemoryBus) Publish(ctx context.Context, e Event) error {
	b.mu.Lock()
	b.published = append(b.published, e)
	cs := append([]*Dispatcher(nil), b.consumers...)
	b.mu.Unlock()

	for _, d := range cs {
		d.Dispatch(ctx, e)
	}
	return nil
}

// Published devuelve una copia de lo publicado, en orden.
func (b *MemoryBus) Published() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Event(nil), b.published...)
}

func (b *MemoryBus) PublishedTypes() []string {
	evs := b.Published()
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Type)
	}
	return out
}
