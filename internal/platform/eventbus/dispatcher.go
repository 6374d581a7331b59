package eventbus

import (
	"context"
	"sync"

	"vet-clinic/internal/platform/logger"
)

type Handler func(ctx context.Context, e Event) error

// Dispatcher enruta eventos por Type. Los tipos sin handler se reconocen y se descartan.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      logger.Logger
}

func NewDispatcher(log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

func (d *Dispatcher) Register(eventType string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], h)
}

func (d *Dispatcher) Types() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.handlers))
	for t := range d.handlers {
		out = append(out, t)
	}
	return out
}

// Dispatch corre los handlers en orden. Un error de handler se loguea y no
// detiene a los demás: no hay reintento, el mensaje queda reconocido igual.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	d.mu.RLock()
	hs := append([]Handler(nil), d.handlers[e.Type]...)
	d.mu.RUnlock()

	if len(hs) == 0 {
		d.log.Debug("event dropped: no handler", map[string]any{"type": e.Type, "event_id": e.ID})
		return
	}

	for _, h := range hs {
		if err := h(ctx, e); err != nil {
			d.log.Error("event handler failed", map[string]any{
				"type":         e.Type,
				"event_id":     e.ID,
				"aggregate_id": e.AggregateID,
				"error":        err,
			})
		}
	}
}
