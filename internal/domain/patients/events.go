package patients

import (
	"context"
	"strings"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/eventbus"
)

// Tipos publicados por el servicio de clientes.
const (
	EventClientCreated = "client.created"
	EventClientUpdated = "client.updated"
	EventClientDeleted = "client.deleted"
)

// clientPayload replica el contrato JSON de client.*; no importamos el módulo clients.
type clientPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// RegisterEventHandlers conecta la réplica de dueños al dispatcher.
func RegisterEventHandlers(d *eventbus.Dispatcher, svc *Service) {
	d.Register(EventClientCreated, svc.HandleClientCreated)
	d.Register(EventClientUpdated, svc.HandleClientUpdated)
	d.Register(EventClientDeleted, svc.HandleClientDeleted)
}

func (s *Service) HandleClientCreated(ctx context.Context, e eventbus.Event) error {
	return s.upsertOwner(ctx, e)
}

// HandleClientUpdated también crea la réplica si el created se perdió.
func (s *Service) HandleClientUpdated(ctx context.Context, e eventbus.Event) error {
	return s.upsertOwner(ctx, e)
}

func (s *Service) HandleClientDeleted(ctx context.Context, e eventbus.Event) error {
	// el payload es opcional: basta con el aggregateId
	var p clientPayload
	_ = e.Decode(&p)
	id := ownerIDFrom(e, p)
	if id == "" {
		return apperr.Validation("%s event without client id", e.Type)
	}

	err := s.owners.Delete(ctx, id)
	if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		return apperr.Wrap(err, "delete owner replica")
	}
	s.log.Info("owner replica removed", map[string]any{"owner_id": id, "event_id": e.ID})
	return nil
}

func (s *Service) upsertOwner(ctx context.Context, e eventbus.Event) error {
	var p clientPayload
	if err := e.Decode(&p); err != nil {
		return apperr.Validation("decode %s payload: %v", e.Type, err)
	}
	id := ownerIDFrom(e, p)
	if id == "" {
		return apperr.Validation("%s event without client id", e.Type)
	}

	o := Owner{
		ID:           id,
		FullName:     strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName)),
		Email:        strings.ToLower(strings.TrimSpace(p.Email)),
		Phone:        strings.TrimSpace(p.Phone),
		ReplicatedAt: s.now(),
	}
	if err := s.owners.Upsert(ctx, o); err != nil {
		return apperr.Wrap(err, "upsert owner replica")
	}
	s.log.Debug("owner replica upserted", map[string]any{"owner_id": id, "type": e.Type, "event_id": e.ID})
	return nil
}

func ownerIDFrom(e eventbus.Event, p clientPayload) string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return id
	}
	return strings.TrimSpace(e.AggregateID)
}
