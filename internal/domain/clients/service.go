package clients

import (
	"context"
	"strings"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/eventbus"
	"vet-clinic/internal/platform/logger"

	"github.com/google/uuid"
)

const (
	EventClientCreated = "client.created"
	EventClientUpdated = "client.updated"
	EventClientDeleted = "client.deleted"
)

// EventPayload es lo que viaja en los eventos client.*; patients lo replica.
type EventPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type Service struct {
	repo  Repository
	pub   eventbus.Publisher
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, pub eventbus.Publisher, log logger.Logger) *Service {
	if pub == nil {
		pub = eventbus.Discard
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		pub:   pub,
		log:   log.With(map[string]any{"module": "clients"}),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, in Input) (Client, error) {
	c, err := New(s.newID(), in, s.now())
	if err != nil {
		return Client{}, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, apperr.Wrap(err, "create client")
	}
	s.publish(ctx, EventClientCreated, c)
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, apperr.Validation("client id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Exists permite a otros módulos validar referencias sin conocer el modelo.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if apperr.KindOf(err) == apperr.KindNotFound {
		return false, nil
	}
	return false, err
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Client, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (Client, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}
	next, err := current.WithPatch(p, s.now())
	if err != nil {
		return Client{}, err
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return Client{}, apperr.Wrap(err, "update client")
	}
	s.publish(ctx, EventClientUpdated, next)
	return next, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return apperr.Wrap(err, "delete client")
	}
	s.publish(ctx, EventClientDeleted, c)
	return nil
}

// publish es fire-and-forget: un fallo del broker no revierte la escritura.
func (s *Service) publish(ctx context.Context, eventType string, c Client) {
	e := eventbus.MustNew(eventType, c.ID, s.now(), EventPayload{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	})
	if err := s.pub.Publish(ctx, e); err != nil {
		s.log.Warn("event publish failed", map[string]any{"type": eventType, "client_id": c.ID, "error": err})
	}
}
