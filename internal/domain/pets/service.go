package pets

import (
	"context"
	"strings"
	"time"

	"vet-clinic/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	clients ClientLookup
	now     func() time.Time
	newID   func() string
}

func NewService(repo Repository, clients ClientLookup) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, in Input) (Pet, error) {
	p, err := New(s.newID(), in, s.now())
	if err != nil {
		return Pet{}, err
	}
	if err := s.ensureClient(ctx, p.ClientID); err != nil {
		return Pet{}, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, apperr.Wrap(err, "create pet")
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, apperr.Validation("pet id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Exists expone la existencia de una mascota a otros módulos (awards) sin ciclos de imports.
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

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]Pet, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, apperr.Validation("client id is required")
	}
	if err := s.ensureClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListByClient(ctx, clientID)
}

// UpdateProfile aplica un PATCH: sólo cambian los campos presentes.
func (s *Service) UpdateProfile(ctx context.Context, id string, in Patch) (Pet, error) {
	return s.mutate(ctx, id, func(p Pet, now time.Time) (Pet, error) {
		return p.WithPatch(in, now)
	})
}

func (s *Service) AddVaccination(ctx context.Context, id string, v Vaccination) (Pet, error) {
	return s.mutate(ctx, id, func(p Pet, now time.Time) (Pet, error) {
		return p.WithVaccination(v, now)
	})
}

func (s *Service) AddHistoryEntry(ctx context.Context, id string, h HistoryEntry) (Pet, error) {
	return s.mutate(ctx, id, func(p Pet, now time.Time) (Pet, error) {
		return p.WithHistoryEntry(h, now)
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return apperr.Wrap(err, "delete pet")
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(Pet, time.Time) (Pet, error)) (Pet, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	next, err := fn(current, s.now())
	if err != nil {
		return Pet{}, err
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return Pet{}, apperr.Wrap(err, "update pet")
	}
	return next, nil
}

func (s *Service) ensureClient(ctx context.Context, clientID string) error {
	if s.clients == nil {
		return nil
	}
	ok, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return apperr.Wrap(err, "lookup client")
	}
	if !ok {
		return apperr.NotFound("client", clientID)
	}
	return nil
}
