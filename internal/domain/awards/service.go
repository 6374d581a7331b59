package awards

import (
	"context"
	"strings"
	"time"

	"vet-clinic/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	pets  PetLookup
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, pets PetLookup) *Service {
	return &Service{
		repo:  repo,
		pets:  pets,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, in Input) (Award, error) {
	a, err := New(s.newID(), in, s.now())
	if err != nil {
		return Award{}, err
	}
	if err := s.ensurePet(ctx, a.PetID); err != nil {
		return Award{}, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Award{}, apperr.Wrap(err, "create award")
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Award, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Award{}, apperr.Validation("award id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Award, error) {
	return s.list(ctx, petID, false)
}

// ListActiveByPet excluye premios revocados.
func (s *Service) ListActiveByPet(ctx context.Context, petID string) ([]Award, error) {
	return s.list(ctx, petID, true)
}

func (s *Service) Revoke(ctx context.Context, id, reason string) (Award, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Award{}, err
	}
	next, err := current.Revoke(reason, s.now())
	if err != nil {
		return Award{}, err
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return Award{}, apperr.Wrap(err, "revoke award")
	}
	return next, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return apperr.Wrap(err, "delete award")
	}
	return nil
}

func (s *Service) list(ctx context.Context, petID string, onlyValid bool) ([]Award, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, apperr.Validation("pet id is required")
	}
	if err := s.ensurePet(ctx, petID); err != nil {
		return nil, err
	}
	return s.repo.ListByPet(ctx, petID, onlyValid)
}

func (s *Service) ensurePet(ctx context.Context, petID string) error {
	if s.pets == nil {
		return nil
	}
	ok, err := s.pets.Exists(ctx, petID)
	if err != nil {
		return apperr.Wrap(err, "lookup pet")
	}
	if !ok {
		return apperr.NotFound("pet", petID)
	}
	return nil
}
