package patients

import (
	"context"
	"strings"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	owners OwnerRepository
	log    logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(repo Repository, owners OwnerRepository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		owners: owners,
		log:    log.With(map[string]any{"module": "patients"}),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Create exige que la réplica del dueño ya exista (llegó su client.created).
func (s *Service) Create(ctx context.Context, in Input) (Patient, error) {
	p, err := New(s.newID(), in, s.now())
	if err != nil {
		return Patient{}, err
	}
	if _, err := s.owners.GetByID(ctx, p.OwnerID); err != nil {
		return Patient{}, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, apperr.Wrap(err, "create patient")
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, apperr.Validation("patient id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Exists lo usa medicalrecords para validar la referencia al paciente.
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

func (s *Service) List(ctx context.Context, ownerID string) ([]Patient, error) {
	return s.repo.List(ctx, strings.TrimSpace(ownerID))
}

func (s *Service) Update(ctx context.Context, id string, in Patch) (Patient, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}
	next, err := current.WithPatch(in, s.now())
	if err != nil {
		return Patient{}, err
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return Patient{}, apperr.Wrap(err, "update patient")
	}
	return next, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return apperr.Wrap(err, "delete patient")
	}
	return nil
}

func (s *Service) GetOwner(ctx context.Context, id string) (Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Owner{}, apperr.Validation("owner id is required")
	}
	return s.owners.GetByID(ctx, id)
}
