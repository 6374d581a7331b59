package memory

import (
	"context"
	"sort"
	"sync"

	"vet-clinic/internal/domain/patients"
	"vet-clinic/internal/platform/apperr"
)

type patientRepo struct {
	mu   sync.RWMutex
	byID map[string]patients.Patient
}

func NewPatientRepo() patients.Repository {
	return &patientRepo{
		byID: make(map[string]patients.Patient),
	}
}

func (r *patientRepo) Create(ctx context.Context, p patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return apperr.Duplicate("patient %s already exists", p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *patientRepo) Update(ctx context.Context, p patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return apperr.NotFound("patient", p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *patientRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return patients.Patient{}, apperr.NotFound("patient", id)
	}
	return p, nil
}

func (r *patientRepo) List(ctx context.Context, ownerID string) ([]patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]patients.Patient, 0)
	for _, p := range r.byID {
		if ownerID != "" && p.OwnerID != ownerID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *patientRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("patient", id)
	}
	delete(r.byID, id)
	return nil
}

type ownerRepo struct {
	mu   sync.RWMutex
	byID map[string]patients.Owner
}

func NewOwnerRepo() patients.OwnerRepository {
	return &ownerRepo{
		byID: make(map[string]patients.Owner),
	}
}

func (r *ownerRepo) Upsert(ctx context.Context, o patients.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[o.ID] = o
	return nil
}

func (r *ownerRepo) GetByID(ctx context.Context, id string) (patients.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return patients.Owner{}, apperr.NotFound("owner", id)
	}
	return o, nil
}

func (r *ownerRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("owner", id)
	}
	delete(r.byID, id)
	return nil
}
