package memory

import (
	"context"
	"sort"
	"sync"

	"vet-clinic/internal/domain/awards"
	"vet-clinic/internal/platform/apperr"
)

type awardRepo struct {
	mu   sync.RWMutex
	byID map[string]awards.Award
}

func NewAwardRepo() awards.Repository {
	return &awardRepo{
		byID: make(map[string]awards.Award),
	}
}

func (r *awardRepo) Create(ctx context.Context, a awards.Award) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; exists {
		return apperr.Duplicate("award %s already exists", a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *awardRepo) Update(ctx context.Context, a awards.Award) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return apperr.NotFound("award", a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *awardRepo) GetByID(ctx context.Context, id string) (awards.Award, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return awards.Award{}, apperr.NotFound("award", id)
	}
	return a, nil
}

func (r *awardRepo) ListByPet(ctx context.Context, petID string, onlyValid bool) ([]awards.Award, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]awards.Award, 0)
	for _, a := range r.byID {
		if a.PetID != petID {
			continue
		}
		if onlyValid && !a.IsValid {
			continue
		}
		out = append(out, a)
	}

	// más recientes primero
	sort.Slice(out, func(i, j int) bool {
		if out[i].AwardedAt.Equal(out[j].AwardedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AwardedAt.After(out[j].AwardedAt)
	})
	return out, nil
}

func (r *awardRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("award", id)
	}
	delete(r.byID, id)
	return nil
}
