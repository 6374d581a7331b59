package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"vet-clinic/internal/domain/clients"
	"vet-clinic/internal/platform/apperr"
)

type clientRepo struct {
	mu   sync.RWMutex
	byID map[string]clients.Client
}

func NewClientRepo() clients.Repository {
	return &clientRepo{
		byID: make(map[string]clients.Client),
	}
}

func (r *clientRepo) Create(ctx context.Context, c clients.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; exists {
		return apperr.Duplicate("client %s already exists", c.ID)
	}
	if r.emailTaken(c.Email, c.ID) {
		return apperr.Duplicate("email %s already registered", c.Email)
	}
	r.byID[c.ID] = c
	return nil
}

func (r *clientRepo) Update(ctx context.Context, c clients.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return apperr.NotFound("client", c.ID)
	}
	if r.emailTaken(c.Email, c.ID) {
		return apperr.Duplicate("email %s already registered", c.Email)
	}
	r.byID[c.ID] = c
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return clients.Client{}, apperr.NotFound("client", id)
	}
	return c, nil
}

func (r *clientRepo) List(ctx context.Context, filter clients.ListFilter) ([]clients.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]clients.Client, 0)
	for _, c := range r.byID {
		if q != "" && !strings.Contains(strings.ToLower(c.FirstName+" "+c.LastName+" "+c.Email), q) {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if filter.Offset >= len(out) {
		return []clients.Client{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("client", id)
	}
	delete(r.byID, id)
	return nil
}

// emailTaken asume el lock tomado.
func (r *clientRepo) emailTaken(email, exceptID string) bool {
	for id, other := range r.byID {
		if id != exceptID && strings.EqualFold(other.Email, email) {
			return true
		}
	}
	return false
}
