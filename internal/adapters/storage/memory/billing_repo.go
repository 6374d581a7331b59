package memory

import (
	"context"
	"sort"
	"sync"

	"vet-clinic/internal/domain/billing"
	"vet-clinic/internal/platform/apperr"
)

type invoiceRepo struct {
	mu   sync.RWMutex
	byID map[string]billing.Invoice
}

func NewInvoiceRepo() billing.InvoiceRepository {
	return &invoiceRepo{
		byID: make(map[string]billing.Invoice),
	}
}

func (r *invoiceRepo) Create(ctx context.Context, inv billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[inv.ID]; exists {
		return apperr.Duplicate("invoice %s already exists", inv.ID)
	}
	for _, other := range r.byID {
		if other.Number == inv.Number {
			return apperr.Duplicate("invoice number %s already used", inv.Number)
		}
	}
	r.byID[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[inv.ID]; !exists {
		return apperr.NotFound("invoice", inv.ID)
	}
	r.byID[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id string) (billing.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byID[id]
	if !ok {
		return billing.Invoice{}, apperr.NotFound("invoice", id)
	}
	return cloneInvoice(inv), nil
}

func (r *invoiceRepo) ListByClient(ctx context.Context, clientID string) ([]billing.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]billing.Invoice, 0)
	for _, inv := range r.byID {
		if inv.ClientID == clientID {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("invoice", id)
	}
	delete(r.byID, id)
	return nil
}

// los items son slice: no compartir backing array con el caller
func cloneInvoice(inv billing.Invoice) billing.Invoice {
	inv.Items = append([]billing.LineItem(nil), inv.Items...)
	return inv
}

type paymentRepo struct {
	mu   sync.RWMutex
	byID map[string]billing.Payment
}

func NewPaymentRepo() billing.PaymentRepository {
	return &paymentRepo{
		byID: make(map[string]billing.Payment),
	}
}

func (r *paymentRepo) Create(ctx context.Context, p billing.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return apperr.Duplicate("payment %s already exists", p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *paymentRepo) Update(ctx context.Context, p billing.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return apperr.NotFound("payment", p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (billing.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return billing.Payment{}, apperr.NotFound("payment", id)
	}
	return p, nil
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]billing.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]billing.Payment, 0)
	for _, p := range r.byID {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
