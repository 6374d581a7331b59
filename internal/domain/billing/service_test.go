package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceRepo struct{ byID map[string]Invoice }

func (r *invoiceRepo) Create(_ context.Context, inv Invoice) error {
	r.byID[inv.ID] = inv
	return nil
}

func (r *invoiceRepo) Update(_ context.Context, inv Invoice) error {
	r.byID[inv.ID] = inv
	return nil
}

func (r *invoiceRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (Invoice, error) {
	inv, ok := r.byID[id]
	if !ok {
		return Invoice{}, apperr.NotFound("invoice", id)
	}
	return inv, nil
}

func (r *invoiceRepo) ListByClient(_ context.Context, clientID string) ([]Invoice, error) {
	out := []Invoice{}
	for _, inv := range r.byID {
		if inv.ClientID == clientID {
			out = append(out, inv)
		}
	}
	return out, nil
}

type paymentRepo struct{ byID map[string]Payment }

func (r *paymentRepo) Create(_ context.Context, p Payment) error {
	r.byID[p.ID] = p
	return nil
}

func (r *paymentRepo) Update(_ context.Context, p Payment) error {
	r.byID[p.ID] = p
	return nil
}

func (r *paymentRepo) GetByID(_ context.Context, id string) (Payment, error) {
	p, ok := r.byID[id]
	if !ok {
		return Payment{}, apperr.NotFound("payment", id)
	}
	return p, nil
}

func (r *paymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]Payment, error) {
	out := []Payment{}
	for _, p := range r.byID {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

var fixedNow = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	invoices *invoiceRepo
	payments *paymentRepo
	bus      *eventbus.MemoryBus
}

func newFixture() fixture {
	f := fixture{
		invoices: &invoiceRepo{byID: map[string]Invoice{}},
		payments: &paymentRepo{byID: map[string]Payment{}},
		bus:      eventbus.NewMemoryBus(),
	}
	f.svc = NewService(f.invoices, f.payments, nil, f.bus, nil)
	f.svc.now = func() time.Time { return fixedNow }
	n := 0
	f.svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return f
}

// issuedInvoice: 2 x 1000 + 21% = 2420 centavos.
func (f fixture) issuedInvoice(t *testing.T) Invoice {
	t.Helper()
	ctx := context.Background()
	inv, err := f.svc.CreateInvoice(ctx, InvoiceInput{ClientID: "c-1", TaxRateBps: 2100})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, inv.ID, LineItem{Description: "Consulta", Quantity: 2, UnitPriceCents: 1000})
	require.NoError(t, err)
	inv, err = f.svc.IssueInvoice(ctx, inv.ID)
	require.NoError(t, err)
	return inv
}

func TestInvoice_Totals(t *testing.T) {
	f := newFixture()
	inv := f.issuedInvoice(t)

	assert.Equal(t, int64(2000), inv.SubtotalCents)
	assert.Equal(t, int64(420), inv.TaxCents)
	assert.Equal(t, int64(2420), inv.TotalCents)
	assert.Equal(t, InvoiceIssued, inv.Status)
	assert.Contains(t, inv.Number, "INV-20251222-")
	assert.Equal(t, []string{EventInvoiceIssued}, f.bus.PublishedTypes())
}

func TestInvoice_Lifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	draft, err := f.svc.CreateInvoice(ctx, InvoiceInput{ClientID: "c-1"})
	require.NoError(t, err)

	_, err = f.svc.IssueInvoice(ctx, draft.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation, "issuing without items")

	_, err = f.svc.AddItem(ctx, draft.ID, LineItem{Description: "Vacuna", Quantity: 0, UnitPriceCents: 100})
	assert.ErrorIs(t, err, apperr.ErrValidation, "zero quantity")

	issued := f.issuedInvoice(t)
	_, err = f.svc.AddItem(ctx, issued.ID, LineItem{Description: "Extra", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation, "items only on drafts")
	assert.ErrorIs(t, f.svc.DeleteInvoice(ctx, issued.ID), apperr.ErrValidation)

	cancelled, err := f.svc.CancelInvoice(ctx, issued.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoiceCancelled, cancelled.Status)

	require.NoError(t, f.svc.DeleteInvoice(ctx, draft.ID))
	_, err = f.svc.GetInvoice(ctx, draft.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPay_PartialThenFull(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := f.issuedInvoice(t)

	p1, err := f.svc.Pay(ctx, PaymentInput{InvoiceID: inv.ID, AmountCents: 1000, Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, PaymentSucceeded, p1.Status)
	assert.Equal(t, DefaultCurrency, p1.Currency)
	assert.Equal(t, "c-1", p1.ClientID)

	_, err = f.svc.Pay(ctx, PaymentInput{InvoiceID: inv.ID, AmountCents: 5000, Method: "cash"})
	assert.ErrorIs(t, err, apperr.ErrValidation, "overpayment")

	_, err = f.svc.Pay(ctx, PaymentInput{InvoiceID: inv.ID, AmountCents: 1420, Method: "card"})
	require.NoError(t, err)

	paid, err := f.svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoicePaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)
	assert.Zero(t, paid.OutstandingCents())

	_, err = f.svc.CancelInvoice(ctx, inv.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation, "paid invoices cannot be cancelled")

	list, err := f.svc.ListPaymentsByInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPay_RequiresIssuedInvoice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft, err := f.svc.CreateInvoice(ctx, InvoiceInput{ClientID: "c-1"})
	require.NoError(t, err)

	_, err = f.svc.Pay(ctx, PaymentInput{InvoiceID: draft.ID, AmountCents: 100, Method: "cash"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Pay(ctx, PaymentInput{InvoiceID: "missing", AmountCents: 100, Method: "cash"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, f.payments.byID)
}

func TestRefund_Twice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := f.issuedInvoice(t)

	p, err := f.svc.Pay(ctx, PaymentInput{InvoiceID: inv.ID, AmountCents: inv.TotalCents, Method: "transfer"})
	require.NoError(t, err)

	refunded, err := f.svc.Refund(ctx, p.ID, "cliente insatisfecho")
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, refunded.Status)
	require.NotNil(t, refunded.RefundedAt)

	back, err := f.svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoiceIssued, back.Status, "a paid invoice returns to issued")
	assert.Nil(t, back.PaidAt)
	assert.Equal(t, inv.TotalCents, back.OutstandingCents())

	_, err = f.svc.Refund(ctx, p.ID, "otra vez")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Equal(t, []string{EventInvoiceIssued, EventPaymentSucceeded, EventPaymentRefunded}, f.bus.PublishedTypes())
}
