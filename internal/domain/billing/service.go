package billing

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
	EventInvoiceIssued    = "invoice.issued"
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentRefunded  = "payment.refunded"
)

type invoicePayload struct {
	ID         string        `json:"id"`
	ClientID   string        `json:"clientId"`
	Number     string        `json:"number"`
	TotalCents int64         `json:"totalCents"`
	Status     InvoiceStatus `json:"status"`
}

type paymentPayload struct {
	ID          string        `json:"id"`
	InvoiceID   string        `json:"invoiceId"`
	ClientID    string        `json:"clientId"`
	AmountCents int64         `json:"amountCents"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
}

// ClientLookup es opcional: sin él no se valida el cliente de la factura.
type ClientLookup interface {
	Exists(ctx context.Context, clientID string) (bool, error)
}

type Service struct {
	invoices InvoiceRepository
	payments PaymentRepository
	clients  ClientLookup
	pub      eventbus.Publisher
	log      logger.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(invoices InvoiceRepository, payments PaymentRepository, clients ClientLookup, pub eventbus.Publisher, log logger.Logger) *Service {
	if pub == nil {
		pub = eventbus.Discard
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		invoices: invoices,
		payments: payments,
		clients:  clients,
		pub:      pub,
		log:      log.With(map[string]any{"module": "billing"}),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// -------------------------
// Invoices
// -------------------------

func (s *Service) CreateInvoice(ctx context.Context, in InvoiceInput) (Invoice, error) {
	inv, err := NewInvoice(s.newID(), in, s.now())
	if err != nil {
		return Invoice{}, err
	}
	if s.clients != nil {
		ok, err := s.clients.Exists(ctx, inv.ClientID)
		if err != nil {
			return Invoice{}, apperr.Wrap(err, "lookup client")
		}
		if !ok {
			return Invoice{}, apperr.NotFound("client", inv.ClientID)
		}
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return Invoice{}, apperr.Wrap(err, "create invoice")
	}
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Invoice{}, apperr.Validation("invoice id is required")
	}
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) ListInvoicesByClient(ctx context.Context, clientID string) ([]Invoice, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, apperr.Validation("client id is required")
	}
	return s.invoices.ListByClient(ctx, clientID)
}

func (s *Service) AddItem(ctx context.Context, invoiceID string, it LineItem) (Invoice, error) {
	return s.mutateInvoice(ctx, invoiceID, func(inv Invoice, now time.Time) (Invoice, error) {
		return inv.WithItem(it, now)
	})
}

func (s *Service) IssueInvoice(ctx context.Context, invoiceID string) (Invoice, error) {
	inv, err := s.mutateInvoice(ctx, invoiceID, func(inv Invoice, now time.Time) (Invoice, error) {
		return inv.Issue(now)
	})
	if err != nil {
		return Invoice{}, err
	}
	s.publish(ctx, EventInvoiceIssued, inv.ID, invoicePayload{
		ID: inv.ID, ClientID: inv.ClientID, Number: inv.Number, TotalCents: inv.TotalCents, Status: inv.Status,
	})
	return inv, nil
}

func (s *Service) CancelInvoice(ctx context.Context, invoiceID string) (Invoice, error) {
	return s.mutateInvoice(ctx, invoiceID, func(inv Invoice, now time.Time) (Invoice, error) {
		return inv.Cancel(now)
	})
}

// DeleteInvoice sólo borra borradores; lo emitido queda como registro contable.
func (s *Service) DeleteInvoice(ctx context.Context, invoiceID string) error {
	inv, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != InvoiceDraft {
		return apperr.Validation("only draft invoices can be deleted (status %s)", inv.Status)
	}
	if err := s.invoices.Delete(ctx, inv.ID); err != nil {
		return apperr.Wrap(err, "delete invoice")
	}
	return nil
}

// -------------------------
// Payments
// -------------------------

// Pay registra un pago sobre una factura emitida. No hay pasarela: el pago
// queda SUCCEEDED al persistirse.
func (s *Service) Pay(ctx context.Context, in PaymentInput) (Payment, error) {
	inv, err := s.GetInvoice(ctx, in.InvoiceID)
	if err != nil {
		return Payment{}, err
	}
	now := s.now()

	p, err := newPayment(s.newID(), inv, in, now)
	if err != nil {
		return Payment{}, err
	}
	nextInv, err := inv.applyPayment(p.AmountCents, now)
	if err != nil {
		return Payment{}, err
	}
	p = p.succeed(now)

	if err := s.payments.Create(ctx, p); err != nil {
		return Payment{}, apperr.Wrap(err, "create payment")
	}
	if err := s.invoices.Update(ctx, nextInv); err != nil {
		// el pago ya quedó guardado; sin transacción no hay rollback
		s.log.Error("payment stored but invoice not updated", map[string]any{
			"payment_id": p.ID,
			"invoice_id": inv.ID,
			"error":      err,
		})
		return Payment{}, apperr.Wrap(err, "apply payment to invoice")
	}

	s.publish(ctx, EventPaymentSucceeded, p.ID, toPaymentPayload(p))
	return p, nil
}

func (s *Service) GetPayment(ctx context.Context, id string) (Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Payment{}, apperr.Validation("payment id is required")
	}
	return s.payments.GetByID(ctx, id)
}

func (s *Service) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]Payment, error) {
	inv, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.payments.ListByInvoice(ctx, inv.ID)
}

func (s *Service) Refund(ctx context.Context, paymentID, reason string) (Payment, error) {
	p, err := s.GetPayment(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}
	now := s.now()
	refunded, err := p.Refund(reason, now)
	if err != nil {
		return Payment{}, err
	}
	inv, err := s.invoices.GetByID(ctx, p.InvoiceID)
	if err != nil {
		return Payment{}, apperr.Wrap(err, "load invoice for refund")
	}

	if err := s.payments.Update(ctx, refunded); err != nil {
		return Payment{}, apperr.Wrap(err, "refund payment")
	}
	if err := s.invoices.Update(ctx, inv.revertPayment(p.AmountCents, now)); err != nil {
		return Payment{}, apperr.Wrap(err, "revert invoice payment")
	}

	s.publish(ctx, EventPaymentRefunded, refunded.ID, toPaymentPayload(refunded))
	return refunded, nil
}

func (s *Service) mutateInvoice(ctx context.Context, id string, fn func(Invoice, time.Time) (Invoice, error)) (Invoice, error) {
	current, err := s.GetInvoice(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	next, err := fn(current, s.now())
	if err != nil {
		return Invoice{}, err
	}
	if err := s.invoices.Update(ctx, next); err != nil {
		return Invoice{}, apperr.Wrap(err, "update invoice")
	}
	return next, nil
}

func (s *Service) publish(ctx context.Context, eventType, aggregateID string, payload any) {
	e, err := eventbus.New(eventType, aggregateID, s.now(), payload)
	if err != nil {
		s.log.Error("event build failed", map[string]any{"type": eventType, "error": err})
		return
	}
	if err := s.pub.Publish(ctx, e); err != nil {
		s.log.Warn("event publish failed", map[string]any{"type": eventType, "aggregate_id": aggregateID, "error": err})
	}
}

func toPaymentPayload(p Payment) paymentPayload {
	return paymentPayload{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		ClientID:    p.ClientID,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		Status:      p.Status,
	}
}
