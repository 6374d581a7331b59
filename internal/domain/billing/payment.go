package billing

import (
	"strings"
	"time"
	"unicode/utf8"

	"vet-clinic/internal/platform/apperr"
)

// PaymentStatus
// @Enum PENDING, SUCCEEDED, FAILED, REFUNDED
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSucceeded PaymentStatus = "SUCCEEDED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Method
// @Enum cash, card, transfer
type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
)

func (m Method) Valid() bool {
	return m == MethodCash || m == MethodCard || m == MethodTransfer
}

const DefaultCurrency = "USD"

type Payment struct {
	ID        string
	InvoiceID string
	ClientID  string

	AmountCents int64
	Currency    string
	Method      Method
	Status      PaymentStatus

	RefundReason string
	RefundedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaymentInput struct {
	InvoiceID   string
	AmountCents int64
	Currency    string
	Method      string
}

func newPayment(id string, inv Invoice, in PaymentInput, now time.Time) (Payment, error) {
	p := Payment{
		ID:          strings.TrimSpace(id),
		InvoiceID:   inv.ID,
		ClientID:    inv.ClientID,
		AmountCents: in.AmountCents,
		Currency:    strings.ToUpper(strings.TrimSpace(in.Currency)),
		Method:      Method(strings.ToLower(strings.TrimSpace(in.Method))),
		Status:      PaymentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.ID == "" {
		return Payment{}, apperr.Validation("payment id is required")
	}
	if p.AmountCents <= 0 {
		return Payment{}, apperr.Validation("payment amount must be greater than zero")
	}
	if len(p.Currency) != 3 {
		return Payment{}, apperr.Validation("currency must be a 3-letter code")
	}
	if !p.Method.Valid() {
		return Payment{}, apperr.Validation("payment method %q is not supported", p.Method)
	}
	return p, nil
}

func (p Payment) succeed(now time.Time) Payment {
	p.Status = PaymentSucceeded
	p.UpdatedAt = now
	return p
}

// Refund sólo desde SUCCEEDED: un segundo reembolso falla con validación.
func (p Payment) Refund(reason string, now time.Time) (Payment, error) {
	if p.Status != PaymentSucceeded {
		return Payment{}, apperr.Validation("only succeeded payments can be refunded (status %s)", p.Status)
	}
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) > 500 {
		return Payment{}, apperr.Validation("refund reason must be at most 500 characters")
	}
	p.Status = PaymentRefunded
	p.RefundReason = reason
	p.RefundedAt = &now
	p.UpdatedAt = now
	return p, nil
}
