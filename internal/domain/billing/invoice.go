package billing

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"vet-clinic/internal/platform/apperr"
)

// InvoiceStatus
// @Enum draft, issued, paid, cancelled
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceIssued    InvoiceStatus = "issued"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// LineItem va embebido en la factura. Montos en centavos.
type LineItem struct {
	Description    string
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
}

type Invoice struct {
	ID       string
	ClientID string
	Number   string

	Items []LineItem

	SubtotalCents int64
	TaxRateBps    int // 2100 = 21%
	TaxCents      int64
	TotalCents    int64
	PaidCents     int64

	Status   InvoiceStatus
	DueDate  *time.Time
	IssuedAt *time.Time
	PaidAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type InvoiceInput struct {
	ClientID   string
	TaxRateBps int
	DueDate    *time.Time
}

func NewInvoice(id string, in InvoiceInput, now time.Time) (Invoice, error) {
	inv := Invoice{
		ID:         strings.TrimSpace(id),
		ClientID:   strings.TrimSpace(in.ClientID),
		TaxRateBps: in.TaxRateBps,
		Status:     InvoiceDraft,
		DueDate:    in.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if inv.ID == "" {
		return Invoice{}, apperr.Validation("invoice id is required")
	}
	if inv.ClientID == "" {
		return Invoice{}, apperr.Validation("client id is required")
	}
	if inv.TaxRateBps < 0 || inv.TaxRateBps > 10000 {
		return Invoice{}, apperr.Validation("tax rate must be between 0 and 10000 basis points")
	}
	if inv.DueDate != nil && inv.DueDate.Before(now) {
		return Invoice{}, apperr.Validation("due date cannot be in the past")
	}
	inv.Number = invoiceNumber(inv.ID, now)
	return inv, nil
}

// invoiceNumber es legible y estable: fecha + prefijo del id.
func invoiceNumber(id string, now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("20060102"), short)
}

func (inv Invoice) OutstandingCents() int64 {
	return inv.TotalCents - inv.PaidCents
}

func (inv Invoice) WithItem(it LineItem, now time.Time) (Invoice, error) {
	if inv.Status != InvoiceDraft {
		return Invoice{}, apperr.Validation("items can only be added to draft invoices")
	}
	it.Description = strings.TrimSpace(it.Description)
	if n := utf8.RuneCountInString(it.Description); n < 2 || n > 200 {
		return Invoice{}, apperr.Validation("item description must be between 2 and 200 characters")
	}
	if it.Quantity <= 0 {
		return Invoice{}, apperr.Validation("item quantity must be greater than zero")
	}
	if it.UnitPriceCents < 0 {
		return Invoice{}, apperr.Validation("item unit price cannot be negative")
	}
	it.TotalCents = int64(it.Quantity) * it.UnitPriceCents

	next := inv.clone()
	next.Items = append(next.Items, it)
	next.recompute()
	next.UpdatedAt = now
	return next, nil
}

func (inv Invoice) Issue(now time.Time) (Invoice, error) {
	if inv.Status != InvoiceDraft {
		return Invoice{}, apperr.Validation("only draft invoices can be issued (status %s)", inv.Status)
	}
	if len(inv.Items) == 0 {
		return Invoice{}, apperr.Validation("an invoice needs at least one item to be issued")
	}
	next := inv.clone()
	next.Status = InvoiceIssued
	next.IssuedAt = &now
	next.UpdatedAt = now
	return next, nil
}

func (inv Invoice) Cancel(now time.Time) (Invoice, error) {
	switch inv.Status {
	case InvoicePaid:
		return Invoice{}, apperr.Validation("paid invoices cannot be cancelled")
	case InvoiceCancelled:
		return Invoice{}, apperr.Validation("invoice %s is already cancelled", inv.ID)
	}
	if inv.PaidCents > 0 {
		return Invoice{}, apperr.Validation("invoice has payments; refund them first")
	}
	next := inv.clone()
	next.Status = InvoiceCancelled
	next.UpdatedAt = now
	return next, nil
}

// applyPayment suma el pago; la factura queda paid cuando no queda saldo.
func (inv Invoice) applyPayment(amount int64, now time.Time) (Invoice, error) {
	if inv.Status != InvoiceIssued {
		return Invoice{}, apperr.Validation("only issued invoices accept payments (status %s)", inv.Status)
	}
	if amount <= 0 {
		return Invoice{}, apperr.Validation("payment amount must be greater than zero")
	}
	if amount > inv.OutstandingCents() {
		return Invoice{}, apperr.Validation("payment amount %d exceeds outstanding balance %d", amount, inv.OutstandingCents())
	}
	next := inv.clone()
	next.PaidCents += amount
	if next.OutstandingCents() == 0 {
		next.Status = InvoicePaid
		next.PaidAt = &now
	}
	next.UpdatedAt = now
	return next, nil
}

// revertPayment descuenta un reembolso. Una factura paid vuelve a issued.
func (inv Invoice) revertPayment(amount int64, now time.Time) Invoice {
	next := inv.clone()
	next.PaidCents -= amount
	if next.PaidCents < 0 {
		next.PaidCents = 0
	}
	if next.Status == InvoicePaid && next.OutstandingCents() > 0 {
		next.Status = InvoiceIssued
		next.PaidAt = nil
	}
	next.UpdatedAt = now
	return next
}

func (inv *Invoice) recompute() {
	var subtotal int64
	for _, it := range inv.Items {
		subtotal += it.TotalCents
	}
	inv.SubtotalCents = subtotal
	// redondeo half-up en centavos
	inv.TaxCents = (subtotal*int64(inv.TaxRateBps) + 5000) / 10000
	inv.TotalCents = inv.SubtotalCents + inv.TaxCents
}

func (inv Invoice) clone() Invoice {
	out := inv
	out.Items = append([]LineItem(nil), inv.Items...)
	return out
}
