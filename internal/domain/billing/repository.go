package billing

import "context"

type InvoiceRepository interface {
	Create(ctx context.Context, inv Invoice) error
	Update(ctx context.Context, inv Invoice) error
	GetByID(ctx context.Context, id string) (Invoice, error)
	ListByClient(ctx context.Context, clientID string) ([]Invoice, error)
	Delete(ctx context.Context, id string) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p Payment) error
	Update(ctx context.Context, p Payment) error
	GetByID(ctx context.Context, id string) (Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]Payment, error)
}
