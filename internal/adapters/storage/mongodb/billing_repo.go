package mongodb

import (
	"context"
	"time"

	"vet-clinic/internal/domain/billing"
	"vet-clinic/internal/platform/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type lineItemDoc struct {
	Description    string `bson:"description"`
	Quantity       int    `bson:"quantity"`
	UnitPriceCents int64  `bson:"unitPriceCents"`
	TotalCents     int64  `bson:"totalCents"`
}

type invoiceDoc struct {
	ID            string        `bson:"_id"`
	ClientID      string        `bson:"clientId"`
	Number        string        `bson:"number"`
	Items         []lineItemDoc `bson:"items"`
	SubtotalCents int64         `bson:"subtotalCents"`
	TaxRateBps    int           `bson:"taxRateBps"`
	TaxCents      int64         `bson:"taxCents"`
	TotalCents    int64         `bson:"totalCents"`
	PaidCents     int64         `bson:"paidCents"`
	Status        string        `bson:"status"`
	DueDate       *time.Time    `bson:"dueDate,omitempty"`
	IssuedAt      *time.Time    `bson:"issuedAt,omitempty"`
	PaidAt        *time.Time    `bson:"paidAt,omitempty"`
	CreatedAt     time.Time     `bson:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt"`
}

func toInvoiceDoc(inv billing.Invoice) invoiceDoc {
	d := invoiceDoc{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		Number:        inv.Number,
		Items:         make([]lineItemDoc, 0, len(inv.Items)),
		SubtotalCents: inv.SubtotalCents,
		TaxRateBps:    inv.TaxRateBps,
		TaxCents:      inv.TaxCents,
		TotalCents:    inv.TotalCents,
		PaidCents:     inv.PaidCents,
		Status:        string(inv.Status),
		DueDate:       inv.DueDate,
		IssuedAt:      inv.IssuedAt,
		PaidAt:        inv.PaidAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		d.Items = append(d.Items, lineItemDoc(it))
	}
	return d
}

func (d invoiceDoc) toDomain() billing.Invoice {
	inv := billing.Invoice{
		ID:            d.ID,
		ClientID:      d.ClientID,
		Number:        d.Number,
		SubtotalCents: d.SubtotalCents,
		TaxRateBps:    d.TaxRateBps,
		TaxCents:      d.TaxCents,
		TotalCents:    d.TotalCents,
		PaidCents:     d.PaidCents,
		Status:        billing.InvoiceStatus(d.Status),
		DueDate:       d.DueDate,
		IssuedAt:      d.IssuedAt,
		PaidAt:        d.PaidAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, it := range d.Items {
		inv.Items = append(inv.Items, billing.LineItem(it))
	}
	return inv
}

type InvoicesRepo struct {
	col *mongo.Collection
}

func NewInvoicesRepo(db *mongo.Database) *InvoicesRepo {
	return &InvoicesRepo{col: db.Collection(colInvoices)}
}

var _ billing.InvoiceRepository = (*InvoicesRepo)(nil)

func (r *InvoicesRepo) Create(ctx context.Context, inv billing.Invoice) error {
	_, err := r.col.InsertOne(ctx, toInvoiceDoc(inv))
	return mapErr(err, "invoice", inv.ID)
}

func (r *InvoicesRepo) Update(ctx context.Context, inv billing.Invoice) error {
	res, err := r.col.ReplaceOne(ctx, byID(inv.ID), toInvoiceDoc(inv))
	if err != nil {
		return mapErr(err, "invoice", inv.ID)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("invoice", inv.ID)
	}
	return nil
}

func (r *InvoicesRepo) GetByID(ctx context.Context, id string) (billing.Invoice, error) {
	var d invoiceDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return billing.Invoice{}, mapErr(err, "invoice", id)
	}
	return d.toDomain(), nil
}

func (r *InvoicesRepo) ListByClient(ctx context.Context, clientID string) ([]billing.Invoice, error) {
	cur, err := r.col.Find(ctx, bson.M{"clientId": clientID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, mapErr(err, "invoice", "")
	}
	var docs []invoiceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr(err, "invoice", "")
	}
	out := make([]billing.Invoice, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *InvoicesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return mapErr(err, "invoice", id)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("invoice", id)
	}
	return nil
}

type paymentDoc struct {
	ID           string     `bson:"_id"`
	InvoiceID    string     `bson:"invoiceId"`
	ClientID     string     `bson:"clientId"`
	AmountCents  int64      `bson:"amountCents"`
	Currency     string     `bson:"currency"`
	Method       string     `bson:"method"`
	Status       string     `bson:"status"`
	RefundReason string     `bson:"refundReason,omitempty"`
	RefundedAt   *time.Time `bson:"refundedAt,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

func toPaymentDoc(p billing.Payment) paymentDoc {
	return paymentDoc{
		ID:           p.ID,
		InvoiceID:    p.InvoiceID,
		ClientID:     p.ClientID,
		AmountCents:  p.AmountCents,
		Currency:     p.Currency,
		Method:       string(p.Method),
		Status:       string(p.Status),
		RefundReason: p.RefundReason,
		RefundedAt:   p.RefundedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (d paymentDoc) toDomain() billing.Payment {
	return billing.Payment{
		ID:           d.ID,
		InvoiceID:    d.InvoiceID,
		ClientID:     d.ClientID,
		AmountCents:  d.AmountCents,
		Currency:     d.Currency,
		Method:       billing.Method(d.Method),
		Status:       billing.PaymentStatus(d.Status),
		RefundReason: d.RefundReason,
		RefundedAt:   d.RefundedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type PaymentsRepo struct {
	col *mongo.Collection
}

func NewPaymentsRepo(db *mongo.Database) *PaymentsRepo {
	return &PaymentsRepo{col: db.Collection(colPayments)}
}

var _ billing.PaymentRepository = (*PaymentsRepo)(nil)

func (r *PaymentsRepo) Create(ctx context.Context, p billing.Payment) error {
	_, err := r.col.InsertOne(ctx, toPaymentDoc(p))
	return mapErr(err, "payment", p.ID)
}

func (r *PaymentsRepo) Update(ctx context.Context, p billing.Payment) error {
	res, err := r.col.ReplaceOne(ctx, byID(p.ID), toPaymentDoc(p))
	if err != nil {
		return mapErr(err, "payment", p.ID)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("payment", p.ID)
	}
	return nil
}

func (r *PaymentsRepo) GetByID(ctx context.Context, id string) (billing.Payment, error) {
	var d paymentDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return billing.Payment{}, mapErr(err, "payment", id)
	}
	return d.toDomain(), nil
}

func (r *PaymentsRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]billing.Payment, error) {
	cur, err := r.col.Find(ctx, bson.M{"invoiceId": invoiceID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, mapErr(err, "payment", "")
	}
	var docs []paymentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr(err, "payment", "")
	}
	out := make([]billing.Payment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
