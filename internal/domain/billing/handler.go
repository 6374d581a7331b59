package billing

import (
	"net/http"
	"strings"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/invoices", func(ir chi.Router) {
		ir.Post("/", createInvoiceHandler(svc))
		ir.Get("/", listInvoicesHandler(svc)) // ?clientId=
		ir.Get("/{invoiceID}", getInvoiceHandler(svc))
		ir.Delete("/{invoiceID}", deleteInvoiceHandler(svc))
		ir.Post("/{invoiceID}/items", addItemHandler(svc))
		ir.Post("/{invoiceID}/issue", issueInvoiceHandler(svc))
		ir.Post("/{invoiceID}/cancel", cancelInvoiceHandler(svc))
	})

	r.Route("/api/payments", func(pr chi.Router) {
		pr.Post("/", payHandler(svc))
		pr.Get("/", listPaymentsHandler(svc)) // ?invoiceId=
		pr.Get("/{paymentID}", getPaymentHandler(svc))
		pr.Post("/{paymentID}/refund", refundHandler(svc))
	})
}

type createInvoiceRequest struct {
	ClientID   string `json:"clientId" validate:"required"`
	TaxRateBps int    `json:"taxRateBps" validate:"gte=0,lte=10000"`
	DueDate    string `json:"dueDate"` // YYYY-MM-DD opcional
}

type addItemRequest struct {
	Description    string `json:"description" validate:"required,min=2,max=200"`
	Quantity       int    `json:"quantity" validate:"gt=0"`
	UnitPriceCents int64  `json:"unitPriceCents" validate:"gte=0"`
}

type payRequest struct {
	InvoiceID   string `json:"invoiceId" validate:"required"`
	AmountCents int64  `json:"amountCents" validate:"gt=0"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
	Method      string `json:"method" validate:"required,oneof=cash card transfer"`
}

type refundRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type lineItemResponse struct {
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

type invoiceResponse struct {
	ID               string             `json:"id"`
	ClientID         string             `json:"clientId"`
	Number           string             `json:"number"`
	Items            []lineItemResponse `json:"items"`
	SubtotalCents    int64              `json:"subtotalCents"`
	TaxRateBps       int                `json:"taxRateBps"`
	TaxCents         int64              `json:"taxCents"`
	TotalCents       int64              `json:"totalCents"`
	PaidCents        int64              `json:"paidCents"`
	OutstandingCents int64              `json:"outstandingCents"`
	Status           InvoiceStatus      `json:"status"`
	DueDate          *time.Time         `json:"dueDate,omitempty"`
	IssuedAt         *time.Time         `json:"issuedAt,omitempty"`
	PaidAt           *time.Time         `json:"paidAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

type paymentResponse struct {
	ID           string        `json:"id"`
	InvoiceID    string        `json:"invoiceId"`
	ClientID     string        `json:"clientId"`
	AmountCents  int64         `json:"amountCents"`
	Currency     string        `json:"currency"`
	Method       Method        `json:"method"`
	Status       PaymentStatus `json:"status"`
	RefundReason string        `json:"refundReason,omitempty"`
	RefundedAt   *time.Time    `json:"refundedAt,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// createInvoiceHandler godoc
// @Summary Crear factura (borrador)
// @Tags billing
// @Accept json
// @Produce json
// @Param payload body createInvoiceRequest true "Factura"
// @Success 201 {object} invoiceResponse
// @Router /api/invoices [post]
func createInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createInvoiceRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}

		var due *time.Time
		if s := strings.TrimSpace(req.DueDate); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				httpjson.Fail(w, apperr.Validation("dueDate must be YYYY-MM-DD"))
				return
			}
			// vence al final del día
			t = t.Add(24*time.Hour - time.Second)
			due = &t
		}

		inv, err := svc.CreateInvoice(r.Context(), InvoiceInput{
			ClientID:   req.ClientID,
			TaxRateBps: req.TaxRateBps,
			DueDate:    due,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toInvoiceResponse(inv))
	}
}

func listInvoicesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListInvoicesByClient(r.Context(), r.URL.Query().Get("clientId"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		out := make([]invoiceResponse, 0, len(items))
		for _, inv := range items {
			out = append(out, toInvoiceResponse(inv))
		}
		httpjson.OK(w, http.StatusOK, out)
	}
}

func getInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.GetInvoice(r.Context(), chi.URLParam(r, "invoiceID"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func deleteInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "invoiceID")
		if err := svc.DeleteInvoice(r.Context(), id); err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, map[string]string{"id": id})
	}
}

// addItemHandler godoc
// @Summary Agregar ítem a una factura en borrador
// @Tags billing
// @Accept json
// @Produce json
// @Param invoiceID path string true "ID de la factura"
// @Param payload body addItemRequest true "Ítem"
// @Success 201 {object} invoiceResponse
// @Failure 400 {object} map[string]any "factura no editable"
// @Router /api/invoices/{invoiceID}/items [post]
func addItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addItemRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}
		inv, err := svc.AddItem(r.Context(), chi.URLParam(r, "invoiceID"), LineItem{
			Description:    req.Description,
			Quantity:       req.Quantity,
			UnitPriceCents: req.UnitPriceCents,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toInvoiceResponse(inv))
	}
}

func issueInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.IssueInvoice(r.Context(), chi.URLParam(r, "invoiceID"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func cancelInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.CancelInvoice(r.Context(), chi.URLParam(r, "invoiceID"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

// payHandler godoc
// @Summary Registrar pago
// @Description Sólo facturas emitidas; el monto no puede superar el saldo.
// @Tags billing
// @Accept json
// @Produce json
// @Param payload body payRequest true "Pago"
// @Success 201 {object} paymentResponse
// @Router /api/payments [post]
func payHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req payRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}
		p, err := svc.Pay(r.Context(), PaymentInput{
			InvoiceID:   req.InvoiceID,
			AmountCents: req.AmountCents,
			Currency:    req.Currency,
			Method:      req.Method,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toPaymentResponse(p))
	}
}

func listPaymentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPaymentsByInvoice(r.Context(), r.URL.Query().Get("invoiceId"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		out := make([]paymentResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPaymentResponse(p))
		}
		httpjson.OK(w, http.StatusOK, out)
	}
}

func getPaymentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetPayment(r.Context(), chi.URLParam(r, "paymentID"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toPaymentResponse(p))
	}
}

// refundHandler godoc
// @Summary Reembolsar pago
// @Description Sólo pagos SUCCEEDED. Un segundo reembolso devuelve 400.
// @Tags billing
// @Accept json
// @Produce json
// @Param paymentID path string true "ID del pago"
// @Param payload body refundRequest false "Motivo"
// @Success 200 {object} paymentResponse
// @Router /api/payments/{paymentID}/refund [post]
func refundHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refundRequest
		if r.ContentLength != 0 {
			if err := httpjson.Decode(r, &req); err != nil {
				httpjson.Fail(w, err)
				return
			}
		}
		p, err := svc.Refund(r.Context(), chi.URLParam(r, "paymentID"), req.Reason)
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toPaymentResponse(p))
	}
}

func toInvoiceResponse(inv Invoice) invoiceResponse {
	items := make([]lineItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, lineItemResponse{
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			TotalCents:     it.TotalCents,
		})
	}
	return invoiceResponse{
		ID:               inv.ID,
		ClientID:         inv.ClientID,
		Number:           inv.Number,
		Items:            items,
		SubtotalCents:    inv.SubtotalCents,
		TaxRateBps:       inv.TaxRateBps,
		TaxCents:         inv.TaxCents,
		TotalCents:       inv.TotalCents,
		PaidCents:        inv.PaidCents,
		OutstandingCents: inv.OutstandingCents(),
		Status:           inv.Status,
		DueDate:          inv.DueDate,
		IssuedAt:         inv.IssuedAt,
		PaidAt:           inv.PaidAt,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
}

func toPaymentResponse(p Payment) paymentResponse {
	return paymentResponse{
		ID:           p.ID,
		InvoiceID:    p.InvoiceID,
		ClientID:     p.ClientID,
		AmountCents:  p.AmountCents,
		Currency:     p.Currency,
		Method:       p.Method,
		Status:       p.Status,
		RefundReason: p.RefundReason,
		RefundedAt:   p.RefundedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
