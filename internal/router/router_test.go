package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vet-clinic/internal/router"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestHTTP_EndToEnd_ClientToMedicalRecord(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// 1) Alta de cliente: el evento client.created crea la réplica del dueño
	clientID := createID(t, ts.URL, "/api/clients", map[string]any{
		"firstName": "Ana",
		"lastName":  "Gómez",
		"email":     "Ana@Example.com",
		"phone":     "+54 11 2222-3333",
	})

	{
		st, body := doReq(t, ts.URL, "GET", "/api/owners/"+clientID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 owner replica, got %d body=%s", st, string(body))
		}
		var owner struct {
			FullName string `json:"fullName"`
			Email    string `json:"email"`
		}
		decodeData(t, body, &owner)
		if owner.FullName != "Ana Gómez" || owner.Email != "ana@example.com" {
			t.Fatalf("unexpected owner %+v", owner)
		}
	}

	// 2) Email duplicado => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/clients", map[string]any{
			"firstName": "Otra",
			"lastName":  "Persona",
			"email":     "ana@example.com",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate email, got %d", st)
		}
	}

	// 3) Paciente del dueño replicado
	patientID := createID(t, ts.URL, "/api/patients", map[string]any{
		"ownerId":   clientID,
		"name":      "Milo",
		"species":   "dog",
		"allergies": []string{"Penicilina", "penicilina"},
	})

	// 4) Registro médico con dos diagnósticos y un tratamiento
	recordID := createID(t, ts.URL, "/api/medical-records", map[string]any{
		"patientId":      patientID,
		"veterinarianId": "vet-1",
		"reason":         "Control anual",
	})
	for _, code := range []string{"H60", "L30"} {
		st, body := doReq(t, ts.URL, "POST", "/api/medical-records/"+recordID+"/diagnoses", map[string]any{
			"code":        code,
			"description": "Hallazgo en control",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 add diagnosis, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/api/medical-records/"+recordID+"/treatments", map[string]any{
			"name":      "Limpieza ótica",
			"costCents": 1500,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 add treatment, got %d body=%s", st, string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/api/medical-records/"+recordID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get record, got %d body=%s", st, string(body))
		}
		var rec struct {
			Diagnoses []struct {
				ID   string `json:"id"`
				Code string `json:"code"`
			} `json:"diagnoses"`
			Treatments []struct {
				ID string `json:"id"`
			} `json:"treatments"`
		}
		decodeData(t, body, &rec)
		if len(rec.Diagnoses) != 2 || rec.Diagnoses[0].Code != "H60" || rec.Diagnoses[1].Code != "L30" {
			t.Fatalf("unexpected diagnoses %+v", rec.Diagnoses)
		}
		if rec.Diagnoses[0].ID == "" || len(rec.Treatments) != 1 {
			t.Fatalf("children must come back with ids: %+v", rec)
		}
	}

	// 5) Cerrado => no admite más hijos
	{
		st, body := doReq(t, ts.URL, "POST", "/api/medical-records/"+recordID+"/close", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 close, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "POST", "/api/medical-records/"+recordID+"/diagnoses", map[string]any{
			"code":        "Z00",
			"description": "Tarde",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 on closed record, got %d", st)
		}
	}

	// 6) Paciente de dueño inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/patients", map[string]any{
			"ownerId": "ghost",
			"name":    "Nadie",
			"species": "cat",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown owner, got %d", st)
		}
	}
}

func TestHTTP_Billing_PayAndRefund(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	clientID := createID(t, ts.URL, "/api/clients", map[string]any{
		"firstName": "Luis",
		"lastName":  "Pérez",
		"email":     "luis@example.com",
	})
	invoiceID := createID(t, ts.URL, "/api/invoices", map[string]any{
		"clientId":   clientID,
		"taxRateBps": 2100,
		"dueDate":    time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02"),
	})

	// sin ítems no se emite
	if st, _ := doReq(t, ts.URL, "POST", "/api/invoices/"+invoiceID+"/issue", nil); st != http.StatusBadRequest {
		t.Fatalf("expected 400 issuing empty invoice, got %d", st)
	}

	if st, body := doReq(t, ts.URL, "POST", "/api/invoices/"+invoiceID+"/items", map[string]any{
		"description":    "Consulta",
		"quantity":       2,
		"unitPriceCents": 1000,
	}); st != http.StatusCreated {
		t.Fatalf("expected 201 add item, got %d body=%s", st, string(body))
	}

	var inv struct {
		TotalCents int64  `json:"totalCents"`
		Status     string `json:"status"`
	}
	st, body := doReq(t, ts.URL, "POST", "/api/invoices/"+invoiceID+"/issue", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 issue, got %d body=%s", st, string(body))
	}
	decodeData(t, body, &inv)
	if inv.TotalCents != 2420 || inv.Status != "issued" {
		t.Fatalf("unexpected invoice %+v", inv)
	}

	// pago mayor al saldo => 400
	if st, _ := doReq(t, ts.URL, "POST", "/api/payments", map[string]any{
		"invoiceId":   invoiceID,
		"amountCents": 9999,
		"method":      "card",
	}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 overpayment, got %d", st)
	}

	paymentID := createID(t, ts.URL, "/api/payments", map[string]any{
		"invoiceId":   invoiceID,
		"amountCents": 2420,
		"method":      "card",
	})

	st, body = doReq(t, ts.URL, "GET", "/api/invoices/"+invoiceID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get invoice, got %d", st)
	}
	decodeData(t, body, &inv)
	if inv.Status != "paid" {
		t.Fatalf("expected paid invoice, got %s", inv.Status)
	}

	if st, body := doReq(t, ts.URL, "POST", "/api/payments/"+paymentID+"/refund", map[string]any{"reason": "duplicado"}); st != http.StatusOK {
		t.Fatalf("expected 200 refund, got %d body=%s", st, string(body))
	}
	if st, _ := doReq(t, ts.URL, "POST", "/api/payments/"+paymentID+"/refund", nil); st != http.StatusBadRequest {
		t.Fatalf("expected 400 on second refund, got %d", st)
	}

	_, body = doReq(t, ts.URL, "GET", "/api/invoices/"+invoiceID, nil)
	decodeData(t, body, &inv)
	if inv.Status != "issued" {
		t.Fatalf("refund must reopen the invoice, got %s", inv.Status)
	}
}

func TestHTTP_Awards_RevokedLeavesActiveList(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	clientID := createID(t, ts.URL, "/api/clients", map[string]any{
		"firstName": "Sol",
		"lastName":  "Ruiz",
		"email":     "sol@example.com",
	})
	petID := createID(t, ts.URL, "/api/pets", map[string]any{
		"clientId": clientID,
		"name":     "Kira",
		"species":  "cat",
	})
	awardID := createID(t, ts.URL, "/api/awards", map[string]any{
		"petId":    petID,
		"title":    "Mejor pelaje",
		"category": "competition",
	})

	if st, body := doReq(t, ts.URL, "POST", "/api/awards/"+awardID+"/revoke", map[string]any{"reason": "error"}); st != http.StatusOK {
		t.Fatalf("expected 200 revoke, got %d body=%s", st, string(body))
	}
	if st, _ := doReq(t, ts.URL, "POST", "/api/awards/"+awardID+"/revoke", nil); st != http.StatusBadRequest {
		t.Fatalf("expected 400 on second revoke, got %d", st)
	}

	var active, all []struct {
		ID string `json:"id"`
	}
	_, body := doReq(t, ts.URL, "GET", "/api/awards?petId="+petID+"&active=true", nil)
	decodeData(t, body, &active)
	_, body = doReq(t, ts.URL, "GET", "/api/awards?petId="+petID, nil)
	decodeData(t, body, &all)
	if len(active) != 0 || len(all) != 1 {
		t.Fatalf("expected 0 active / 1 total, got %d / %d", len(active), len(all))
	}

	// mascota de cliente inexistente => 404
	if st, _ := doReq(t, ts.URL, "POST", "/api/pets", map[string]any{
		"clientId": "ghost",
		"name":     "Nadie",
		"species":  "dog",
	}); st != http.StatusNotFound {
		t.Fatalf("expected 404 unknown client, got %d", st)
	}
}

func TestHTTP_MedicalRecord_DefaultsVeterinarianToCaller(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	clientID := createID(t, ts.URL, "/api/clients", map[string]any{
		"firstName": "Eva",
		"lastName":  "Díaz",
		"email":     "eva@example.com",
	})
	patientID := createID(t, ts.URL, "/api/patients", map[string]any{
		"ownerId": clientID,
		"name":    "Rocco",
		"species": "dog",
	})

	// sin usuario ni veterinarianId => 400
	if st, _ := doReq(t, ts.URL, "POST", "/api/medical-records", map[string]any{
		"patientId": patientID,
		"reason":    "Vacunación",
	}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 without veterinarian, got %d", st)
	}

	st, body := doReqAs(t, ts.URL, "POST", "/api/medical-records", "vet-7", map[string]any{
		"patientId": patientID,
		"reason":    "Vacunación",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}
	var rec struct {
		VeterinarianID string `json:"veterinarianId"`
	}
	decodeData(t, body, &rec)
	if rec.VeterinarianID != "vet-7" {
		t.Fatalf("expected veterinarian from caller, got %q", rec.VeterinarianID)
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if st, _ := doReq(t, ts.URL, "GET", "/health", nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
}

func createID(t *testing.T, baseURL, path string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	decodeData(t, body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func decodeData(t *testing.T, body []byte, dst any) {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, string(body))
	}
	if !env.Success {
		t.Fatalf("unexpected failure envelope: %s", env.Message)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()
	return doReqAs(t, baseURL, method, path, "", body)
}

func doReqAs(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
