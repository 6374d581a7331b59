package medicalrecords

import (
	"net/http"
	"strings"
	"time"

	"vet-clinic/internal/middleware"
	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/medical-records", func(mr chi.Router) {
		mr.Post("/", createRecordHandler(svc))
		// ?patientId= obligatorio
		mr.Get("/", listRecordsHandler(svc))

		mr.Get("/{recordId}", getRecordHandler(svc))
		mr.Patch("/{recordId}", updateRecordHandler(svc))
		mr.Delete("/{recordId}", deleteRecordHandler(svc))

		mr.Post("/{recordId}/diagnoses", addDiagnosisHandler(svc))
		mr.Post("/{recordId}/treatments", addTreatmentHandler(svc))
		mr.Post("/{recordId}/prescriptions", addPrescriptionHandler(svc))
		mr.Post("/{recordId}/close", closeRecordHandler(svc))
	})
}

type createRecordRequest struct {
	PatientID      string `json:"patientId" validate:"required"`
	// VeterinarianID vacío => el usuario autenticado.
	VeterinarianID string `json:"veterinarianId"`
	VisitDate      string `json:"visitDate"` // RFC3339 opcional
	Reason         string `json:"reason" validate:"required,min=3,max=500"`
	Notes          string `json:"notes" validate:"max=2000"`
}

type updateRecordRequest struct {
	VeterinarianID *string `json:"veterinarianId"`
	VisitDate      *string `json:"visitDate"`
	Reason         *string `json:"reason" validate:"omitempty,min=3,max=500"`
	Notes          *string `json:"notes" validate:"omitempty,max=2000"`
}

type addDiagnosisRequest struct {
	Code        string `json:"code" validate:"required,max=20"`
	Description string `json:"description" validate:"required,min=3,max=1000"`
	Severity    string `json:"severity" validate:"omitempty,oneof=mild moderate severe critical"`
	DiagnosedAt string `json:"diagnosedAt"`
	Notes       string `json:"notes"`
}

type addTreatmentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description"`
	CostCents   int64  `json:"costCents" validate:"gte=0"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Status      string `json:"status" validate:"omitempty,oneof=planned in_progress completed cancelled"`
}

type addPrescriptionRequest struct {
	Medication   string `json:"medication" validate:"required,min=2,max=100"`
	Dosage       string `json:"dosage" validate:"required"`
	Frequency    string `json:"frequency" validate:"required"`
	DurationDays int    `json:"durationDays" validate:"gt=0"`
	Refills      int    `json:"refills" validate:"gte=0"`
	PrescribedAt string `json:"prescribedAt"`
	Instructions string `json:"instructions"`
}

type diagnosisResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	DiagnosedAt time.Time `json:"diagnosedAt"`
	Notes       string    `json:"notes,omitempty"`
}

type treatmentResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CostCents   int64           `json:"costCents"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	Status      TreatmentStatus `json:"status"`
}

type prescriptionResponse struct {
	ID           string    `json:"id"`
	Medication   string    `json:"medication"`
	Dosage       string    `json:"dosage"`
	Frequency    string    `json:"frequency"`
	DurationDays int       `json:"durationDays"`
	Refills      int       `json:"refills"`
	PrescribedAt time.Time `json:"prescribedAt"`
	Instructions string    `json:"instructions,omitempty"`
}

type recordResponse struct {
	ID             string                 `json:"id"`
	PatientID      string                 `json:"patientId"`
	VeterinarianID string                 `json:"veterinarianId"`
	VisitDate      time.Time              `json:"visitDate"`
	Reason         string                 `json:"reason"`
	Notes          string                 `json:"notes,omitempty"`
	Status         Status                 `json:"status"`
	Diagnoses      []diagnosisResponse    `json:"diagnoses"`
	Treatments     []treatmentResponse    `json:"treatments"`
	Prescriptions  []prescriptionResponse `json:"prescriptions"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// createRecordHandler godoc
// @Summary Abrir registro médico
// @Tags medical-records
// @Accept json
// @Produce json
// @Param payload body createRecordRequest true "Registro"
// @Success 201 {object} recordResponse
// @Failure 400 {object} map[string]any "validación"
// @Failure 404 {object} map[string]any "paciente inexistente"
// @Router /api/medical-records [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRecordRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}
		visit, err := parseTime(req.VisitDate, "visitDate")
		if err != nil {
			httpjson.Fail(w, err)
			return
		}

		vetID := strings.TrimSpace(req.VeterinarianID)
		if vetID == "" {
			vetID = middleware.UserID(r.Context())
		}

		rec, err := svc.Create(r.Context(), Input{
			PatientID:      req.PatientID,
			VeterinarianID: vetID,
			VisitDate:      visit,
			Reason:         req.Reason,
			Notes:          req.Notes,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toRecordResponse(rec))
	}
}

func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByPatient(r.Context(), r.URL.Query().Get("patientId"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		httpjson.OK(w, http.StatusOK, out)
	}
}

// getRecordHandler godoc
// @Summary Obtener registro médico con diagnósticos, tratamientos y recetas
// @Tags medical-records
// @Produce json
// @Param recordId path string true "ID del registro"
// @Success 200 {object} recordResponse
// @Failure 404 {object} map[string]any "no encontrado"
// @Router /api/medical-records/{recordId} [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.GetByID(r.Context(), chi.URLParam(r, "recordId"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toRecordResponse(rec))
	}
}

func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRecordRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}

		var visit *time.Time
		if req.VisitDate != nil {
			t, err := parseTime(*req.VisitDate, "visitDate")
			if err != nil {
				httpjson.Fail(w, err)
				return
			}
			if t.IsZero() {
				httpjson.Fail(w, apperr.Validation("visitDate cannot be empty"))
				return
			}
			visit = &t
		}

		rec, err := svc.Update(r.Context(), chi.URLParam(r, "recordId"), Patch{
			VeterinarianID: req.VeterinarianID,
			VisitDate:      visit,
			Reason:         req.Reason,
			Notes:          req.Notes,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toRecordResponse(rec))
	}
}

func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "recordId")
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, map[string]string{"id": id})
	}
}

// addDiagnosisHandler godoc
// @Summary Agregar diagnóstico
// @Tags medical-records
// @Accept json
// @Produce json
// @Param recordId path string true "ID del registro"
// @Param payload body addDiagnosisRequest true "Diagnóstico"
// @Success 201 {object} recordResponse
// @Failure 400 {object} map[string]any "validación o registro cerrado"
// @Router /api/medical-records/{recordId}/diagnoses [post]
func addDiagnosisHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addDiagnosisRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}
		at, err := parseTime(req.DiagnosedAt, "diagnosedAt")
		if err != nil {
			httpjson.Fail(w, err)
			return
		}

		rec, err := svc.AddDiagnosis(r.Context(), chi.URLParam(r, "recordId"), DiagnosisInput{
			Code:        req.Code,
			Description: req.Description,
			Severity:    req.Severity,
			DiagnosedAt: at,
			Notes:       req.Notes,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toRecordResponse(rec))
	}
}

func addTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addTreatmentRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}
		start, err := parseTime(req.StartDate, "startDate")
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		end, err := parseTime(req.EndDate, "endDate")
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		var endPtr *time.Time
		if !end.IsZero() {
			endPtr = &end
		}

		rec, err := svc.AddTreatment(r.Context(), chi.URLParam(r, "recordId"), TreatmentInput{
			Name:        req.Name,
			Description: req.Description,
			CostCents:   req.CostCents,
			StartDate:   start,
			EndDate:     endPtr,
			Status:      req.Status,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toRecordResponse(rec))
	}
}

func addPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addPrescriptionRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}
		at, err := parseTime(req.PrescribedAt, "prescribedAt")
		if err != nil {
			httpjson.Fail(w, err)
			return
		}

		rec, err := svc.AddPrescription(r.Context(), chi.URLParam(r, "recordId"), PrescriptionInput{
			Medication:   req.Medication,
			Dosage:       req.Dosage,
			Frequency:    req.Frequency,
			DurationDays: req.DurationDays,
			Refills:      req.Refills,
			PrescribedAt: at,
			Instructions: req.Instructions,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toRecordResponse(rec))
	}
}

func closeRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Close(r.Context(), chi.URLParam(r, "recordId"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toRecordResponse(rec))
	}
}

// parseTime acepta RFC3339 o YYYY-MM-DD. Vacío devuelve el zero value.
func parseTime(s, field string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.Validation("%s must be RFC3339 or YYYY-MM-DD", field)
	}
	return t, nil
}

func toRecordResponse(rec MedicalRecord) recordResponse {
	out := recordResponse{
		ID:             rec.ID,
		PatientID:      rec.PatientID,
		VeterinarianID: rec.VeterinarianID,
		VisitDate:      rec.VisitDate,
		Reason:         rec.Reason,
		Notes:          rec.Notes,
		Status:         rec.Status,
		Diagnoses:      make([]diagnosisResponse, 0, len(rec.Diagnoses)),
		Treatments:     make([]treatmentResponse, 0, len(rec.Treatments)),
		Prescriptions:  make([]prescriptionResponse, 0, len(rec.Prescriptions)),
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
	for _, d := range rec.Diagnoses {
		out.Diagnoses = append(out.Diagnoses, diagnosisResponse{
			ID: d.ID, Code: d.Code, Description: d.Description,
			Severity: d.Severity, DiagnosedAt: d.DiagnosedAt, Notes: d.Notes,
		})
	}
	for _, t := range rec.Treatments {
		out.Treatments = append(out.Treatments, treatmentResponse{
			ID: t.ID, Name: t.Name, Description: t.Description, CostCents: t.CostCents,
			StartDate: t.StartDate, EndDate: t.EndDate, Status: t.Status,
		})
	}
	for _, p := range rec.Prescriptions {
		out.Prescriptions = append(out.Prescriptions, prescriptionResponse{
			ID: p.ID, Medication: p.Medication, Dosage: p.Dosage, Frequency: p.Frequency,
			DurationDays: p.DurationDays, Refills: p.Refills, PrescribedAt: p.PrescribedAt,
			Instructions: p.Instructions,
		})
	}
	return out
}
