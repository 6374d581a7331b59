package patients

import (
	"net/http"
	"strings"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/patients", func(pr chi.Router) {
		pr.Post("/", createPatientHandler(svc))
		pr.Get("/", listPatientsHandler(svc))
		pr.Get("/{patientID}", getPatientHandler(svc))
		pr.Patch("/{patientID}", updatePatientHandler(svc))
		pr.Delete("/{patientID}", deletePatientHandler(svc))
	})
	r.Get("/api/owners/{ownerID}", getOwnerHandler(svc))
}

type createPatientRequest struct {
	OwnerID   string   `json:"ownerId" validate:"required"`
	Name      string   `json:"name" validate:"required,max=50"`
	Species   string   `json:"species" validate:"required"`
	Breed     string   `json:"breed"`
	BirthDate string   `json:"birthDate"` // YYYY-MM-DD opcional
	Allergies []string `json:"allergies"`
}

type updatePatientRequest struct {
	Name      *string   `json:"name" validate:"omitempty,max=50"`
	Species   *string   `json:"species"`
	Breed     *string   `json:"breed"`
	Allergies *[]string `json:"allergies"`
	Status    *string   `json:"status" validate:"omitempty,oneof=active inactive deceased"`
}

type patientResponse struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"ownerId"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Allergies []string   `json:"allergies"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type ownerResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	ReplicatedAt time.Time `json:"replicatedAt"`
}

// createPatientHandler godoc
// @Summary Registrar paciente
// @Description El dueño debe existir en la réplica local (client.created ya procesado).
// @Tags patients
// @Accept json
// @Produce json
// @Param payload body createPatientRequest true "Paciente"
// @Success 201 {object} patientResponse
// @Failure 404 {object} map[string]any "dueño no replicado"
// @Router /api/patients [post]
func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPatientRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}

		var bd *time.Time
		if s := strings.TrimSpace(req.BirthDate); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				httpjson.Fail(w, apperr.Validation("birthDate must be YYYY-MM-DD"))
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), Input{
			OwnerID:   req.OwnerID,
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
			Allergies: req.Allergies,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toPatientResponse(p))
	}
}

func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), r.URL.Query().Get("ownerId"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}
		httpjson.OK(w, http.StatusOK, out)
	}
}

func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toPatientResponse(p))
	}
}

func updatePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePatientRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}
		p, err := svc.Update(r.Context(), chi.URLParam(r, "patientID"), Patch{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Allergies: req.Allergies,
			Status:    req.Status,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toPatientResponse(p))
	}
}

func deletePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "patientID")
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, map[string]string{"id": id})
	}
}

// getOwnerHandler godoc
// @Summary Consultar réplica de dueño
// @Tags patients
// @Produce json
// @Param ownerID path string true "ID del cliente"
// @Success 200 {object} ownerResponse
// @Failure 404 {object} map[string]any "no replicado"
// @Router /api/owners/{ownerID} [get]
func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.GetOwner(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, ownerResponse{
			ID:           o.ID,
			FullName:     o.FullName,
			Email:        o.Email,
			Phone:        o.Phone,
			ReplicatedAt: o.ReplicatedAt,
		})
	}
}

func toPatientResponse(p Patient) patientResponse {
	allergies := p.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	return patientResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: p.BirthDate,
		Allergies: allergies,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
