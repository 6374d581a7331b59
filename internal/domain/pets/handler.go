package pets

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		// ?clientId= obligatorio: las mascotas se listan por dueño
		pr.Get("/", listPetsHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))

		pr.Post("/{petID}/vaccinations", addVaccinationHandler(svc))
		pr.Post("/{petID}/history", addHistoryHandler(svc))
	})
}

type createPetRequest struct {
	ClientID  string  `json:"clientId" validate:"required"`
	Name      string  `json:"name" validate:"required,max=50"`
	Species   string  `json:"species" validate:"required"`
	Breed     string  `json:"breed"`
	Sex       string  `json:"sex"`
	BirthDate string  `json:"birthDate"` // YYYY-MM-DD opcional
	Microchip string  `json:"microchip"`
	WeightKg  float64 `json:"weightKg" validate:"gte=0"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string  `json:"name"`
	Species   *string  `json:"species"`
	Breed     *string  `json:"breed"`
	Sex       *string  `json:"sex"`
	Microchip *string  `json:"microchip"`
	WeightKg  *float64 `json:"weightKg"`
}

type addVaccinationRequest struct {
	Name           string `json:"name" validate:"required"`
	AdministeredAt string `json:"administeredAt" validate:"required"` // YYYY-MM-DD
	NextDueAt      string `json:"nextDueAt"`
	Veterinarian   string `json:"veterinarian"`
}

type addHistoryRequest struct {
	Description  string `json:"description" validate:"required,max=1000"`
	RecordedAt   string `json:"recordedAt"` // RFC3339 opcional
	Veterinarian string `json:"veterinarian"`
}

type vaccinationResponse struct {
	Name           string     `json:"name"`
	AdministeredAt time.Time  `json:"administeredAt"`
	NextDueAt      *time.Time `json:"nextDueAt,omitempty"`
	Veterinarian   string     `json:"veterinarian,omitempty"`
}

type historyResponse struct {
	RecordedAt   time.Time `json:"recordedAt"`
	Description  string    `json:"description"`
	Veterinarian string    `json:"veterinarian,omitempty"`
}

type petResponse struct {
	ID             string                `json:"id"`
	ClientID       string                `json:"clientId"`
	Name           string                `json:"name"`
	Species        Species               `json:"species"`
	Breed          string                `json:"breed,omitempty"`
	Sex            Sex                   `json:"sex"`
	BirthDate      *time.Time            `json:"birthDate,omitempty"`
	Microchip      string                `json:"microchip,omitempty"`
	WeightKg       float64               `json:"weightKg"`
	Vaccinations   []vaccinationResponse `json:"vaccinations"`
	MedicalHistory []historyResponse     `json:"medicalHistory"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Crea una mascota para un cliente existente.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota; birthDate en formato YYYY-MM-DD"
// @Success 201 {object} petResponse
// @Failure 400 {object} map[string]any "validación"
// @Failure 404 {object} map[string]any "cliente inexistente"
// @Router /api/pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}

		bd, err := parseOptionalDate(req.BirthDate, "birthDate")
		if err != nil {
			httpjson.Fail(w, err)
			return
		}

		p, err := svc.Create(r.Context(), Input{
			ClientID:  req.ClientID,
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Microchip: req.Microchip,
			WeightKg:  req.WeightKg,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas de un cliente
// @Tags pets
// @Produce json
// @Param clientId query string true "ID del cliente"
// @Success 200 {array} petResponse
// @Failure 404 {object} map[string]any "cliente inexistente"
// @Router /api/pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByClient(r.Context(), r.URL.Query().Get("clientId"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		httpjson.OK(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler acepta "birthDate": null para limpiar la fecha.
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		// Decodificamos a map primero para detectar presencia de birthDate.
		var raw map[string]json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			httpjson.Fail(w, apperr.Validation("invalid json"))
			return
		}

		bd := BirthDatePatch{}
		if v, exists := raw["birthDate"]; exists {
			bd.Present = true
			delete(raw, "birthDate")
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					httpjson.Fail(w, apperr.Validation("birthDate must be YYYY-MM-DD or null"))
					return
				}
				t, err := parseOptionalDate(s, "birthDate")
				if err != nil {
					httpjson.Fail(w, err)
					return
				}
				bd.Value = t
			}
		}

		var req updatePetRequest
		b, _ := json.Marshal(raw)
		strict := json.NewDecoder(strings.NewReader(string(b)))
		strict.DisallowUnknownFields()
		if err := strict.Decode(&req); err != nil {
			httpjson.Fail(w, apperr.Validation("invalid json: %v", err))
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "petID"), Patch{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Microchip: req.Microchip,
			WeightKg:  req.WeightKg,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toPetResponse(updated))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "petID")
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, map[string]string{"id": id})
	}
}

// addVaccinationHandler godoc
// @Summary Registrar vacuna
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body addVaccinationRequest true "Vacuna; fechas YYYY-MM-DD"
// @Success 201 {object} petResponse
// @Router /api/pets/{petID}/vaccinations [post]
func addVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addVaccinationRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}
		at, err := parseOptionalDate(req.AdministeredAt, "administeredAt")
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		next, err := parseOptionalDate(req.NextDueAt, "nextDueAt")
		if err != nil {
			httpjson.Fail(w, err)
			return
		}

		p, err := svc.AddVaccination(r.Context(), chi.URLParam(r, "petID"), Vaccination{
			Name:           req.Name,
			AdministeredAt: *at,
			NextDueAt:      next,
			Veterinarian:   req.Veterinarian,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toPetResponse(p))
	}
}

func addHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addHistoryRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}

		var at time.Time
		if strings.TrimSpace(req.RecordedAt) != "" {
			t, err := time.Parse(time.RFC3339, req.RecordedAt)
			if err != nil {
				httpjson.Fail(w, apperr.Validation("recordedAt must be RFC3339"))
				return
			}
			at = t
		}

		p, err := svc.AddHistoryEntry(r.Context(), chi.URLParam(r, "petID"), HistoryEntry{
			RecordedAt:   at,
			Description:  req.Description,
			Veterinarian: req.Veterinarian,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toPetResponse(p))
	}
}

func parseOptionalDate(s, field string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, apperr.Validation("%s must be YYYY-MM-DD", field)
	}
	return &t, nil
}

func toPetResponse(p Pet) petResponse {
	vacs := make([]vaccinationResponse, 0, len(p.Vaccinations))
	for _, v := range p.Vaccinations {
		vacs = append(vacs, vaccinationResponse{
			Name:           v.Name,
			AdministeredAt: v.AdministeredAt,
			NextDueAt:      v.NextDueAt,
			Veterinarian:   v.Veterinarian,
		})
	}
	hist := make([]historyResponse, 0, len(p.MedicalHistory))
	for _, h := range p.MedicalHistory {
		hist = append(hist, historyResponse{
			RecordedAt:   h.RecordedAt,
			Description:  h.Description,
			Veterinarian: h.Veterinarian,
		})
	}
	return petResponse{
		ID:             p.ID,
		ClientID:       p.ClientID,
		Name:           p.Name,
		Species:        p.Species,
		Breed:          p.Breed,
		Sex:            p.Sex,
		BirthDate:      p.BirthDate,
		Microchip:      p.Microchip,
		WeightKg:       p.WeightKg,
		Vaccinations:   vacs,
		MedicalHistory: hist,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
