package awards

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"vet-clinic/internal/platform/apperr"
	"vet-clinic/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/awards", func(ar chi.Router) {
		ar.Post("/", createAwardHandler(svc))
		ar.Get("/", listAwardsHandler(svc))
		ar.Get("/{awardID}", getAwardHandler(svc))
		ar.Post("/{awardID}/revoke", revokeAwardHandler(svc))
		ar.Delete("/{awardID}", deleteAwardHandler(svc))
	})
}

type createAwardRequest struct {
	PetID       string `json:"petId" validate:"required"`
	Title       string `json:"title" validate:"required,min=2,max=100"`
	Category    string `json:"category" validate:"omitempty,oneof=competition training health behavior other"`
	Description string `json:"description" validate:"max=500"`
	IssuedBy    string `json:"issuedBy"`
	AwardedAt   string `json:"awardedAt"` // RFC3339 opcional; default ahora
}

type revokeAwardRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type awardResponse struct {
	ID           string     `json:"id"`
	PetID        string     `json:"petId"`
	Title        string     `json:"title"`
	Category     Category   `json:"category"`
	Description  string     `json:"description,omitempty"`
	IssuedBy     string     `json:"issuedBy,omitempty"`
	AwardedAt    time.Time  `json:"awardedAt"`
	IsValid      bool       `json:"isValid"`
	RevokedAt    *time.Time `json:"revokedAt,omitempty"`
	RevokeReason string     `json:"revokeReason,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// createAwardHandler godoc
// @Summary Otorgar premio
// @Tags awards
// @Accept json
// @Produce json
// @Param payload body createAwardRequest true "Premio"
// @Success 201 {object} awardResponse
// @Failure 400 {object} map[string]any "validación"
// @Failure 404 {object} map[string]any "mascota inexistente"
// @Router /api/awards [post]
func createAwardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAwardRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Fail(w, err)
			return
		}

		var awardedAt time.Time
		if s := strings.TrimSpace(req.AwardedAt); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				httpjson.Fail(w, apperr.Validation("awardedAt must be RFC3339"))
				return
			}
			awardedAt = t
		}

		a, err := svc.Create(r.Context(), Input{
			PetID:       req.PetID,
			Title:       req.Title,
			Category:    req.Category,
			Description: req.Description,
			IssuedBy:    req.IssuedBy,
			AwardedAt:   awardedAt,
		})
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusCreated, toAwardResponse(a))
	}
}

// listAwardsHandler godoc
// @Summary Listar premios de una mascota
// @Tags awards
// @Produce json
// @Param petId query string true "ID de la mascota"
// @Param active query bool false "sólo premios vigentes"
// @Success 200 {array} awardResponse
// @Router /api/awards [get]
func listAwardsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		petID := q.Get("petId")

		active := false
		if raw := q.Get("active"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				httpjson.Fail(w, apperr.Validation("active must be a boolean"))
				return
			}
			active = v
		}

		var (
			items []Award
			err   error
		)
		if active {
			items, err = svc.ListActiveByPet(r.Context(), petID)
		} else {
			items, err = svc.ListByPet(r.Context(), petID)
		}
		if err != nil {
			httpjson.Fail(w, err)
			return
		}

		out := make([]awardResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAwardResponse(a))
		}
		httpjson.OK(w, http.StatusOK, out)
	}
}

func getAwardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "awardID"))
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toAwardResponse(a))
	}
}

// revokeAwardHandler godoc
// @Summary Revocar premio
// @Description Marca el premio como no vigente. Revocar dos veces devuelve 400.
// @Tags awards
// @Accept json
// @Produce json
// @Param awardID path string true "ID del premio"
// @Param payload body revokeAwardRequest false "Motivo"
// @Success 200 {object} awardResponse
// @Router /api/awards/{awardID}/revoke [post]
func revokeAwardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req revokeAwardRequest
		// body opcional
		if r.ContentLength != 0 {
			if err := httpjson.Decode(r, &req); err != nil {
				httpjson.Fail(w, err)
				return
			}
		}

		a, err := svc.Revoke(r.Context(), chi.URLParam(r, "awardID"), req.Reason)
		if err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, toAwardResponse(a))
	}
}

func deleteAwardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "awardID")
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.Fail(w, err)
			return
		}
		httpjson.OK(w, http.StatusOK, map[string]string{"id": id})
	}
}

func toAwardResponse(a Award) awardResponse {
	return awardResponse{
		ID:           a.ID,
		PetID:        a.PetID,
		Title:        a.Title,
		Category:     a.Category,
		Description:  a.Description,
		IssuedBy:     a.IssuedBy,
		AwardedAt:    a.AwardedAt,
		IsValid:      a.IsValid,
		RevokedAt:    a.RevokedAt,
		RevokeReason: a.RevokeReason,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
