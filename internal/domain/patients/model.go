package patients

import (
	"strings"
	"time"
	"unicode/utf8"

	"vet-clinic/internal/platform/apperr"
)

// Status del paciente.
// @Enum active, inactive, deceased
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeceased Status = "deceased"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive || s == StatusDeceased
}

type Patient struct {
	ID      string
	OwnerID string

	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time
	Allergies []string
	Status    Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner es la réplica local del cliente. Sólo la escriben los handlers de eventos client.*.
type Owner struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	ReplicatedAt time.Time
}

type Input struct {
	OwnerID   string
	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time
	Allergies []string
}

type Patch struct {
	Name      *string
	Species   *string
	Breed     *string
	Allergies *[]string
	Status    *string
}

func New(id string, in Input, now time.Time) (Patient, error) {
	p := Patient{
		ID:        strings.TrimSpace(id),
		OwnerID:   strings.TrimSpace(in.OwnerID),
		Name:      strings.TrimSpace(in.Name),
		Species:   strings.ToLower(strings.TrimSpace(in.Species)),
		Breed:     strings.TrimSpace(in.Breed),
		BirthDate: in.BirthDate,
		Allergies: normalizeAllergies(in.Allergies),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.ID == "" {
		return Patient{}, apperr.Validation("patient id is required")
	}
	if err := p.validate(now); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (p Patient) WithPatch(in Patch, now time.Time) (Patient, error) {
	next := p
	next.Allergies = append([]string(nil), p.Allergies...)
	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		next.Species = strings.ToLower(strings.TrimSpace(*in.Species))
	}
	if in.Breed != nil {
		next.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Allergies != nil {
		next.Allergies = normalizeAllergies(*in.Allergies)
	}
	if in.Status != nil {
		next.Status = Status(strings.ToLower(strings.TrimSpace(*in.Status)))
	}
	if err := next.validate(now); err != nil {
		return Patient{}, err
	}
	next.UpdatedAt = now
	return next, nil
}

func (p Patient) validate(now time.Time) error {
	if p.OwnerID == "" {
		return apperr.Validation("owner id is required")
	}
	if n := utf8.RuneCountInString(p.Name); n < 1 || n > 50 {
		return apperr.Validation("name must be between 1 and 50 characters")
	}
	if p.Species == "" {
		return apperr.Validation("species is required")
	}
	if !p.Status.Valid() {
		return apperr.Validation("status %q is not valid", p.Status)
	}
	if p.BirthDate != nil && p.BirthDate.After(now) {
		return apperr.Validation("birth date cannot be in the future")
	}
	return nil
}

// normalizeAllergies recorta, descarta vacíos y deduplica sin importar mayúsculas.
func normalizeAllergies(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, a := range in {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}
