package pets

import (
	"strings"
	"time"
	"unicode/utf8"

	"vet-clinic/internal/platform/apperr"
)

// Species define las especies que atiende la clínica.
// @Enum dog, cat, bird, rabbit, reptile, other
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesBird    Species = "bird"
	SpeciesRabbit  Species = "rabbit"
	SpeciesReptile Species = "reptile"
	SpeciesOther   Species = "other"
)

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesReptile, SpeciesOther:
		return true
	}
	return false
}

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale || s == SexUnknown
}

// Vaccination va embebida en el documento de la mascota.
type Vaccination struct {
	Name           string
	AdministeredAt time.Time
	NextDueAt      *time.Time
	Veterinarian   string
}

// HistoryEntry es una nota libre del historial (no reemplaza a medical records).
type HistoryEntry struct {
	RecordedAt   time.Time
	Description  string
	Veterinarian string
}

// Pet pertenece a un cliente; sólo guarda ClientID, nunca el cliente.
type Pet struct {
	ID       string
	ClientID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	BirthDate *time.Time
	Microchip string
	WeightKg  float64

	Vaccinations   []Vaccination
	MedicalHistory []HistoryEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Input struct {
	ClientID  string
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	Microchip string
	WeightKg  float64
}

// BirthDatePatch distingue "no enviado" de "enviado como null".
type BirthDatePatch struct {
	Present bool
	Value   *time.Time
}

type Patch struct {
	Name      *string
	Species   *string
	Breed     *string
	Sex       *string
	BirthDate BirthDatePatch
	Microchip *string
	WeightKg  *float64
}

func New(id string, in Input, now time.Time) (Pet, error) {
	sex := Sex(strings.ToLower(strings.TrimSpace(in.Sex)))
	if sex == "" {
		sex = SexUnknown
	}
	p := Pet{
		ID:        strings.TrimSpace(id),
		ClientID:  strings.TrimSpace(in.ClientID),
		Name:      strings.TrimSpace(in.Name),
		Species:   Species(strings.ToLower(strings.TrimSpace(in.Species))),
		Breed:     strings.TrimSpace(in.Breed),
		Sex:       sex,
		BirthDate: in.BirthDate,
		Microchip: strings.TrimSpace(in.Microchip),
		WeightKg:  in.WeightKg,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.ID == "" {
		return Pet{}, apperr.Validation("pet id is required")
	}
	if err := p.validate(now); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (p Pet) WithPatch(in Patch, now time.Time) (Pet, error) {
	next := p.clone()
	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		next.Species = Species(strings.ToLower(strings.TrimSpace(*in.Species)))
	}
	if in.Breed != nil {
		next.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		next.Sex = Sex(strings.ToLower(strings.TrimSpace(*in.Sex)))
	}
	if in.BirthDate.Present {
		next.BirthDate = in.BirthDate.Value
	}
	if in.Microchip != nil {
		next.Microchip = strings.TrimSpace(*in.Microchip)
	}
	if in.WeightKg != nil {
		next.WeightKg = *in.WeightKg
	}
	if err := next.validate(now); err != nil {
		return Pet{}, err
	}
	next.UpdatedAt = now
	return next, nil
}

func (p Pet) WithVaccination(v Vaccination, now time.Time) (Pet, error) {
	v.Name = strings.TrimSpace(v.Name)
	v.Veterinarian = strings.TrimSpace(v.Veterinarian)
	if v.Name == "" {
		return Pet{}, apperr.Validation("vaccination name is required")
	}
	if v.AdministeredAt.IsZero() {
		return Pet{}, apperr.Validation("vaccination date is required")
	}
	if v.AdministeredAt.After(now) {
		return Pet{}, apperr.Validation("vaccination date cannot be in the future")
	}
	if v.NextDueAt != nil && !v.NextDueAt.After(v.AdministeredAt) {
		return Pet{}, apperr.Validation("next due date must be after the vaccination date")
	}
	next := p.clone()
	next.Vaccinations = append(next.Vaccinations, v)
	next.UpdatedAt = now
	return next, nil
}

func (p Pet) WithHistoryEntry(h HistoryEntry, now time.Time) (Pet, error) {
	h.Description = strings.TrimSpace(h.Description)
	h.Veterinarian = strings.TrimSpace(h.Veterinarian)
	if h.Description == "" {
		return Pet{}, apperr.Validation("history description is required")
	}
	if utf8.RuneCountInString(h.Description) > 1000 {
		return Pet{}, apperr.Validation("history description must be at most 1000 characters")
	}
	if h.RecordedAt.IsZero() {
		h.RecordedAt = now
	}
	next := p.clone()
	next.MedicalHistory = append(next.MedicalHistory, h)
	next.UpdatedAt = now
	return next, nil
}

// clone copia los slices para que los "update" no compartan backing array.
func (p Pet) clone() Pet {
	out := p
	out.Vaccinations = append([]Vaccination(nil), p.Vaccinations...)
	out.MedicalHistory = append([]HistoryEntry(nil), p.MedicalHistory...)
	return out
}

func (p Pet) validate(now time.Time) error {
	if p.ClientID == "" {
		return apperr.Validation("client id is required")
	}
	if n := utf8.RuneCountInString(p.Name); n < 1 || n > 50 {
		return apperr.Validation("name must be between 1 and 50 characters")
	}
	if !p.Species.Valid() {
		return apperr.Validation("species %q is not supported", p.Species)
	}
	if !p.Sex.Valid() {
		return apperr.Validation("sex %q is not valid", p.Sex)
	}
	if p.WeightKg < 0 {
		return apperr.Validation("weight cannot be negative")
	}
	if p.BirthDate != nil && p.BirthDate.After(now) {
		return apperr.Validation("birth date cannot be in the future")
	}
	return nil
}
