package awards

import (
	"strings"
	"time"
	"unicode/utf8"

	"vet-clinic/internal/platform/apperr"
)

// Category clasifica el premio.
// @Enum competition, training, health, behavior, other
type Category string

const (
	CategoryCompetition Category = "competition"
	CategoryTraining    Category = "training"
	CategoryHealth      Category = "health"
	CategoryBehavior    Category = "behavior"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCompetition, CategoryTraining, CategoryHealth, CategoryBehavior, CategoryOther:
		return true
	}
	return false
}

type Award struct {
	ID    string
	PetID string

	Title       string
	Category    Category
	Description string
	IssuedBy    string
	AwardedAt   time.Time

	// IsValid pasa a false al revocar; nunca vuelve a true.
	IsValid      bool
	RevokedAt    *time.Time
	RevokeReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Input struct {
	PetID       string
	Title       string
	Category    string
	Description string
	IssuedBy    string
	AwardedAt   time.Time
}

func New(id string, in Input, now time.Time) (Award, error) {
	a := Award{
		ID:          strings.TrimSpace(id),
		PetID:       strings.TrimSpace(in.PetID),
		Title:       strings.TrimSpace(in.Title),
		Category:    Category(strings.ToLower(strings.TrimSpace(in.Category))),
		Description: strings.TrimSpace(in.Description),
		IssuedBy:    strings.TrimSpace(in.IssuedBy),
		AwardedAt:   in.AwardedAt,
		IsValid:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if a.Category == "" {
		a.Category = CategoryOther
	}
	if a.AwardedAt.IsZero() {
		a.AwardedAt = now
	}

	if a.ID == "" {
		return Award{}, apperr.Validation("award id is required")
	}
	if a.PetID == "" {
		return Award{}, apperr.Validation("pet id is required")
	}
	if n := utf8.RuneCountInString(a.Title); n < 2 || n > 100 {
		return Award{}, apperr.Validation("title must be between 2 and 100 characters")
	}
	if !a.Category.Valid() {
		return Award{}, apperr.Validation("category %q is not supported", a.Category)
	}
	if utf8.RuneCountInString(a.Description) > 500 {
		return Award{}, apperr.Validation("description must be at most 500 characters")
	}
	if a.AwardedAt.After(now) {
		return Award{}, apperr.Validation("awarded date cannot be in the future")
	}
	return a, nil
}

// Revoke devuelve una copia revocada. Revocar dos veces es un error de validación.
func (a Award) Revoke(reason string, now time.Time) (Award, error) {
	if !a.IsValid {
		return Award{}, apperr.Validation("award %s is already revoked", a.ID)
	}
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) > 500 {
		return Award{}, apperr.Validation("revoke reason must be at most 500 characters")
	}
	next := a
	next.IsValid = false
	next.RevokedAt = &now
	next.RevokeReason = reason
	next.UpdatedAt = now
	return next, nil
}
