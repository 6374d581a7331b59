package clients

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"vet-clinic/internal/platform/apperr"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9+\-() ]{7,20}$`)
)

// Client es el dueño de una o más mascotas. Es un valor: los cambios
// pasan por WithPatch, que devuelve una copia validada.
type Client struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Input struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// Patch: nil = no tocar.
type Patch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
}

func New(id string, in Input, now time.Time) (Client, error) {
	c := Client{
		ID:        strings.TrimSpace(id),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     normalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.ID == "" {
		return Client{}, apperr.Validation("client id is required")
	}
	if err := c.validate(); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (c Client) WithPatch(p Patch, now time.Time) (Client, error) {
	next := c
	if p.FirstName != nil {
		next.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		next.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		next.Email = normalizeEmail(*p.Email)
	}
	if p.Phone != nil {
		next.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		next.Address = strings.TrimSpace(*p.Address)
	}
	if err := next.validate(); err != nil {
		return Client{}, err
	}
	next.UpdatedAt = now
	return next, nil
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c Client) validate() error {
	if n := utf8.RuneCountInString(c.FirstName); n < 2 || n > 50 {
		return apperr.Validation("first name must be between 2 and 50 characters")
	}
	if n := utf8.RuneCountInString(c.LastName); n < 2 || n > 50 {
		return apperr.Validation("last name must be between 2 and 50 characters")
	}
	if !emailRe.MatchString(c.Email) {
		return apperr.Validation("email %q is not valid", c.Email)
	}
	if c.Phone != "" && !phoneRe.MatchString(c.Phone) {
		return apperr.Validation("phone %q is not valid", c.Phone)
	}
	if utf8.RuneCountInString(c.Address) > 200 {
		return apperr.Validation("address must be at most 200 characters")
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
