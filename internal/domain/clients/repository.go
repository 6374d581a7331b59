package clients

import "context"

// Repository devuelve errores de apperr: NotFound si no existe, Duplicate si el email ya está tomado.
type Repository interface {
	Create(ctx context.Context, c Client) error
	Update(ctx context.Context, c Client) error
	GetByID(ctx context.Context, id string) (Client, error)
	List(ctx context.Context, filter ListFilter) ([]Client, error)
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	// Query busca en nombre/apellido/email (case-insensitive).
	Query  string
	Limit  int
	Offset int
}
