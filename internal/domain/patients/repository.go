package patients

import "context"

type Repository interface {
	Create(ctx context.Context, p Patient) error
	Update(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)
	// List con ownerID vacío devuelve todos.
	List(ctx context.Context, ownerID string) ([]Patient, error)
	Delete(ctx context.Context, id string) error
}

// OwnerRepository guarda la réplica de clientes. Upsert por id: el último evento gana.
type OwnerRepository interface {
	Upsert(ctx context.Context, o Owner) error
	GetByID(ctx context.Context, id string) (Owner, error)
	Delete(ctx context.Context, id string) error
}
