package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByClient(ctx context.Context, clientID string) ([]Pet, error)
	Delete(ctx context.Context, id string) error
}

// ClientLookup evita importar clients desde pets.
type ClientLookup interface {
	Exists(ctx context.Context, clientID string) (bool, error)
}
