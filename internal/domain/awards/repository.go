package awards

import "context"

type Repository interface {
	Create(ctx context.Context, a Award) error
	Update(ctx context.Context, a Award) error
	GetByID(ctx context.Context, id string) (Award, error)
	// ListByPet devuelve los premios de la mascota, más recientes primero.
	// Con onlyValid=true excluye los revocados.
	ListByPet(ctx context.Context, petID string, onlyValid bool) ([]Award, error)
	Delete(ctx context.Context, id string) error
}

// PetLookup lo implementa pets.Service.
type PetLookup interface {
	Exists(ctx context.Context, petID string) (bool, error)
}
