package adoptions

import "context"

type Repository interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	Update(ctx context.Context, app Application) error

	// Delete es solo para el flujo administrativo; el flujo normal nunca
	// borra solicitudes.
	Delete(ctx context.Context, id string) error

	// ListByAnimal devuelve todas las solicitudes del animal, por
	// SubmittedAt asc.
	ListByAnimal(ctx context.Context, animalID string) ([]Application, error)

	// ListByUser devuelve las solicitudes del usuario, más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]Application, error)

	// FindByUserAndAnimal es el lookup explícito de una fila que reemplaza
	// el patrón filtrar-e-indexar; ErrNotFound si no existe.
	FindByUserAndAnimal(ctx context.Context, userID, animalID string) (Application, error)

	CountPending(ctx context.Context, animalID string) (int, error)
}
