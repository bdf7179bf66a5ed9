package adoptions

import (
	"context"
	"time"

	"animal-shelter/internal/domain/animals"
)

// AnimalStore es la vista del registro de animales que necesita este módulo.
// animals.Repository la satisface.
type AnimalStore interface {
	GetByID(ctx context.Context, id string) (animals.Animal, error)
	ListAvailable(ctx context.Context, q animals.ListQuery) ([]animals.Animal, error)
	MarkAdopted(ctx context.Context, id string, at time.Time) error
}

// TxStores agrupa los stores visibles dentro de una transacción.
type TxStores struct {
	Applications Repository
	Animals      AnimalStore
}

// Tx delimita la frontera transaccional de la aprobación con cascada:
// la adopción del animal y el rechazo de las solicitudes hermanas se
// confirman juntos o se revierten juntos. Implementaciones: una
// transacción de base de datos, o en memoria un lock con snapshot.
type Tx interface {
	RunInTx(ctx context.Context, fn func(s TxStores) error) error
}
