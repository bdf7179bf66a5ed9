package memory

import (
	"context"
	"sync"

	"animal-shelter/internal/domain/adoptions"
)

// Tx implementa adoptions.Tx sobre los repos en memoria: un lock global
// serializa la aprobación con cascada, y un snapshot de ambos repos se
// restaura si fn falla — la adopción y la cascada se confirman juntas o
// ninguna queda aplicada.
type Tx struct {
	mu           sync.Mutex
	animals      *AnimalsRepo
	applications *ApplicationsRepo
}

func NewTx(animals *AnimalsRepo, applications *ApplicationsRepo) *Tx {
	return &Tx{
		animals:      animals,
		applications: applications,
	}
}

func (t *Tx) RunInTx(ctx context.Context, fn func(s adoptions.TxStores) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	animalsSnap := t.animals.snapshot()
	appsSnap := t.applications.snapshot()

	err := fn(adoptions.TxStores{
		Applications: t.applications,
		Animals:      t.animals,
	})
	if err != nil {
		t.animals.restore(animalsSnap)
		t.applications.restore(appsSnap)
		return err
	}
	return nil
}
