package postgres

import (
	"context"
	"database/sql"

	"animal-shelter/internal/domain/adoptions"
)

// Tx implementa adoptions.Tx con una transacción real: la adopción del
// animal y la cascada de rechazos se confirman o revierten juntas.
type Tx struct {
	db *sql.DB
}

func NewTx(db *sql.DB) *Tx {
	return &Tx{db: db}
}

func (t *Tx) RunInTx(ctx context.Context, fn func(s adoptions.TxStores) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stores := adoptions.TxStores{
		Applications: &ApplicationsRepo{q: tx},
		Animals:      &AnimalsRepo{q: tx},
	}

	if err := fn(stores); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
