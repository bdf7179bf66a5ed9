package animals

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)

	// ListAvailable devuelve solo animales sin AdoptedAt, ordenados por
	// ArrivedAt asc, aplicando las cotas de q. Sin matches => slice vacío.
	ListAvailable(ctx context.Context, q ListQuery) ([]Animal, error)

	// MarkAdopted estampa AdoptedAt solo si el animal sigue sin adoptar
	// (escritura condicional: dos aprobaciones en carrera no pueden
	// adoptar dos veces; la segunda recibe ErrNotFound).
	MarkAdopted(ctx context.Context, id string, at time.Time) error
}
