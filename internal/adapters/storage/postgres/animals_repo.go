package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"animal-shelter/internal/domain/animals"
)

type AnimalsRepo struct {
	q querier
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{q: db}
}

const animalColumns = `
	id, name, species, breed, color, sex,
	birth_date, description, image_url,
	arrived_at, adopted_at, staff_id
`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO animals (
			id, name, species, breed, color, sex,
			birth_date, description, image_url,
			arrived_at, adopted_at, staff_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		a.ID,
		a.Name,
		string(a.Species),
		a.Breed,
		a.Color,
		string(a.Sex),
		a.BirthDate,
		a.Description,
		a.ImageURL,
		a.ArrivedAt,
		toNullTime(a.AdoptedAt),
		a.StaffID,
	)
	return err
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.q.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id = $1
	`, id)

	a, err := scanAnimal(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) ListAvailable(ctx context.Context, q animals.ListQuery) ([]animals.Animal, error) {
	where := []string{"adopted_at IS NULL"}
	args := make([]any, 0, 5)

	switch q.Species {
	case animals.FilterSpeciesNone:
	case animals.FilterSpeciesOther:
		where = append(where, "species NOT IN ('cat','dog')")
	default:
		args = append(args, string(q.Species))
		where = append(where, fmt.Sprintf("species = $%d", len(args)))
	}

	if q.BornSince != nil {
		args = append(args, *q.BornSince)
		where = append(where, fmt.Sprintf("birth_date >= $%d", len(args)))
	}
	if q.BornAfter != nil {
		args = append(args, *q.BornAfter)
		where = append(where, fmt.Sprintf("birth_date > $%d", len(args)))
	}
	if q.BornBefore != nil {
		args = append(args, *q.BornBefore)
		where = append(where, fmt.Sprintf("birth_date < $%d", len(args)))
	}
	if q.BornUntil != nil {
		args = append(args, *q.BornUntil)
		where = append(where, fmt.Sprintf("birth_date <= $%d", len(args)))
	}

	if q.NameContains != "" {
		// strpos es case-sensitive: mismo contains estricto que en memoria
		args = append(args, q.NameContains)
		where = append(where, fmt.Sprintf("strpos(name, $%d) > 0", len(args)))
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY arrived_at ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) MarkAdopted(ctx context.Context, id string, at time.Time) error {
	// escritura condicional: el WHERE deja afuera a un animal ya adoptado
	res, err := r.q.ExecContext(ctx, `
		UPDATE animals
		SET adopted_at = $2
		WHERE id = $1 AND adopted_at IS NULL
	`, id, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func scanAnimal(scan func(dest ...any) error) (animals.Animal, error) {
	var a animals.Animal
	var species, sex string
	var adopted sql.NullTime

	if err := scan(
		&a.ID,
		&a.Name,
		&species,
		&a.Breed,
		&a.Color,
		&sex,
		&a.BirthDate,
		&a.Description,
		&a.ImageURL,
		&a.ArrivedAt,
		&adopted,
		&a.StaffID,
	); err != nil {
		return animals.Animal{}, err
	}

	a.Species = animals.Species(species)
	a.Sex = animals.Sex(sex)
	if adopted.Valid {
		t := adopted.Time
		a.AdoptedAt = &t
	}
	return a, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
