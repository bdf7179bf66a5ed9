package postgres

import (
	"context"
	"database/sql"

	"animal-shelter/internal/domain/adoptions"
)

type ApplicationsRepo struct {
	q querier
}

func NewApplicationsRepo(db *sql.DB) *ApplicationsRepo {
	return &ApplicationsRepo{q: db}
}

const applicationColumns = `
	id, animal_id, user_id, staff_id,
	text, reason, status, submitted_at
`

func (r *ApplicationsRepo) Create(ctx context.Context, app adoptions.Application) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO applications (
			id, animal_id, user_id, staff_id,
			text, reason, status, submitted_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		app.ID,
		app.AnimalID,
		app.UserID,
		app.StaffID,
		app.Text,
		app.Reason,
		string(app.Status),
		app.SubmittedAt,
	)
	return err
}

func (r *ApplicationsRepo) GetByID(ctx context.Context, id string) (adoptions.Application, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE id = $1
	`, id)

	app, err := scanApplication(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return adoptions.Application{}, adoptions.ErrNotFound
		}
		return adoptions.Application{}, err
	}
	return app, nil
}

func (r *ApplicationsRepo) Update(ctx context.Context, app adoptions.Application) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE applications
		SET staff_id = $2,
			reason = $3,
			status = $4
		WHERE id = $1
	`,
		app.ID,
		app.StaffID,
		app.Reason,
		string(app.Status),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return adoptions.ErrNotFound
	}
	return nil
}

func (r *ApplicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return adoptions.ErrNotFound
	}
	return nil
}

func (r *ApplicationsRepo) ListByAnimal(ctx context.Context, animalID string) ([]adoptions.Application, error) {
	return r.list(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE animal_id = $1
		ORDER BY submitted_at ASC
	`, animalID)
}

func (r *ApplicationsRepo) ListByUser(ctx context.Context, userID string) ([]adoptions.Application, error) {
	return r.list(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE user_id = $1
		ORDER BY submitted_at DESC
	`, userID)
}

func (r *ApplicationsRepo) FindByUserAndAnimal(ctx context.Context, userID, animalID string) (adoptions.Application, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE user_id = $1 AND animal_id = $2
		LIMIT 1
	`, userID, animalID)

	app, err := scanApplication(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return adoptions.Application{}, adoptions.ErrNotFound
		}
		return adoptions.Application{}, err
	}
	return app, nil
}

func (r *ApplicationsRepo) CountPending(ctx context.Context, animalID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM applications
		WHERE animal_id = $1 AND status = $2
	`, animalID, string(adoptions.StatusPending)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ApplicationsRepo) list(ctx context.Context, query string, args ...any) ([]adoptions.Application, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adoptions.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func scanApplication(scan func(dest ...any) error) (adoptions.Application, error) {
	var app adoptions.Application
	var status string

	if err := scan(
		&app.ID,
		&app.AnimalID,
		&app.UserID,
		&app.StaffID,
		&app.Text,
		&app.Reason,
		&status,
		&app.SubmittedAt,
	); err != nil {
		return adoptions.Application{}, err
	}

	app.Status = adoptions.Status(status)
	return app, nil
}
