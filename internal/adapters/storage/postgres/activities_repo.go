package postgres

import (
	"context"
	"database/sql"
	"time"

	"animal-shelter/internal/domain/volunteering"
)

type ActivitiesRepo struct {
	q querier
}

func NewActivitiesRepo(db *sql.DB) *ActivitiesRepo {
	return &ActivitiesRepo{q: db}
}

const activityColumns = `
	id, title, description, date, start_time, end_time,
	max_attendance, type, cancelled, staff_id
`

func (r *ActivitiesRepo) Create(ctx context.Context, a volunteering.Activity) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO activities (
			id, title, description, date, start_time, end_time,
			max_attendance, type, cancelled, staff_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.Title,
		a.Description,
		a.Date,
		a.StartTime,
		a.EndTime,
		a.MaxAttendance,
		string(a.Type),
		a.Cancelled,
		a.StaffID,
	)
	return err
}

func (r *ActivitiesRepo) GetByID(ctx context.Context, id string) (volunteering.Activity, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = $1
	`, id)

	a, err := scanActivity(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return volunteering.Activity{}, volunteering.ErrNotFound
		}
		return volunteering.Activity{}, err
	}
	return a, nil
}

func (r *ActivitiesRepo) Update(ctx context.Context, a volunteering.Activity) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE activities
		SET title = $2,
			description = $3,
			date = $4,
			start_time = $5,
			end_time = $6,
			max_attendance = $7,
			type = $8,
			cancelled = $9
		WHERE id = $1
	`,
		a.ID,
		a.Title,
		a.Description,
		a.Date,
		a.StartTime,
		a.EndTime,
		a.MaxAttendance,
		string(a.Type),
		a.Cancelled,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return volunteering.ErrNotFound
	}
	return nil
}

func (r *ActivitiesRepo) ListUpcoming(ctx context.Context, from time.Time) ([]volunteering.Activity, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE date >= $1
		ORDER BY date ASC, start_time ASC
	`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]volunteering.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ActivitiesRepo) AddSignup(ctx context.Context, s volunteering.Signup) error {
	// ON CONFLICT DO NOTHING: la unicidad del par la garantiza la PK,
	// re-anotarse queda en exactamente una fila
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO activity_volunteers (activity_id, volunteer_id)
		VALUES ($1, $2)
		ON CONFLICT (activity_id, volunteer_id) DO NOTHING
	`, s.ActivityID, s.VolunteerID)
	return err
}

func (r *ActivitiesRepo) RemoveSignup(ctx context.Context, activityID, volunteerID string) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM activity_volunteers
		WHERE activity_id = $1 AND volunteer_id = $2
	`, activityID, volunteerID)
	return err
}

func (r *ActivitiesRepo) HasSignup(ctx context.Context, activityID, volunteerID string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM activity_volunteers
			WHERE activity_id = $1 AND volunteer_id = $2
		)
	`, activityID, volunteerID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ActivitiesRepo) CountSignups(ctx context.Context, activityID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM activity_volunteers WHERE activity_id = $1
	`, activityID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func scanActivity(scan func(dest ...any) error) (volunteering.Activity, error) {
	var a volunteering.Activity
	var typ string

	if err := scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.Date,
		&a.StartTime,
		&a.EndTime,
		&a.MaxAttendance,
		&typ,
		&a.Cancelled,
		&a.StaffID,
	); err != nil {
		return volunteering.Activity{}, err
	}

	a.Type = volunteering.ActivityType(typ)
	return a, nil
}
