package volunteering

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Activity) error
	GetByID(ctx context.Context, id string) (Activity, error)
	Update(ctx context.Context, a Activity) error

	// ListUpcoming devuelve actividades con Date >= from, por fecha asc.
	// Las canceladas también (se muestran con su bandera; lo bloqueado es
	// el signup, no la visibilidad).
	ListUpcoming(ctx context.Context, from time.Time) ([]Activity, error)

	AddSignup(ctx context.Context, s Signup) error
	RemoveSignup(ctx context.Context, activityID, volunteerID string) error
	HasSignup(ctx context.Context, activityID, volunteerID string) (bool, error)
	CountSignups(ctx context.Context, activityID string) (int, error)
}
