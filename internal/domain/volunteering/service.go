package volunteering

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title         string
	Description   string
	Date          time.Time
	StartTime     string
	EndTime       string
	MaxAttendance int
	Type          ActivityType
}

// Create da de alta una actividad próxima (staff).
func (s *Service) Create(ctx context.Context, staffID string, in CreateInput) (Activity, error) {
	staffID = strings.TrimSpace(staffID)
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if staffID == "" {
		return Activity{}, ErrInvalidInput
	}
	if title == "" || len(title) > maxTitleLen {
		return Activity{}, ErrInvalidInput
	}
	if description == "" || len(description) > maxDescriptionLen {
		return Activity{}, ErrInvalidInput
	}
	if in.MaxAttendance <= 0 {
		return Activity{}, ErrInvalidInput
	}
	if in.Date.IsZero() || in.Date.Before(startOfDay(s.now())) {
		return Activity{}, ErrInvalidInput
	}

	start, err := time.Parse("15:04", strings.TrimSpace(in.StartTime))
	if err != nil {
		return Activity{}, ErrInvalidInput
	}
	end, err := time.Parse("15:04", strings.TrimSpace(in.EndTime))
	if err != nil {
		return Activity{}, ErrInvalidInput
	}
	if !end.After(start) {
		return Activity{}, ErrInvalidInput
	}

	typ := in.Type
	switch typ {
	case TypeCats, TypeDogs, TypeOther, TypeMulti, TypeGeneral:
	case "":
		typ = TypeGeneral
	default:
		return Activity{}, ErrInvalidInput
	}

	a := Activity{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   description,
		Date:          in.Date,
		StartTime:     start.Format("15:04"),
		EndTime:       end.Format("15:04"),
		MaxAttendance: in.MaxAttendance,
		Type:          typ,
		Cancelled:     false,
		StaffID:       staffID,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Activity{}, err
	}
	return a, nil
}

// ListUpcoming devuelve las actividades con fecha de hoy en adelante,
// canceladas incluidas (el cliente las marca con la bandera).
func (s *Service) ListUpcoming(ctx context.Context) ([]Activity, error) {
	return s.repo.ListUpcoming(ctx, startOfDay(s.now()))
}

// Detail es la vista de una actividad para un visitante puntual.
type Detail struct {
	Activity    Activity
	SignedUp    bool
	SignupCount int
}

// Get devuelve el detalle de una actividad vigente. Pasada o cancelada =>
// ErrNotFound (el detalle deja de ser accesible; la lista es otra cosa).
// volunteerID puede ser vacío (visitante anónimo).
func (s *Service) Get(ctx context.Context, activityID, volunteerID string) (Detail, error) {
	a, err := s.activeActivity(ctx, activityID)
	if err != nil {
		return Detail{}, err
	}

	count, err := s.repo.CountSignups(ctx, a.ID)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{Activity: a, SignupCount: count}

	volunteerID = strings.TrimSpace(volunteerID)
	if volunteerID != "" {
		signed, err := s.repo.HasSignup(ctx, a.ID, volunteerID)
		if err != nil {
			return Detail{}, err
		}
		d.SignedUp = signed
	}
	return d, nil
}

// SignUp anota al voluntario. Idempotente: si ya estaba anotado devuelve
// created=false sin error (queda exactamente una fila join).
func (s *Service) SignUp(ctx context.Context, activityID, volunteerID string) (created bool, err error) {
	volunteerID = strings.TrimSpace(volunteerID)
	if volunteerID == "" {
		return false, ErrInvalidInput
	}

	a, err := s.getActivity(ctx, activityID)
	if err != nil {
		return false, err
	}
	if a.Cancelled || a.Date.Before(startOfDay(s.now())) {
		return false, ErrBadState
	}

	signed, err := s.repo.HasSignup(ctx, a.ID, volunteerID)
	if err != nil {
		return false, err
	}
	if signed {
		return false, nil
	}

	if err := s.repo.AddSignup(ctx, Signup{ActivityID: a.ID, VolunteerID: volunteerID}); err != nil {
		return false, err
	}
	return true, nil
}

// Revoke borra la fila join. Si no estaba anotado devuelve removed=false
// sin error (no-op informativo).
func (s *Service) Revoke(ctx context.Context, activityID, volunteerID string) (removed bool, err error) {
	volunteerID = strings.TrimSpace(volunteerID)
	if volunteerID == "" {
		return false, ErrInvalidInput
	}

	a, err := s.getActivity(ctx, activityID)
	if err != nil {
		return false, err
	}

	signed, err := s.repo.HasSignup(ctx, a.ID, volunteerID)
	if err != nil {
		return false, err
	}
	if !signed {
		return false, nil
	}

	if err := s.repo.RemoveSignup(ctx, a.ID, volunteerID); err != nil {
		return false, err
	}
	return true, nil
}

// Cancel baja la actividad (staff): bandera de una sola dirección, los
// signups existentes persisten. Idempotente.
func (s *Service) Cancel(ctx context.Context, staffID, activityID string) (Activity, error) {
	if strings.TrimSpace(staffID) == "" {
		return Activity{}, ErrInvalidInput
	}

	a, err := s.getActivity(ctx, activityID)
	if err != nil {
		return Activity{}, err
	}
	if a.Cancelled {
		return a, nil
	}

	a.Cancelled = true
	if err := s.repo.Update(ctx, a); err != nil {
		return Activity{}, err
	}
	return a, nil
}

func (s *Service) getActivity(ctx context.Context, activityID string) (Activity, error) {
	activityID = strings.TrimSpace(activityID)
	if activityID == "" {
		return Activity{}, ErrNotFound
	}
	a, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		return Activity{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) activeActivity(ctx context.Context, activityID string) (Activity, error) {
	a, err := s.getActivity(ctx, activityID)
	if err != nil {
		return Activity{}, err
	}
	if a.Cancelled || a.Date.Before(startOfDay(s.now())) {
		return Activity{}, ErrNotFound
	}
	return a, nil
}

// startOfDay normaliza "now" al comienzo del día: una actividad de hoy
// sigue vigente aunque ya haya pasado la hora de inicio.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
