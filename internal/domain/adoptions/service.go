package adoptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"animal-shelter/internal/domain/animals"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate application")
	ErrBadState     = errors.New("invalid state")
)

const (
	maxTextLen   = 1000
	maxReasonLen = 500
)

// DefaultRejectionReason es el texto precargado del formulario de rechazo.
const DefaultRejectionReason = "Thank you for your interest in this animal. While we believe that there is another, more suitable applicant for this animal, we hope you will consider adopting another pet!"

// CascadeRejectionReason es el motivo autogenerado para las solicitudes
// hermanas cuando se aprueba otra solicitud por el mismo animal.
const CascadeRejectionReason = "A suitable owner was already selected for this animal. Thank you for your interest, and we hope you will consider adopting another pet!"

type Service struct {
	repo    Repository
	animals AnimalStore
	tx      Tx
	now     func() time.Time
}

func NewService(repo Repository, animalStore AnimalStore, tx Tx) *Service {
	return &Service{
		repo:    repo,
		animals: animalStore,
		tx:      tx,
		now:     time.Now,
	}
}

type SubmitInput struct {
	AnimalID string
	Text     string
}

// Submit crea una solicitud pending. Guardas: animal existente y sin adoptar,
// y a lo sumo una solicitud por par (usuario, animal) — chequeo previo, no
// constraint de base.
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (Application, error) {
	userID = strings.TrimSpace(userID)
	animalID := strings.TrimSpace(in.AnimalID)
	text := strings.TrimSpace(in.Text)

	if userID == "" || animalID == "" {
		return Application{}, ErrInvalidInput
	}
	if text == "" || len(text) > maxTextLen {
		return Application{}, ErrInvalidInput
	}

	animal, err := s.animals.GetByID(ctx, animalID)
	if err != nil || !animal.Available() {
		return Application{}, ErrNotFound
	}

	if _, err := s.repo.FindByUserAndAnimal(ctx, userID, animalID); err == nil {
		return Application{}, ErrDuplicate
	}

	app := Application{
		ID:          uuid.NewString(),
		AnimalID:    animalID,
		UserID:      userID,
		Text:        text,
		Status:      StatusPending,
		SubmittedAt: s.now(),
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// PendingCount es una fila del tablero staff: un animal sin adoptar y
// cuántas solicitudes pending tiene (cero incluido).
type PendingCount struct {
	Animal animals.Animal
	Count  int
}

func (s *Service) ListPending(ctx context.Context) ([]PendingCount, error) {
	available, err := s.animals.ListAvailable(ctx, animals.ListQuery{})
	if err != nil {
		return nil, err
	}

	out := make([]PendingCount, 0, len(available))
	for _, a := range available {
		n, err := s.repo.CountPending(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, PendingCount{Animal: a, Count: n})
	}
	return out, nil
}

// AnimalApplications es la vista staff de un animal: pendientes y rechazadas,
// ambas por fecha de envío ascendente.
type AnimalApplications struct {
	Animal     animals.Animal
	Pending    []Application
	Rejections []Application
}

func (s *Service) ListForAnimal(ctx context.Context, animalID string) (AnimalApplications, error) {
	animal, err := s.availableAnimal(ctx, animalID)
	if err != nil {
		return AnimalApplications{}, err
	}

	all, err := s.repo.ListByAnimal(ctx, animalID)
	if err != nil {
		return AnimalApplications{}, err
	}

	out := AnimalApplications{
		Animal:     animal,
		Pending:    make([]Application, 0),
		Rejections: make([]Application, 0),
	}
	for _, app := range all {
		switch app.Status {
		case StatusPending:
			out.Pending = append(out.Pending, app)
		case StatusRejected:
			out.Rejections = append(out.Rejections, app)
		}
	}
	return out, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// GetForDecision es la guarda de las pantallas de confirmación: el animal
// sigue sin adoptar y la solicitud existe y es de ese animal.
func (s *Service) GetForDecision(ctx context.Context, animalID, applicationID string) (animals.Animal, Application, error) {
	animal, err := s.availableAnimal(ctx, animalID)
	if err != nil {
		return animals.Animal{}, Application{}, err
	}

	app, err := s.applicationForAnimal(ctx, animalID, applicationID)
	if err != nil {
		return animals.Animal{}, Application{}, err
	}
	return animal, app, nil
}

// Approve ejecuta la transición PENDING -> APPROVED dentro de una sola
// transacción: estampa la adopción del animal (escritura condicional),
// aprueba la solicitud y rechaza en cascada toda otra solicitud no
// rechazada del mismo animal. Cualquier escritura fallida revierte todo.
func (s *Service) Approve(ctx context.Context, staffID, animalID, applicationID string) (Application, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return Application{}, ErrInvalidInput
	}

	var approved Application
	err := s.tx.RunInTx(ctx, func(st TxStores) error {
		animal, err := st.Animals.GetByID(ctx, animalID)
		if err != nil || !animal.Available() {
			return ErrNotFound
		}

		app, err := st.Applications.GetByID(ctx, applicationID)
		if err != nil || app.AnimalID != animal.ID {
			return ErrNotFound
		}
		if app.Status != StatusPending {
			return ErrBadState
		}

		now := s.now()

		// Adopta solo si sigue sin adoptar: ante dos aprobaciones en
		// carrera, la segunda pierde acá y toda su transacción revierte.
		if err := st.Animals.MarkAdopted(ctx, animal.ID, now); err != nil {
			return ErrNotFound
		}

		app.Status = StatusApproved
		app.StaffID = staffID
		app.Reason = ""
		if err := st.Applications.Update(ctx, app); err != nil {
			return err
		}

		// Cascada: toda otra solicitud no rechazada del animal pasa a
		// rejected con motivo autogenerado y el mismo staff.
		siblings, err := st.Applications.ListByAnimal(ctx, animal.ID)
		if err != nil {
			return err
		}
		for _, sib := range siblings {
			if sib.ID == app.ID || sib.Status == StatusRejected {
				continue
			}
			sib.Status = StatusRejected
			sib.Reason = CascadeRejectionReason
			sib.StaffID = staffID
			if err := st.Applications.Update(ctx, sib); err != nil {
				return err
			}
		}

		approved = app
		return nil
	})
	if err != nil {
		return Application{}, err
	}
	return approved, nil
}

// Reject ejecuta PENDING -> REJECTED con motivo obligatorio. El animal
// queda sin adoptar.
func (s *Service) Reject(ctx context.Context, staffID, animalID, applicationID, reason string) (Application, error) {
	staffID = strings.TrimSpace(staffID)
	reason = strings.TrimSpace(reason)
	if staffID == "" {
		return Application{}, ErrInvalidInput
	}
	if reason == "" || len(reason) > maxReasonLen {
		return Application{}, ErrInvalidInput
	}

	if _, err := s.availableAnimal(ctx, animalID); err != nil {
		return Application{}, err
	}

	app, err := s.applicationForAnimal(ctx, animalID, applicationID)
	if err != nil {
		return Application{}, err
	}
	if app.Status != StatusPending {
		return Application{}, ErrBadState
	}

	app.Status = StatusRejected
	app.StaffID = staffID
	app.Reason = reason

	if err := s.repo.Update(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Revise ejecuta REJECTED -> PENDING ("revisar el fallo"): limpia el motivo
// y reasigna el staff al que revisa. Sin cascada.
func (s *Service) Revise(ctx context.Context, staffID, animalID, applicationID string) (Application, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return Application{}, ErrInvalidInput
	}

	if _, err := s.availableAnimal(ctx, animalID); err != nil {
		return Application{}, err
	}

	app, err := s.applicationForAnimal(ctx, animalID, applicationID)
	if err != nil {
		return Application{}, err
	}
	// approved es terminal: no hay transición de salida definida.
	if app.Status != StatusRejected {
		return Application{}, ErrBadState
	}

	app.Status = StatusPending
	app.StaffID = staffID
	app.Reason = ""

	if err := s.repo.Update(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Delete es el borrado administrativo; no forma parte del flujo normal.
func (s *Service) Delete(ctx context.Context, applicationID string) error {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, applicationID); err != nil {
		return ErrNotFound
	}
	return nil
}

// SummaryForUser implementa animals.ApplicationFinder para el detalle público.
func (s *Service) SummaryForUser(ctx context.Context, animalID, userID string) (animals.ApplicationSummary, bool, error) {
	app, err := s.repo.FindByUserAndAnimal(ctx, userID, animalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return animals.ApplicationSummary{}, false, nil
		}
		return animals.ApplicationSummary{}, false, err
	}
	return animals.ApplicationSummary{
		ID:          app.ID,
		Status:      string(app.Status),
		SubmittedAt: app.SubmittedAt,
	}, true, nil
}

func (s *Service) availableAnimal(ctx context.Context, animalID string) (animals.Animal, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return animals.Animal{}, ErrNotFound
	}
	animal, err := s.animals.GetByID(ctx, animalID)
	if err != nil || !animal.Available() {
		return animals.Animal{}, ErrNotFound
	}
	return animal, nil
}

func (s *Service) applicationForAnimal(ctx context.Context, animalID, applicationID string) (Application, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return Application{}, ErrNotFound
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil || app.AnimalID != strings.TrimSpace(animalID) {
		return Application{}, ErrNotFound
	}
	return app, nil
}
