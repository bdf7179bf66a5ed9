package animals

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
)

const (
	maxNameLen        = 16
	maxDescriptionLen = 500

	// placeholder para ingresos sin foto (el upload real es de otro servicio)
	defaultImageURL = "media/placeholder.jpg"
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

type RegisterInput struct {
	Name        string
	Species     string
	Breed       string
	Color       string
	Sex         string
	BirthDate   time.Time
	Description string
	ImageURL    string
	ArrivedAt   *time.Time
}

// Register da de alta un nuevo ingreso al refugio.
func (s *Service) Register(ctx context.Context, staffID string, in RegisterInput) (Animal, error) {
	staffID = strings.TrimSpace(staffID)
	name := strings.TrimSpace(in.Name)
	species := strings.TrimSpace(in.Species)
	sex := Sex(strings.TrimSpace(in.Sex))

	if staffID == "" {
		return Animal{}, ErrInvalidInput
	}
	if name == "" || len(name) > maxNameLen {
		return Animal{}, ErrInvalidInput
	}
	if species == "" {
		return Animal{}, ErrInvalidInput
	}
	if sex != SexMale && sex != SexFemale {
		return Animal{}, ErrInvalidInput
	}
	if len(in.Description) > maxDescriptionLen {
		return Animal{}, ErrInvalidInput
	}

	now := s.now()
	if in.BirthDate.IsZero() || in.BirthDate.After(now) {
		return Animal{}, ErrInvalidInput
	}

	arrived := now
	if in.ArrivedAt != nil && !in.ArrivedAt.IsZero() {
		arrived = *in.ArrivedAt
	}

	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		imageURL = defaultImageURL
	}

	a := Animal{
		ID:          uuid.NewString(),
		Name:        name,
		Species:     Species(species),
		Breed:       strings.TrimSpace(in.Breed),
		Color:       strings.TrimSpace(in.Color),
		Sex:         sex,
		BirthDate:   in.BirthDate,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    imageURL,
		ArrivedAt:   arrived,
		AdoptedAt:   nil,
		StaffID:     staffID,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// GetAvailable devuelve un animal solo si sigue sin adoptar.
// Adoptado o inexistente => ErrNotFound (lookup explícito de una fila,
// sin el patrón filtrar-e-indexar).
func (s *Service) GetAvailable(ctx context.Context, id string) (Animal, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if !a.Available() {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

// Search es el filtro de elegibilidad: especie, franja etaria y substring
// del nombre, siempre restringido a animales sin adoptar. Solo lectura.
func (s *Service) Search(ctx context.Context, f SearchFilter) ([]Animal, error) {
	q := ListQuery{NameContains: strings.TrimSpace(f.Name)}

	switch f.Species {
	case FilterSpeciesNone, FilterSpeciesCat, FilterSpeciesDog, FilterSpeciesOther:
		q.Species = f.Species
	default:
		return nil, ErrInvalidInput
	}

	// Las cotas etarias se resuelven una sola vez acá, contra el reloj
	// inyectado; los repos reciben fechas concretas.
	now := s.now()
	twoYearsAgo := now.AddDate(-2, 0, 0)
	eightYearsAgo := now.AddDate(-8, 0, 0)

	switch f.Age {
	case AgeBandNone:
	case AgeBandYoung:
		q.BornSince = &twoYearsAgo
	case AgeBandAdult:
		q.BornAfter = &eightYearsAgo
		q.BornBefore = &twoYearsAgo
	case AgeBandSenior:
		q.BornUntil = &eightYearsAgo
	default:
		return nil, ErrInvalidInput
	}

	return s.repo.ListAvailable(ctx, q)
}

// ListAvailable es Search sin filtros: todos los animales sin adoptar.
func (s *Service) ListAvailable(ctx context.Context) ([]Animal, error) {
	return s.repo.ListAvailable(ctx, ListQuery{})
}
