package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"animal-shelter/internal/domain/animals"
)

type AnimalsRepo struct {
	mu   sync.RWMutex
	byID map[string]animals.Animal
}

func NewAnimalsRepo() *AnimalsRepo {
	return &AnimalsRepo{
		byID: make(map[string]animals.Animal),
	}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *AnimalsRepo) ListAvailable(ctx context.Context, q animals.ListQuery) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if matches(a, q) {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ArrivedAt.Before(out[j].ArrivedAt)
	})
	return out, nil
}

// MarkAdopted es condicional: solo adopta si AdoptedAt sigue en nil.
func (r *AnimalsRepo) MarkAdopted(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.AdoptedAt != nil {
		return animals.ErrNotFound
	}
	a.AdoptedAt = &at
	r.byID[id] = a
	return nil
}

func matches(a animals.Animal, q animals.ListQuery) bool {
	if a.AdoptedAt != nil {
		return false
	}

	switch q.Species {
	case animals.FilterSpeciesNone:
	case animals.FilterSpeciesOther:
		if a.Species == animals.SpeciesCat || a.Species == animals.SpeciesDog {
			return false
		}
	default:
		if a.Species != animals.Species(q.Species) {
			return false
		}
	}

	if q.BornSince != nil && a.BirthDate.Before(*q.BornSince) {
		return false
	}
	if q.BornAfter != nil && !a.BirthDate.After(*q.BornAfter) {
		return false
	}
	if q.BornBefore != nil && !a.BirthDate.Before(*q.BornBefore) {
		return false
	}
	if q.BornUntil != nil && a.BirthDate.After(*q.BornUntil) {
		return false
	}

	if q.NameContains != "" && !strings.Contains(a.Name, q.NameContains) {
		return false
	}
	return true
}

func (r *AnimalsRepo) snapshot() map[string]animals.Animal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]animals.Animal, len(r.byID))
	for k, v := range r.byID {
		snap[k] = v
	}
	return snap
}

func (r *AnimalsRepo) restore(snap map[string]animals.Animal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = snap
}
