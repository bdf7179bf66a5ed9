package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"animal-shelter/internal/domain/adoptions"
)

type ApplicationsRepo struct {
	mu   sync.RWMutex
	byID map[string]adoptions.Application
}

func NewApplicationsRepo() *ApplicationsRepo {
	return &ApplicationsRepo{
		byID: make(map[string]adoptions.Application),
	}
}

func (r *ApplicationsRepo) Create(ctx context.Context, app adoptions.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(app.ID) == "" {
		return errors.New("application id required")
	}
	if _, exists := r.byID[app.ID]; exists {
		return errors.New("application already exists")
	}
	r.byID[app.ID] = app
	return nil
}

func (r *ApplicationsRepo) GetByID(ctx context.Context, id string) (adoptions.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.byID[id]
	if !ok {
		return adoptions.Application{}, adoptions.ErrNotFound
	}
	return app, nil
}

func (r *ApplicationsRepo) Update(ctx context.Context, app adoptions.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[app.ID]; !exists {
		return adoptions.ErrNotFound
	}
	r.byID[app.ID] = app
	return nil
}

func (r *ApplicationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return adoptions.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *ApplicationsRepo) ListByAnimal(ctx context.Context, animalID string) ([]adoptions.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Application, 0)
	for _, app := range r.byID {
		if app.AnimalID == animalID {
			out = append(out, app)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (r *ApplicationsRepo) ListByUser(ctx context.Context, userID string) ([]adoptions.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Application, 0)
	for _, app := range r.byID {
		if app.UserID == userID {
			out = append(out, app)
		}
	}

	// más recientes primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (r *ApplicationsRepo) FindByUserAndAnimal(ctx context.Context, userID, animalID string) (adoptions.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, app := range r.byID {
		if app.UserID == userID && app.AnimalID == animalID {
			return app, nil
		}
	}
	return adoptions.Application{}, adoptions.ErrNotFound
}

func (r *ApplicationsRepo) CountPending(ctx context.Context, animalID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, app := range r.byID {
		if app.AnimalID == animalID && app.Status == adoptions.StatusPending {
			n++
		}
	}
	return n, nil
}

func (r *ApplicationsRepo) snapshot() map[string]adoptions.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]adoptions.Application, len(r.byID))
	for k, v := range r.byID {
		snap[k] = v
	}
	return snap
}

func (r *ApplicationsRepo) restore(snap map[string]adoptions.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = snap
}
