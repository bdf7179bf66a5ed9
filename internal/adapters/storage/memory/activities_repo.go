package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"animal-shelter/internal/domain/volunteering"
)

type ActivitiesRepo struct {
	mu   sync.RWMutex
	byID map[string]volunteering.Activity

	// signups[activityID] = set de volunteerIDs; el set garantiza a lo
	// sumo una fila join por par (activity, volunteer).
	signups map[string]map[string]struct{}
}

func NewActivitiesRepo() *ActivitiesRepo {
	return &ActivitiesRepo{
		byID:    make(map[string]volunteering.Activity),
		signups: make(map[string]map[string]struct{}),
	}
}

func (r *ActivitiesRepo) Create(ctx context.Context, a volunteering.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("activity id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("activity already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *ActivitiesRepo) GetByID(ctx context.Context, id string) (volunteering.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return volunteering.Activity{}, volunteering.ErrNotFound
	}
	return a, nil
}

func (r *ActivitiesRepo) Update(ctx context.Context, a volunteering.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return volunteering.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *ActivitiesRepo) ListUpcoming(ctx context.Context, from time.Time) ([]volunteering.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]volunteering.Activity, 0)
	for _, a := range r.byID {
		if !a.Date.Before(from) {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *ActivitiesRepo) AddSignup(ctx context.Context, s volunteering.Signup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ActivityID]; !exists {
		return volunteering.ErrNotFound
	}
	set, ok := r.signups[s.ActivityID]
	if !ok {
		set = make(map[string]struct{})
		r.signups[s.ActivityID] = set
	}
	set[s.VolunteerID] = struct{}{}
	return nil
}

func (r *ActivitiesRepo) RemoveSignup(ctx context.Context, activityID, volunteerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.signups[activityID]; ok {
		delete(set, volunteerID)
	}
	return nil
}

func (r *ActivitiesRepo) HasSignup(ctx context.Context, activityID, volunteerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.signups[activityID]
	if !ok {
		return false, nil
	}
	_, signed := set[volunteerID]
	return signed, nil
}

func (r *ActivitiesRepo) CountSignups(ctx context.Context, activityID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.signups[activityID]), nil
}
