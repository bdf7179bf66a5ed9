package volunteering

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID    map[string]Activity
	signups map[string]map[string]struct{}
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:    map[string]Activity{},
		signups: map[string]map[string]struct{}{},
	}
}

func (r *testRepo) Create(ctx context.Context, a Activity) error {
	if a.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[a.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Activity, error) {
	a, ok := r.byID[id]
	if !ok {
		return Activity{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) Update(ctx context.Context, a Activity) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) ListUpcoming(ctx context.Context, from time.Time) ([]Activity, error) {
	out := make([]Activity, 0)
	for _, a := range r.byID {
		if !a.Date.Before(from) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *testRepo) AddSignup(ctx context.Context, s Signup) error {
	set, ok := r.signups[s.ActivityID]
	if !ok {
		set = map[string]struct{}{}
		r.signups[s.ActivityID] = set
	}
	set[s.VolunteerID] = struct{}{}
	return nil
}

func (r *testRepo) RemoveSignup(ctx context.Context, activityID, volunteerID string) error {
	if set, ok := r.signups[activityID]; ok {
		delete(set, volunteerID)
	}
	return nil
}

func (r *testRepo) HasSignup(ctx context.Context, activityID, volunteerID string) (bool, error) {
	set, ok := r.signups[activityID]
	if !ok {
		return false, nil
	}
	_, signed := set[volunteerID]
	return signed, nil
}

func (r *testRepo) CountSignups(ctx context.Context, activityID string) (int, error) {
	return len(r.signups[activityID]), nil
}

func newTestService(t *testing.T) (*Service, *testRepo, time.Time) {
	t.Helper()
	repo := newTestRepo()
	svc := NewService(repo)
	now := time.Date(2026, 5, 15, 14, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo, now
}

func seedActivity(t *testing.T, repo *testRepo, id string, date time.Time, cancelled bool) {
	t.Helper()
	err := repo.Create(context.Background(), Activity{
		ID:            id,
		Title:         "Dog Walk",
		Description:   "Walk the dogs around the park",
		Date:          date,
		StartTime:     "10:00",
		EndTime:       "12:00",
		MaxAttendance: 10,
		Type:          TypeDogs,
		Cancelled:     cancelled,
		StaffID:       "staff-1",
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_Validation(t *testing.T) {
	svc, _, now := newTestService(t)

	base := CreateInput{
		Title:         "Dog Walk",
		Description:   "Walk the dogs",
		Date:          now.AddDate(0, 0, 7),
		StartTime:     "10:00",
		EndTime:       "12:00",
		MaxAttendance: 10,
		Type:          TypeDogs,
	}

	cases := []struct {
		name    string
		staffID string
		mutate  func(in *CreateInput)
	}{
		{"missing staff", "", func(in *CreateInput) {}},
		{"empty title", "staff-1", func(in *CreateInput) { in.Title = " " }},
		{"empty description", "staff-1", func(in *CreateInput) { in.Description = "" }},
		{"zero attendance", "staff-1", func(in *CreateInput) { in.MaxAttendance = 0 }},
		{"past date", "staff-1", func(in *CreateInput) { in.Date = now.AddDate(0, 0, -1) }},
		{"bad start time", "staff-1", func(in *CreateInput) { in.StartTime = "10am" }},
		{"end before start", "staff-1", func(in *CreateInput) { in.EndTime = "09:00" }},
		{"end equals start", "staff-1", func(in *CreateInput) { in.EndTime = "10:00" }},
		{"unknown type", "staff-1", func(in *CreateInput) { in.Type = ActivityType("birds") }},
	}

	for _, tc := range cases {
		in := base
		tc.mutate(&in)
		if _, err := svc.Create(context.Background(), tc.staffID, in); err != ErrInvalidInput {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestService_Create_DefaultsToGeneral_TodayIsValid(t *testing.T) {
	svc, _, now := newTestService(t)

	// hoy vale aunque la hora ya haya pasado
	a, err := svc.Create(context.Background(), "staff-1", CreateInput{
		Title:         "Cleanup",
		Description:   "Clean the kennels",
		Date:          time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:     "08:00",
		EndTime:       "09:30",
		MaxAttendance: 5,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.Type != TypeGeneral {
		t.Fatalf("expected default type general, got %s", a.Type)
	}
	if a.Cancelled {
		t.Fatalf("new activity must not be cancelled")
	}
}

func TestService_SignUp_Idempotent(t *testing.T) {
	svc, repo, now := newTestService(t)
	seedActivity(t, repo, "act-1", now.AddDate(0, 0, 3), false)

	created, err := svc.SignUp(context.Background(), "act-1", "vol-1")
	if err != nil || !created {
		t.Fatalf("expected first signup created, got created=%v err=%v", created, err)
	}

	created, err = svc.SignUp(context.Background(), "act-1", "vol-1")
	if err != nil {
		t.Fatalf("second signup returned error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on repeat signup")
	}

	n, _ := repo.CountSignups(context.Background(), "act-1")
	if n != 1 {
		t.Fatalf("expected exactly 1 signup row, got %d", n)
	}
}

func TestService_SignUp_RefusesCancelledOrPast(t *testing.T) {
	svc, repo, now := newTestService(t)
	seedActivity(t, repo, "cancelled", now.AddDate(0, 0, 3), true)
	seedActivity(t, repo, "past", now.AddDate(0, 0, -3), false)

	if _, err := svc.SignUp(context.Background(), "cancelled", "vol-1"); err != ErrBadState {
		t.Fatalf("expected ErrBadState for cancelled activity, got %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "past", "vol-1"); err != ErrBadState {
		t.Fatalf("expected ErrBadState for past activity, got %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "ghost", "vol-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing activity, got %v", err)
	}
}

func TestService_Revoke_NoopWhenNotSigned(t *testing.T) {
	svc, repo, now := newTestService(t)
	seedActivity(t, repo, "act-1", now.AddDate(0, 0, 3), false)

	removed, err := svc.Revoke(context.Background(), "act-1", "vol-1")
	if err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if removed {
		t.Fatalf("expected removed=false when not signed up")
	}

	if _, err := svc.SignUp(context.Background(), "act-1", "vol-1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	removed, err = svc.Revoke(context.Background(), "act-1", "vol-1")
	if err != nil || !removed {
		t.Fatalf("expected removed=true, got removed=%v err=%v", removed, err)
	}

	signed, _ := repo.HasSignup(context.Background(), "act-1", "vol-1")
	if signed {
		t.Fatalf("expected signup row gone after revoke")
	}
}

func TestService_Cancel_OneWayFlag_SignupsPersist(t *testing.T) {
	svc, repo, now := newTestService(t)
	seedActivity(t, repo, "act-1", now.AddDate(0, 0, 3), false)

	if _, err := svc.SignUp(context.Background(), "act-1", "vol-1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	a, err := svc.Cancel(context.Background(), "staff-1", "act-1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !a.Cancelled {
		t.Fatalf("expected cancelled flag set")
	}

	// idempotente
	a, err = svc.Cancel(context.Background(), "staff-1", "act-1")
	if err != nil || !a.Cancelled {
		t.Fatalf("expected cancel to be idempotent, got %v", err)
	}

	// los signups existentes quedan
	signed, _ := repo.HasSignup(context.Background(), "act-1", "vol-1")
	if !signed {
		t.Fatalf("cancel must not remove existing signups")
	}

	// pero no se puede ni anotar ni ver el detalle
	if _, err := svc.SignUp(context.Background(), "act-1", "vol-2"); err != ErrBadState {
		t.Fatalf("expected ErrBadState signing up to cancelled, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "act-1", "vol-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on cancelled detail, got %v", err)
	}
}

func TestService_Get_DetailWithSignupState(t *testing.T) {
	svc, repo, now := newTestService(t)
	seedActivity(t, repo, "act-1", now.AddDate(0, 0, 3), false)

	if _, err := svc.SignUp(context.Background(), "act-1", "vol-1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "act-1", "vol-2"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	d, err := svc.Get(context.Background(), "act-1", "vol-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !d.SignedUp || d.SignupCount != 2 {
		t.Fatalf("expected signed up with count 2, got %v/%d", d.SignedUp, d.SignupCount)
	}

	// visitante anónimo
	d, err = svc.Get(context.Background(), "act-1", "")
	if err != nil {
		t.Fatalf("Get anonymous: %v", err)
	}
	if d.SignedUp {
		t.Fatalf("anonymous visitor is never signed up")
	}
}

func TestService_Get_PastIsNotFound(t *testing.T) {
	svc, repo, now := newTestService(t)
	seedActivity(t, repo, "past", now.AddDate(0, 0, -1), false)

	if _, err := svc.Get(context.Background(), "past", ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for past activity, got %v", err)
	}
}

func TestService_ListUpcoming_IncludesCancelled_ExcludesPast(t *testing.T) {
	svc, repo, now := newTestService(t)
	seedActivity(t, repo, "past", now.AddDate(0, 0, -2), false)
	seedActivity(t, repo, "soon", now.AddDate(0, 0, 1), false)
	seedActivity(t, repo, "cancelled", now.AddDate(0, 0, 2), true)

	items, err := svc.ListUpcoming(context.Background())
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 upcoming activities, got %d", len(items))
	}
	if items[0].ID != "soon" || items[1].ID != "cancelled" {
		t.Fatalf("expected date order soon,cancelled; got %s,%s", items[0].ID, items[1].ID)
	}
	if !items[1].Cancelled {
		t.Fatalf("cancelled activity must keep its flag in the list")
	}
}
