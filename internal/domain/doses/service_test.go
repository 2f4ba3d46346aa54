package doses

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Dose
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Dose{}}
}

func (r *testRepo) Create(ctx context.Context, d Dose) error {
	if d.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Dose, error) {
	d, ok := r.byID[id]
	if !ok {
		return Dose{}, errRepoNotFound
	}
	return d, nil
}

func (r *testRepo) ListForUserInRange(ctx context.Context, ownerUserID string, from, to time.Time) ([]Dose, error) {
	out := make([]Dose, 0)
	for _, d := range r.byID {
		if d.OwnerUserID != ownerUserID {
			continue
		}
		if d.ScheduledTime.Before(from) || !d.ScheduledTime.Before(to) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *testRepo) ListMissed(ctx context.Context, ownerUserID string, now time.Time) ([]Dose, error) {
	out := make([]Dose, 0)
	for _, d := range r.byID {
		if d.OwnerUserID == ownerUserID && !d.IsTaken && d.ScheduledTime.Before(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *testRepo) ListByMedication(ctx context.Context, medicationID string) ([]Dose, error) {
	out := make([]Dose, 0)
	for _, d := range r.byID {
		if d.MedicationID == medicationID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, d Dose) error {
	if _, ok := r.byID[d.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[d.ID] = d
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_StartsPendingEvenIfPast(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		OwnerUserID:   "user-1",
		ScheduledTime: now.Add(-2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if d.IsTaken || d.IsMissed {
		t.Fatalf("expected pending dose at creation, got %#v", d)
	}

	// La fila persistida tampoco lleva missed: se deriva al leer.
	stored := repo.byID[d.ID]
	if stored.IsMissed {
		t.Fatalf("expected stored dose without missed flag")
	}
}

func TestService_GetByID_DerivesMissedWithoutPersisting(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		OwnerUserID:   "user-1",
		ScheduledTime: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := svc.GetByID(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !got.IsMissed {
		t.Fatalf("expected derived missed on read")
	}
	if repo.byID[d.ID].IsMissed {
		t.Fatalf("expected read not to persist the derived flag")
	}
}

func TestService_Update_EmptyPatchMarksPastDoseMissed(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		OwnerUserID:   "user-1",
		ScheduledTime: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(context.Background(), d.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !updated.IsMissed {
		t.Fatalf("expected empty patch to mark past dose missed")
	}
	if !repo.byID[d.ID].IsMissed {
		t.Fatalf("expected missed flag persisted by Update")
	}
}

func TestService_Update_TakenSetsTakenAtAndClearsMissed(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		OwnerUserID:   "user-1",
		ScheduledTime: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	taken := true
	updated, err := svc.Update(context.Background(), d.ID, UpdateInput{IsTaken: &taken})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !updated.IsTaken || updated.IsMissed {
		t.Fatalf("expected taken dose without missed, got %#v", updated)
	}
	if updated.TakenAt == nil || !updated.TakenAt.Equal(now) {
		t.Fatalf("expected TakenAt defaulted to now, got %v", updated.TakenAt)
	}

	// Desmarcar limpia TakenAt y vuelve a derivar missed.
	notTaken := false
	updated, err = svc.Update(context.Background(), d.ID, UpdateInput{IsTaken: &notTaken})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.IsTaken || updated.TakenAt != nil {
		t.Fatalf("expected untaken dose without TakenAt, got %#v", updated)
	}
	if !updated.IsMissed {
		t.Fatalf("expected past untaken dose to derive missed again")
	}
}

func TestService_ListToday_UsesCalendarDayWindow(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mk := func(at time.Time) {
		if _, err := svc.Create(context.Background(), CreateInput{
			MedicationID:  "med-1",
			OwnerUserID:   "user-1",
			ScheduledTime: at,
		}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	mk(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))    // inicio inclusive
	mk(time.Date(2026, 1, 5, 23, 59, 59, 0, time.UTC)) // dentro
	mk(time.Date(2026, 1, 4, 23, 59, 59, 0, time.UTC)) // ayer
	mk(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))    // mañana, fin exclusivo

	items, err := svc.ListToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListToday returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 doses today, got %d", len(items))
	}
}

func TestService_ListMissed_FlagsResults(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	past, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		OwnerUserID:   "user-1",
		ScheduledTime: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		OwnerUserID:   "user-1",
		ScheduledTime: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	items, err := svc.ListMissed(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListMissed returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != past.ID || !items[0].IsMissed {
		t.Fatalf("expected only the past dose flagged missed, got %#v", items)
	}
}
