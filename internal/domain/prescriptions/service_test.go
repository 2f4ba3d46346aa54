package prescriptions

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
	byID map[string]Prescription
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Prescription{}}
}

func (r *testRepo) Create(ctx context.Context, p Prescription) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Prescription, error) {
	p, ok := r.byID[id]
	if !ok {
		return Prescription{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) ListByMedication(ctx context.Context, medicationID string) ([]Prescription, error) {
	out := make([]Prescription, 0)
	for _, p := range r.byID {
		if p.MedicationID == medicationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) ListExpiring(ctx context.Context, from, to time.Time) ([]Prescription, error) {
	out := make([]Prescription, 0)
	for _, p := range r.byID {
		if p.ExpiryDate.Before(from) || p.ExpiryDate.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Prescription) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_StartsActive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), CreateInput{
		MedicationID:       "med-1",
		PrescriptionNumber: "RX-001",
		PrescriberName:     "Dr. Lopez",
		IssueDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.Status != StatusActive {
		t.Fatalf("expected active status, got %s", p.Status)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected timestamps stamped with now")
	}
}

func TestService_Create_RejectsExpiryBeforeIssue(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), CreateInput{
		MedicationID:       "med-1",
		PrescriptionNumber: "RX-001",
		IssueDate:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Create_RequiresNumberAndDates(t *testing.T) {
	svc := NewService(newTestRepo())

	issue := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := issue.AddDate(0, 2, 0)
	cases := []CreateInput{
		{MedicationID: "", PrescriptionNumber: "RX-001", IssueDate: issue, ExpiryDate: expiry},
		{MedicationID: "med-1", PrescriptionNumber: " ", IssueDate: issue, ExpiryDate: expiry},
		{MedicationID: "med-1", PrescriptionNumber: "RX-001", ExpiryDate: expiry},
		{MedicationID: "med-1", PrescriptionNumber: "RX-001", IssueDate: issue},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_ListExpiringSoon_Window(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mk := func(number string, expiry time.Time) {
		if _, err := svc.Create(context.Background(), CreateInput{
			MedicationID:       "med-1",
			PrescriptionNumber: number,
			IssueDate:          now.AddDate(0, -1, 0),
			ExpiryDate:         expiry,
		}); err != nil {
			t.Fatalf("Create %s returned error: %v", number, err)
		}
	}

	mk("RX-past", now.AddDate(0, 0, -1))   // ya vencida, fuera
	mk("RX-soon", now.AddDate(0, 0, 10))   // dentro de la ventana
	mk("RX-edge", now.AddDate(0, 0, 30))   // borde inclusive
	mk("RX-later", now.AddDate(0, 0, 45))  // fuera

	items, err := svc.ListExpiringSoon(context.Background(), 30)
	if err != nil {
		t.Fatalf("ListExpiringSoon returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 prescriptions in window, got %d", len(items))
	}

	if _, err := svc.ListExpiringSoon(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-positive days, got %v", err)
	}
}

func TestService_Update_StatusAndExpiry(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), CreateInput{
		MedicationID:       "med-1",
		PrescriptionNumber: "RX-001",
		IssueDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	later := now.Add(time.Hour)
	svc.now = func() time.Time { return later }

	cancelled := StatusCancelled
	updated, err := svc.Update(context.Background(), p.ID, UpdateInput{Status: &cancelled})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != StatusCancelled || updated.UpdatedAt != later {
		t.Fatalf("expected cancelled with refreshed UpdatedAt, got %#v", updated)
	}

	bad := Status("archived")
	if _, err := svc.Update(context.Background(), p.ID, UpdateInput{Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}

	early := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Update(context.Background(), p.ID, UpdateInput{ExpiryDate: &early}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for expiry before issue, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreateInput{
		MedicationID:       "med-1",
		PrescriptionNumber: "RX-001",
		IssueDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), p.ID); err == nil {
		t.Fatalf("expected error reading deleted prescription")
	}
}
