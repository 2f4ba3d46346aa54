package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"medication-tracker/internal/ports/notify"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Reminder
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Reminder{}}
}

func (r *testRepo) Create(ctx context.Context, rem Reminder) error {
	if rem.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Reminder, error) {
	rem, ok := r.byID[id]
	if !ok {
		return Reminder{}, errRepoNotFound
	}
	return rem, nil
}

func (r *testRepo) Update(ctx context.Context, rem Reminder) error {
	if _, ok := r.byID[rem.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *testRepo) ListDue(ctx context.Context, now time.Time) ([]Reminder, error) {
	out := make([]Reminder, 0)
	for _, rem := range r.byID {
		if rem.Status != StatusScheduled && rem.Status != StatusSnoozed {
			continue
		}
		if rem.ScheduledTime.After(now) {
			continue
		}
		out = append(out, rem)
	}
	return out, nil
}

func (r *testRepo) ListUpcoming(ctx context.Context, now, before time.Time) ([]Reminder, error) {
	out := make([]Reminder, 0)
	for _, rem := range r.byID {
		if rem.Status != StatusScheduled && rem.Status != StatusSnoozed {
			continue
		}
		if !rem.ScheduledTime.After(now) || rem.ScheduledTime.After(before) {
			continue
		}
		out = append(out, rem)
	}
	return out, nil
}

func (r *testRepo) ListByMedication(ctx context.Context, medicationID string) ([]Reminder, error) {
	out := make([]Reminder, 0)
	for _, rem := range r.byID {
		if rem.MedicationID == medicationID {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (r *testRepo) ListByStatus(ctx context.Context, st Status) ([]Reminder, error) {
	out := make([]Reminder, 0)
	for _, rem := range r.byID {
		if rem.Status == st {
			out = append(out, rem)
		}
	}
	return out, nil
}

// -------------------------
// Test notifier / namer
// -------------------------

type testNotifier struct {
	sent   []notify.DueReminder
	failOn map[string]bool
}

func (n *testNotifier) NotifyDueReminder(ctx context.Context, rem notify.DueReminder) error {
	if n.failOn[rem.ReminderID] {
		return errors.New("notifier: delivery failed")
	}
	n.sent = append(n.sent, rem)
	return nil
}

type testNamer map[string]string

func (n testNamer) NameOf(ctx context.Context, medicationID string) (string, error) {
	name, ok := n[medicationID]
	if !ok {
		return "", errors.New("namer: unknown medication")
	}
	return name, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Snooze_TenMinutesAndCounts(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rem, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		ScheduledTime: now.Add(-30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	first, err := svc.Snooze(context.Background(), rem.ID)
	if err != nil {
		t.Fatalf("Snooze returned error: %v", err)
	}
	if first.Status != StatusSnoozed || first.SnoozeCount != 1 {
		t.Fatalf("expected snoozed count 1, got %#v", first)
	}
	if !first.ScheduledTime.Equal(now.Add(SnoozeInterval)) {
		t.Fatalf("expected scheduled time now+10m, got %v", first.ScheduledTime)
	}

	second, err := svc.Snooze(context.Background(), rem.ID)
	if err != nil {
		t.Fatalf("second Snooze returned error: %v", err)
	}
	if second.SnoozeCount != 2 {
		t.Fatalf("expected snooze count 2, got %d", second.SnoozeCount)
	}
}

func TestService_Snooze_RejectedAfterAcknowledge(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	rem, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		ScheduledTime: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Acknowledge(context.Background(), rem.ID); err != nil {
		t.Fatalf("Acknowledge returned error: %v", err)
	}
	if _, err := svc.Snooze(context.Background(), rem.ID); !errors.Is(err, ErrAlreadyAcknowledged) {
		t.Fatalf("expected ErrAlreadyAcknowledged, got %v", err)
	}
}

func TestService_Update_ReevaluatesAgainstClock(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rem, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		ScheduledTime: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Patch vacío: scheduled vencido pasa a missed.
	updated, err := svc.Update(context.Background(), rem.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != StatusMissed {
		t.Fatalf("expected missed after empty patch, got %s", updated.Status)
	}

	// Reprogramar a futuro lo devuelve a scheduled.
	future := now.Add(2 * time.Hour)
	updated, err = svc.Update(context.Background(), rem.ID, UpdateInput{ScheduledTime: &future})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != StatusScheduled {
		t.Fatalf("expected scheduled after future reschedule, got %s", updated.Status)
	}
}

func TestService_Update_AcknowledgedIsTerminal(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rem, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		ScheduledTime: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Acknowledge(context.Background(), rem.ID); err != nil {
		t.Fatalf("Acknowledge returned error: %v", err)
	}

	// Ni patch vacío ni hora futura mueven un acknowledged.
	updated, err := svc.Update(context.Background(), rem.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != StatusAcknowledged {
		t.Fatalf("expected acknowledged to stay, got %s", updated.Status)
	}
}

func TestService_Update_RejectsUnknownStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	rem, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		ScheduledTime: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	bad := Status("paused")
	if _, err := svc.Update(context.Background(), rem.ID, UpdateInput{Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_ListUpcoming_RequiresFutureBound(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.ListUpcoming(context.Background(), now.Add(-time.Minute)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for past bound, got %v", err)
	}
}

func TestService_DispatchDue_MarksSentAndSkipsFailures(t *testing.T) {
	repo := newTestRepo()
	notifier := &testNotifier{failOn: map[string]bool{}}
	svc := NewService(repo, notifier)

	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	due1, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-1",
		ScheduledTime: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	due2, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-2",
		ScheduledTime: now.Add(-30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{
		MedicationID:  "med-3",
		ScheduledTime: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	notifier.failOn[due2.ID] = true

	sent, err := svc.DispatchDue(context.Background(), testNamer{"med-1": "Amoxicillin"})
	if err != nil {
		t.Fatalf("DispatchDue returned error: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 dispatched, got %d", sent)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].ReminderID != due1.ID {
		t.Fatalf("expected only the deliverable reminder notified, got %#v", notifier.sent)
	}
	if notifier.sent[0].MedicationName != "Amoxicillin" {
		t.Fatalf("expected medication name projected, got %q", notifier.sent[0].MedicationName)
	}

	if repo.byID[due1.ID].Status != StatusSent {
		t.Fatalf("expected delivered reminder marked sent")
	}
	if repo.byID[due2.ID].Status != StatusScheduled {
		t.Fatalf("expected failed delivery to leave reminder untouched")
	}
}

func TestService_DispatchDue_WithoutNotifier(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	if _, err := svc.DispatchDue(context.Background(), nil); !errors.Is(err, ErrNotifierNotConfigured) {
		t.Fatalf("expected ErrNotifierNotConfigured, got %v", err)
	}
}
