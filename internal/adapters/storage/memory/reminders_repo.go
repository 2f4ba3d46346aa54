package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"medication-tracker/internal/domain/reminders"
)

type remindersRepo struct {
	mu   sync.RWMutex
	byID map[string]reminders.Reminder
}

func NewRemindersRepo() reminders.Repository {
	return &remindersRepo{
		byID: make(map[string]reminders.Reminder),
	}
}

func (r *remindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rem.ID == "" {
		return errors.New("reminder id required")
	}
	if _, exists := r.byID[rem.ID]; exists {
		return errors.New("reminder already exists")
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *remindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rem, ok := r.byID[id]
	if !ok {
		return reminders.Reminder{}, ErrNotFound
	}
	return rem, nil
}

func (r *remindersRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rem.ID]; !ok {
		return ErrNotFound
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *remindersRepo) ListDue(ctx context.Context, now time.Time) ([]reminders.Reminder, error) {
	return r.list(func(rem reminders.Reminder) bool {
		return unresolved(rem.Status) && !rem.ScheduledTime.After(now)
	})
}

func (r *remindersRepo) ListUpcoming(ctx context.Context, now, before time.Time) ([]reminders.Reminder, error) {
	return r.list(func(rem reminders.Reminder) bool {
		return unresolved(rem.Status) && rem.ScheduledTime.After(now) && !rem.ScheduledTime.After(before)
	})
}

func (r *remindersRepo) ListByMedication(ctx context.Context, medicationID string) ([]reminders.Reminder, error) {
	return r.list(func(rem reminders.Reminder) bool {
		return rem.MedicationID == medicationID
	})
}

func (r *remindersRepo) ListByStatus(ctx context.Context, st reminders.Status) ([]reminders.Reminder, error) {
	return r.list(func(rem reminders.Reminder) bool {
		return rem.Status == st
	})
}

func unresolved(st reminders.Status) bool {
	return st == reminders.StatusScheduled || st == reminders.StatusSnoozed
}

func (r *remindersRepo) list(keep func(reminders.Reminder) bool) ([]reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reminders.Reminder, 0)
	for _, rem := range r.byID {
		if keep(rem) {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out, nil
}
