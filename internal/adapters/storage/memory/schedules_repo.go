package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"medication-tracker/internal/domain/schedules"
)

// SchedulesRepo se exporta como tipo concreto porque el repo de medicaciones
// lo necesita para la creación atómica multi-agregado.
type SchedulesRepo struct {
	mu   sync.RWMutex
	byID map[string]schedules.Schedule
}

func NewSchedulesRepo() *SchedulesRepo {
	return &SchedulesRepo{
		byID: make(map[string]schedules.Schedule),
	}
}

func (r *SchedulesRepo) Create(ctx context.Context, sc schedules.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(sc)
}

// createAll inserta todos o ninguno bajo un solo lock.
func (r *SchedulesRepo) createAll(ss []schedules.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sc := range ss {
		if sc.ID == "" {
			return errors.New("schedule id required")
		}
		if _, exists := r.byID[sc.ID]; exists {
			return errors.New("schedule already exists")
		}
	}
	for _, sc := range ss {
		r.byID[sc.ID] = sc
	}
	return nil
}

func (r *SchedulesRepo) createLocked(sc schedules.Schedule) error {
	if sc.ID == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[sc.ID]; exists {
		return errors.New("schedule already exists")
	}
	r.byID[sc.ID] = sc
	return nil
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sc, ok := r.byID[id]
	if !ok {
		return schedules.Schedule{}, ErrNotFound
	}
	return sc, nil
}

func (r *SchedulesRepo) ListActive(ctx context.Context) ([]schedules.Schedule, error) {
	return r.list(func(sc schedules.Schedule) bool {
		return sc.IsActive
	})
}

func (r *SchedulesRepo) ListByMedication(ctx context.Context, medicationID string) ([]schedules.Schedule, error) {
	return r.list(func(sc schedules.Schedule) bool {
		return sc.MedicationID == medicationID
	})
}

func (r *SchedulesRepo) ListByFrequency(ctx context.Context, f schedules.Frequency) ([]schedules.Schedule, error) {
	return r.list(func(sc schedules.Schedule) bool {
		return sc.Frequency == f
	})
}

func (r *SchedulesRepo) ListInWindow(ctx context.Context, start, end string) ([]schedules.Schedule, error) {
	// "HH:mm:ss" compara bien lexicográficamente.
	return r.list(func(sc schedules.Schedule) bool {
		return sc.TimeOfDay >= start && sc.TimeOfDay < end
	})
}

func (r *SchedulesRepo) Update(ctx context.Context, sc schedules.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[sc.ID]; !ok {
		return ErrNotFound
	}
	r.byID[sc.ID] = sc
	return nil
}

func (r *SchedulesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *SchedulesRepo) list(keep func(schedules.Schedule) bool) ([]schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedules.Schedule, 0)
	for _, sc := range r.byID {
		if keep(sc) {
			out = append(out, sc)
		}
	}
	// Orden estable por hora del día y luego id.
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimeOfDay != out[j].TimeOfDay {
			return out[i].TimeOfDay < out[j].TimeOfDay
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
