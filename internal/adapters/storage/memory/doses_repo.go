package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"medication-tracker/internal/domain/doses"
)

type dosesRepo struct {
	mu   sync.RWMutex
	byID map[string]doses.Dose
}

func NewDosesRepo() doses.Repository {
	return &dosesRepo{
		byID: make(map[string]doses.Dose),
	}
}

func (r *dosesRepo) Create(ctx context.Context, d doses.Dose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		return errors.New("dose id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dose already exists")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *dosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return doses.Dose{}, ErrNotFound
	}
	return d, nil
}

func (r *dosesRepo) ListForUserInRange(ctx context.Context, ownerUserID string, from, to time.Time) ([]doses.Dose, error) {
	return r.list(func(d doses.Dose) bool {
		if d.OwnerUserID != ownerUserID {
			return false
		}
		return !d.ScheduledTime.Before(from) && d.ScheduledTime.Before(to)
	})
}

func (r *dosesRepo) ListMissed(ctx context.Context, ownerUserID string, now time.Time) ([]doses.Dose, error) {
	return r.list(func(d doses.Dose) bool {
		return d.OwnerUserID == ownerUserID && !d.IsTaken && d.ScheduledTime.Before(now)
	})
}

func (r *dosesRepo) ListByMedication(ctx context.Context, medicationID string) ([]doses.Dose, error) {
	return r.list(func(d doses.Dose) bool {
		return d.MedicationID == medicationID
	})
}

func (r *dosesRepo) Update(ctx context.Context, d doses.Dose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[d.ID]; !ok {
		return ErrNotFound
	}
	r.byID[d.ID] = d
	return nil
}

func (r *dosesRepo) list(keep func(doses.Dose) bool) ([]doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Dose, 0)
	for _, d := range r.byID {
		if keep(d) {
			out = append(out, d)
		}
	}
	// Orden cronológico ascendente por hora programada.
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out, nil
}
