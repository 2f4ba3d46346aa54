package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"medication-tracker/internal/domain/prescriptions"
)

type prescriptionsRepo struct {
	mu   sync.RWMutex
	byID map[string]prescriptions.Prescription
}

func NewPrescriptionsRepo() prescriptions.Repository {
	return &prescriptionsRepo{
		byID: make(map[string]prescriptions.Prescription),
	}
}

func (r *prescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("prescription id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("prescription already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *prescriptionsRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return prescriptions.Prescription{}, ErrNotFound
	}
	return p, nil
}

func (r *prescriptionsRepo) ListByMedication(ctx context.Context, medicationID string) ([]prescriptions.Prescription, error) {
	return r.list(func(p prescriptions.Prescription) bool {
		return p.MedicationID == medicationID
	})
}

func (r *prescriptionsRepo) ListExpiring(ctx context.Context, from, to time.Time) ([]prescriptions.Prescription, error) {
	return r.list(func(p prescriptions.Prescription) bool {
		return !p.ExpiryDate.Before(from) && !p.ExpiryDate.After(to)
	})
}

func (r *prescriptionsRepo) Update(ctx context.Context, p prescriptions.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *prescriptionsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *prescriptionsRepo) list(keep func(prescriptions.Prescription) bool) ([]prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prescriptions.Prescription, 0)
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	// Vencimiento más próximo primero.
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiryDate.Before(out[j].ExpiryDate)
	})
	return out, nil
}
