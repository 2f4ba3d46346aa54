package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"medication-tracker/internal/domain/medications"
	"medication-tracker/internal/domain/schedules"
)

var (
	ErrNotFound = errors.New("not found")
)

type medicationsRepo struct {
	mu   sync.RWMutex
	byID map[string]medications.Medication

	// schedules se necesita para la creación atómica multi-agregado.
	schedules *SchedulesRepo
}

func NewMedicationsRepo(schedules *SchedulesRepo) medications.Repository {
	return &medicationsRepo{
		byID:      make(map[string]medications.Medication),
		schedules: schedules,
	}
}

// CreateWithSchedules emula la transacción: valida todo antes de escribir y,
// si la escritura de horarios falla igualmente, revierte la medicación.
func (r *medicationsRepo) CreateWithSchedules(ctx context.Context, m medications.Medication, ss []schedules.Schedule) error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medication id required")
	}

	r.mu.Lock()
	if _, exists := r.byID[m.ID]; exists {
		r.mu.Unlock()
		return errors.New("medication already exists")
	}
	r.byID[m.ID] = m
	r.mu.Unlock()

	if err := r.schedules.createAll(ss); err != nil {
		r.mu.Lock()
		delete(r.byID, m.ID)
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *medicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *medicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}
	sortMedications(out)
	return out, nil
}

func (r *medicationsRepo) ListActiveByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID && m.Status == medications.StatusActive {
			out = append(out, m)
		}
	}
	sortMedications(out)
	return out, nil
}

func (r *medicationsRepo) UpdateStatus(ctx context.Context, id string, status medications.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = updatedAt
	r.byID[id] = m
	return nil
}

// Orden por fecha de alta desc (más reciente primero).
func sortMedications(out []medications.Medication) {
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}
