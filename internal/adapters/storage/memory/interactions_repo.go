package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"medication-tracker/internal/domain/interactions"
)

type interactionsRepo struct {
	mu   sync.RWMutex
	byID map[string]interactions.Interaction
}

func NewInteractionsRepo() interactions.Repository {
	return &interactionsRepo{
		byID: make(map[string]interactions.Interaction),
	}
}

func (r *interactionsRepo) Create(ctx context.Context, in interactions.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if in.ID == "" {
		return errors.New("interaction id required")
	}
	if _, exists := r.byID[in.ID]; exists {
		return errors.New("interaction already exists")
	}
	r.byID[in.ID] = in
	return nil
}

func (r *interactionsRepo) GetByID(ctx context.Context, id string) (interactions.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	in, ok := r.byID[id]
	if !ok {
		return interactions.Interaction{}, ErrNotFound
	}
	return in, nil
}

func (r *interactionsRepo) ListByMedication(ctx context.Context, medicationID string) ([]interactions.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]interactions.Interaction, 0)
	for _, in := range r.byID {
		if in.MedicationID == medicationID {
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DetectedAt.Before(out[j].DetectedAt)
	})
	return out, nil
}

func (r *interactionsRepo) Acknowledge(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	in.IsAcknowledged = true
	r.byID[id] = in
	return nil
}
