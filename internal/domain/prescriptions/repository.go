package prescriptions

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Prescription) error
	GetByID(ctx context.Context, id string) (Prescription, error)
	ListByMedication(ctx context.Context, medicationID string) ([]Prescription, error)

	// ListExpiring devuelve recetas con ExpiryDate en [from, to].
	ListExpiring(ctx context.Context, from, to time.Time) ([]Prescription, error)

	Update(ctx context.Context, p Prescription) error
	Delete(ctx context.Context, id string) error
}
