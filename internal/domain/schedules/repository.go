package schedules

import "context"

type Repository interface {
	Create(ctx context.Context, sc Schedule) error
	GetByID(ctx context.Context, id string) (Schedule, error)
	ListActive(ctx context.Context) ([]Schedule, error)
	ListByMedication(ctx context.Context, medicationID string) ([]Schedule, error)
	ListByFrequency(ctx context.Context, f Frequency) ([]Schedule, error)

	// ListInWindow devuelve horarios cuyo TimeOfDay cae en [start, end),
	// ambos en formato "HH:mm:ss".
	ListInWindow(ctx context.Context, start, end string) ([]Schedule, error)

	Update(ctx context.Context, sc Schedule) error

	// Delete elimina el registro de forma permanente (hard delete).
	Delete(ctx context.Context, id string) error
}
