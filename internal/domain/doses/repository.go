package doses

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, d Dose) error
	GetByID(ctx context.Context, id string) (Dose, error)

	// ListForUserInRange devuelve dosis del usuario con ScheduledTime en [from, to).
	ListForUserInRange(ctx context.Context, ownerUserID string, from, to time.Time) ([]Dose, error)

	// ListMissed devuelve dosis no tomadas con ScheduledTime anterior a now.
	ListMissed(ctx context.Context, ownerUserID string, now time.Time) ([]Dose, error)

	ListByMedication(ctx context.Context, medicationID string) ([]Dose, error)
	Update(ctx context.Context, d Dose) error
}
