package medications

import (
	"context"
	"time"

	"medication-tracker/internal/domain/schedules"
)

type Repository interface {
	// CreateWithSchedules persiste la medicación y todos sus horarios en una
	// sola transacción: o se escribe todo, o no se escribe nada.
	CreateWithSchedules(ctx context.Context, m Medication, ss []schedules.Schedule) error

	GetByID(ctx context.Context, id string) (Medication, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error)
	ListActiveByOwner(ctx context.Context, ownerUserID string) ([]Medication, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
}
