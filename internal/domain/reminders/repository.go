package reminders

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, rem Reminder) error
	GetByID(ctx context.Context, id string) (Reminder, error)
	Update(ctx context.Context, rem Reminder) error

	// ListDue devuelve recordatorios no resueltos (scheduled o snoozed)
	// con ScheduledTime <= now.
	ListDue(ctx context.Context, now time.Time) ([]Reminder, error)

	// ListUpcoming devuelve recordatorios no resueltos con ScheduledTime
	// en (now, before].
	ListUpcoming(ctx context.Context, now, before time.Time) ([]Reminder, error)

	ListByMedication(ctx context.Context, medicationID string) ([]Reminder, error)
	ListByStatus(ctx context.Context, st Status) ([]Reminder, error)
}
