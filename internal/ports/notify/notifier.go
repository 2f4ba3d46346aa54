package notify

import (
	"context"
	"time"
)

// DueReminder es la carga que el motor de recordatorios empuja hacia la capa
// de notificaciones (externa a este core).
type DueReminder struct {
	ReminderID     string
	MedicationID   string
	MedicationName string
	ScheduledTime  time.Time
	SnoozeCount    int
}

// Notifier entrega un recordatorio vencido al canal de notificación.
type Notifier interface {
	NotifyDueReminder(ctx context.Context, rem DueReminder) error
}
