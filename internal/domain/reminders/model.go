package reminders

import "time"

// SnoozeInterval es el corrimiento fijo que aplica cada snooze.
const SnoozeInterval = 10 * time.Minute

// Reminder es el objeto de estado de notificación de una dosis debida.
//
// Máquina de estados: scheduled (inicial) → sent | missed | snoozed →
// acknowledged (terminal). El estado missed no se barre en background: se
// corrige en cada Update contra el reloj (modelo pull).
type Reminder struct {
	ID           string
	MedicationID string

	ScheduledTime time.Time
	Status        Status
	SnoozeCount   int

	CreatedAt time.Time
}
