package doses

import "time"

// Dose representa una ocurrencia concreta de un slot de horario: la toma
// esperada de una medicación en un momento puntual.
//
// IsMissed es estado derivado: !IsTaken && ScheduledTime < now. Se recalcula
// de forma perezosa en cada lectura/actualización; no hay barrido en
// background, la frescura depende de la frecuencia de consulta del cliente.
type Dose struct {
	ID           string
	MedicationID string
	OwnerUserID  string

	ScheduledTime time.Time

	IsTaken  bool
	IsMissed bool
	TakenAt  *time.Time

	CreatedAt time.Time
}
