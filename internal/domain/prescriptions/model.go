package prescriptions

import "time"

// Status define el estado administrativo de la receta.
// @Enum active, expired, cancelled
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func (st Status) IsValid() bool {
	switch st {
	case StatusActive, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// Prescription es el registro administrativo (emisor, farmacia, vencimiento)
// asociado a una medicación. Alimenta alertas de vencimiento/renovación como
// señal externa; no participa de la máquina de estados de recordatorios.
type Prescription struct {
	ID           string
	MedicationID string

	PrescriptionNumber string
	PrescriberName     string
	PrescriberContact  string
	PharmacyName       string
	PharmacyContact    string

	IssueDate  time.Time
	ExpiryDate time.Time

	Status Status
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
