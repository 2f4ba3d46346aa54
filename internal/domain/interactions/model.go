package interactions

import "time"

// Severity define la severidad clínica de una interacción.
// @Enum minor, moderate, major, contraindicated
type Severity string

const (
	SeverityMinor           Severity = "minor"
	SeverityModerate        Severity = "moderate"
	SeverityMajor           Severity = "major"
	SeverityContraindicated Severity = "contraindicated"
)

func (sv Severity) IsValid() bool {
	switch sv {
	case SeverityMinor, SeverityModerate, SeverityMajor, SeverityContraindicated:
		return true
	default:
		return false
	}
}

// Interaction es un registro de referencia: la medicación a la que está
// adjunto interactúa con la droga nombrada en InteractingDrugName.
// Se consulta en modo solo-lectura al chequear el set activo de un usuario.
type Interaction struct {
	ID           string
	MedicationID string

	InteractingDrugName string
	Severity            Severity
	Description         string

	DetectedAt     time.Time
	IsAcknowledged bool
}
