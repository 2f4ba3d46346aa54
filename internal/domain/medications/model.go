package medications

import (
	"time"

	"medication-tracker/internal/domain/schedules"
)

// DosageUnit define las unidades de dosis soportadas.
// @Enum mg, g, ml, tablet, capsule, drop, other
type DosageUnit string

const (
	UnitMilligram  DosageUnit = "mg"
	UnitGram       DosageUnit = "g"
	UnitMilliliter DosageUnit = "ml"
	UnitTablet     DosageUnit = "tablet"
	UnitCapsule    DosageUnit = "capsule"
	UnitDrop       DosageUnit = "drop"
	UnitOther      DosageUnit = "other"
)

func (u DosageUnit) IsValid() bool {
	switch u {
	case UnitMilligram, UnitGram, UnitMilliliter, UnitTablet, UnitCapsule, UnitDrop, UnitOther:
		return true
	default:
		return false
	}
}

// Status define el estado de la medicación.
// @Enum active, discontinued
type Status string

const (
	StatusActive       Status = "active"
	StatusDiscontinued Status = "discontinued"
)

// Medication representa una medicación prescrita a un usuario.
// Es dueña de cero o más Schedules; si tiene frecuencia, al terminar
// la creación debe poseer al menos uno.
type Medication struct {
	ID          string
	OwnerUserID string

	Name        string
	GenericName string

	Dosage     float64
	DosageUnit DosageUnit

	// Parámetros de frecuencia. Frequency es opcional ("" = sin horarios).
	Frequency            schedules.Frequency
	CustomFrequencyHours *int
	DaysOfWeek           string
	MonthlyDay           *int

	Status    Status
	StartDate time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
