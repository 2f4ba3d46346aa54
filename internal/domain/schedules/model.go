package schedules

import "time"

// AllDays es el patrón de días para frecuencias diarias.
const AllDays = "Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday"

// Schedule representa un horario concreto derivado de la frecuencia
// de una medicación: hora del día + patrón de días.
//
// TimeOfDay se persiste como "HH:mm:ss".
// DaysOfWeek es una lista de días separada por comas ("Monday,Tuesday,...")
// o, para frecuencia monthly, un día del mes en texto ("1".."31").
// CustomFrequencyHours es 0 cuando no aplica (nunca null, simplifica la
// aritmética de los consumidores).
type Schedule struct {
	ID           string
	MedicationID string

	Frequency  Frequency
	TimeOfDay  string
	DaysOfWeek string

	CustomFrequencyHours int

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
