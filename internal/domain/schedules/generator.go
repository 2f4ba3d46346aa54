package schedules

import (
	"strconv"
	"strings"
)

// GenerateInput son los parámetros de frecuencia de la medicación.
// Generate asume inputs ya validados; la validación es responsabilidad
// del orquestador de medicaciones, no de esta función.
type GenerateInput struct {
	Frequency            Frequency
	CustomFrequencyHours *int
	DaysOfWeek           string
	MonthlyDay           *int
}

// Generate convierte una frecuencia en su lista de horarios (aún sin
// persistir: sin ID, sin timestamps). Es una tabla determinística, no
// política configurable.
func Generate(medicationID string, in GenerateInput) []Schedule {
	slot := func(timeOfDay, days string, customHours int) Schedule {
		return Schedule{
			MedicationID:         medicationID,
			Frequency:            in.Frequency,
			TimeOfDay:            timeOfDay,
			DaysOfWeek:           days,
			CustomFrequencyHours: customHours,
		}
	}

	switch in.Frequency {
	case FrequencyOnceDaily:
		return []Schedule{slot("09:00:00", AllDays, 0)}

	case FrequencyTwiceDaily:
		return []Schedule{
			slot("09:00:00", AllDays, 0),
			slot("21:00:00", AllDays, 0),
		}

	case FrequencyThreeTimesDaily:
		return []Schedule{
			slot("08:00:00", AllDays, 0),
			slot("14:00:00", AllDays, 0),
			slot("20:00:00", AllDays, 0),
		}

	case FrequencyFourTimesDaily:
		return []Schedule{
			slot("06:00:00", AllDays, 0),
			slot("12:00:00", AllDays, 0),
			slot("18:00:00", AllDays, 0),
			slot("22:00:00", AllDays, 0),
		}

	case FrequencyEveryFewHours, FrequencyCustom:
		hours := 24
		if in.CustomFrequencyHours != nil {
			hours = *in.CustomFrequencyHours
		}
		return []Schedule{slot("09:00:00", AllDays, hours)}

	case FrequencyWeekly:
		day := strings.TrimSpace(in.DaysOfWeek)
		if day == "" {
			day = "Monday"
		}
		return []Schedule{slot("09:00:00", day, 0)}

	case FrequencyMonthly:
		day := "1"
		if in.MonthlyDay != nil {
			day = strconv.Itoa(*in.MonthlyDay)
		}
		return []Schedule{slot("09:00:00", day, 0)}

	case FrequencyAsNeeded:
		// Slot nominal, solo informativo: no hay recurrencia exigida.
		return []Schedule{slot("09:00:00", AllDays, 0)}

	default:
		return nil
	}
}
