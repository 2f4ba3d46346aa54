package schedules

// Frequency define las cadencias de dosificación soportadas.
// @Enum once_daily, twice_daily, three_times_daily, four_times_daily, every_few_hours, custom, as_needed, weekly, monthly
type Frequency string

const (
	FrequencyOnceDaily       Frequency = "once_daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
	FrequencyFourTimesDaily  Frequency = "four_times_daily"
	FrequencyEveryFewHours   Frequency = "every_few_hours"
	FrequencyCustom          Frequency = "custom"
	FrequencyAsNeeded        Frequency = "as_needed"
	FrequencyWeekly          Frequency = "weekly"
	FrequencyMonthly         Frequency = "monthly"
)

// IsValid indica si el valor pertenece al enum.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyOnceDaily, FrequencyTwiceDaily, FrequencyThreeTimesDaily,
		FrequencyFourTimesDaily, FrequencyEveryFewHours, FrequencyCustom,
		FrequencyAsNeeded, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// RequiresCustomHours indica si la frecuencia exige customFrequencyHours > 0.
func (f Frequency) RequiresCustomHours() bool {
	return f == FrequencyCustom || f == FrequencyEveryFewHours
}
