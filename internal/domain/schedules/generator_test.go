package schedules

import (
	"testing"
)

func TestGenerate_SlotsPerFrequency(t *testing.T) {
	cases := []struct {
		freq  Frequency
		times []string
	}{
		{FrequencyOnceDaily, []string{"09:00:00"}},
		{FrequencyTwiceDaily, []string{"09:00:00", "21:00:00"}},
		{FrequencyThreeTimesDaily, []string{"08:00:00", "14:00:00", "20:00:00"}},
		{FrequencyFourTimesDaily, []string{"06:00:00", "12:00:00", "18:00:00", "22:00:00"}},
		{FrequencyAsNeeded, []string{"09:00:00"}},
	}

	for _, tc := range cases {
		ss := Generate("med-1", GenerateInput{Frequency: tc.freq})
		if len(ss) != len(tc.times) {
			t.Fatalf("%s: expected %d slots, got %d", tc.freq, len(tc.times), len(ss))
		}
		for i, sc := range ss {
			if sc.TimeOfDay != tc.times[i] {
				t.Fatalf("%s: slot %d expected %s, got %s", tc.freq, i, tc.times[i], sc.TimeOfDay)
			}
			if sc.DaysOfWeek != AllDays {
				t.Fatalf("%s: expected all days, got %q", tc.freq, sc.DaysOfWeek)
			}
			if sc.MedicationID != "med-1" {
				t.Fatalf("%s: expected medication id propagated", tc.freq)
			}
			if sc.CustomFrequencyHours != 0 {
				t.Fatalf("%s: expected custom hours 0, got %d", tc.freq, sc.CustomFrequencyHours)
			}
		}
	}
}

func TestGenerate_CustomHours(t *testing.T) {
	hours := 6
	ss := Generate("med-1", GenerateInput{
		Frequency:            FrequencyCustom,
		CustomFrequencyHours: &hours,
	})
	if len(ss) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(ss))
	}
	if ss[0].CustomFrequencyHours != 6 {
		t.Fatalf("expected custom hours 6, got %d", ss[0].CustomFrequencyHours)
	}

	// Sin horas el generador asume ciclo diario.
	ss = Generate("med-1", GenerateInput{Frequency: FrequencyEveryFewHours})
	if len(ss) != 1 || ss[0].CustomFrequencyHours != 24 {
		t.Fatalf("expected default 24h cycle, got %#v", ss)
	}
}

func TestGenerate_WeeklyDefaultsToMonday(t *testing.T) {
	ss := Generate("med-1", GenerateInput{Frequency: FrequencyWeekly})
	if len(ss) != 1 || ss[0].DaysOfWeek != "Monday" {
		t.Fatalf("expected single Monday slot, got %#v", ss)
	}

	ss = Generate("med-1", GenerateInput{Frequency: FrequencyWeekly, DaysOfWeek: "Friday"})
	if len(ss) != 1 || ss[0].DaysOfWeek != "Friday" {
		t.Fatalf("expected Friday slot, got %#v", ss)
	}
}

func TestGenerate_MonthlyDefaultsToFirst(t *testing.T) {
	ss := Generate("med-1", GenerateInput{Frequency: FrequencyMonthly})
	if len(ss) != 1 || ss[0].DaysOfWeek != "1" {
		t.Fatalf("expected day-of-month 1, got %#v", ss)
	}

	day := 15
	ss = Generate("med-1", GenerateInput{Frequency: FrequencyMonthly, MonthlyDay: &day})
	if len(ss) != 1 || ss[0].DaysOfWeek != "15" {
		t.Fatalf("expected day-of-month 15, got %#v", ss)
	}
}

func TestGenerate_UnknownFrequency(t *testing.T) {
	if ss := Generate("med-1", GenerateInput{Frequency: Frequency("hourly")}); ss != nil {
		t.Fatalf("expected nil for unknown frequency, got %#v", ss)
	}
}
