package reminders

// Status define los estados del recordatorio.
// @Enum scheduled, sent, snoozed, missed, acknowledged
type Status string

const (
	StatusScheduled    Status = "scheduled"
	StatusSent         Status = "sent"
	StatusSnoozed      Status = "snoozed"
	StatusMissed       Status = "missed"
	StatusAcknowledged Status = "acknowledged" // terminal
)

func (st Status) IsValid() bool {
	switch st {
	case StatusScheduled, StatusSent, StatusSnoozed, StatusMissed, StatusAcknowledged:
		return true
	default:
		return false
	}
}
