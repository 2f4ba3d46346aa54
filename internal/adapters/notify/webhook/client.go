package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medication-tracker/internal/platform/httpclient"
	"medication-tracker/internal/ports/notify"
)

var (
	ErrWebhookNotConfigured = errors.New("reminder webhook not configured")
)

// Notifier implementa notify.Notifier posteando el recordatorio debido a un
// webhook externo (la capa de notificaciones de la UI, fuera de este core).
type Notifier struct {
	client *httpclient.Client
}

// New crea el notifier. baseURL apunta al receptor de notificaciones.
func New(baseURL string, timeout time.Duration) (*Notifier, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrWebhookNotConfigured
	}
	client, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Notifier{client: client}, nil
}

type duePayload struct {
	ReminderID     string    `json:"reminder_id"`
	MedicationID   string    `json:"medication_id"`
	MedicationName string    `json:"medication_name,omitempty"`
	ScheduledTime  time.Time `json:"scheduled_time"`
	SnoozeCount    int       `json:"snooze_count"`
}

func (n *Notifier) NotifyDueReminder(ctx context.Context, rem notify.DueReminder) error {
	if n == nil || n.client == nil {
		return ErrWebhookNotConfigured
	}

	payload := duePayload{
		ReminderID:     rem.ReminderID,
		MedicationID:   rem.MedicationID,
		MedicationName: rem.MedicationName,
		ScheduledTime:  rem.ScheduledTime,
		SnoozeCount:    rem.SnoozeCount,
	}

	if err := n.client.DoJSON(ctx, http.MethodPost, "/reminders/due", nil, payload, nil); err != nil {
		return fmt.Errorf("webhook notify failed: %w", err)
	}
	return nil
}
