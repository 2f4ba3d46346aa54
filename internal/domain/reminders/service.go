package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medication-tracker/internal/ports/notify"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrAlreadyAcknowledged   = errors.New("reminder already acknowledged")
	ErrNotifierNotConfigured = errors.New("reminder notifier not configured")
)

type Service struct {
	repo     Repository
	notifier notify.Notifier // puede ser nil (sin canal de notificación)
	now      func() time.Time
}

func NewService(repo Repository, notifier notify.Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateInput struct {
	MedicationID  string
	ScheduledTime time.Time
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Reminder, error) {
	if strings.TrimSpace(in.MedicationID) == "" {
		return Reminder{}, ErrInvalidInput
	}
	if in.ScheduledTime.IsZero() {
		return Reminder{}, ErrInvalidInput
	}

	rem := Reminder{
		ID:            uuid.NewString(),
		MedicationID:  in.MedicationID,
		ScheduledTime: in.ScheduledTime,
		Status:        StatusScheduled,
		SnoozeCount:   0,
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, rem); err != nil {
		return Reminder{}, err
	}
	return rem, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Reminder{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

type UpdateInput struct {
	ScheduledTime *time.Time
	Status        *Status
}

// Update aplica el patch y después reevalúa contra el reloj:
//   - scheduled con hora vencida → missed
//   - hora futura → scheduled
//
// La corrección temporal corre en CADA update, incluso con patch vacío; los
// callers no deben asumir que Update solo cambia lo pedido. Acknowledged es
// terminal y queda fuera de la reevaluación.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Reminder, error) {
	rem, err := s.GetByID(ctx, id)
	if err != nil {
		return Reminder{}, err
	}

	if in.ScheduledTime != nil {
		if in.ScheduledTime.IsZero() {
			return Reminder{}, ErrInvalidInput
		}
		rem.ScheduledTime = *in.ScheduledTime
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return Reminder{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, string(*in.Status))
		}
		rem.Status = *in.Status
	}

	if rem.Status != StatusAcknowledged {
		now := s.now()
		if rem.Status == StatusScheduled && rem.ScheduledTime.Before(now) {
			rem.Status = StatusMissed
		} else if rem.ScheduledTime.After(now) {
			rem.Status = StatusScheduled
		}
	}

	if err := s.repo.Update(ctx, rem); err != nil {
		return Reminder{}, err
	}
	return rem, nil
}

// Snooze corre el recordatorio 10 minutos: scheduledTime = now+10m,
// status = snoozed, snoozeCount+1. Sin tope de snoozes.
func (s *Service) Snooze(ctx context.Context, id string) (Reminder, error) {
	rem, err := s.GetByID(ctx, id)
	if err != nil {
		return Reminder{}, err
	}
	if rem.Status == StatusAcknowledged {
		return Reminder{}, ErrAlreadyAcknowledged
	}

	rem.ScheduledTime = s.now().Add(SnoozeInterval)
	rem.Status = StatusSnoozed
	rem.SnoozeCount++

	if err := s.repo.Update(ctx, rem); err != nil {
		return Reminder{}, err
	}
	return rem, nil
}

// Acknowledge marca el recordatorio como resuelto por el usuario (terminal).
func (s *Service) Acknowledge(ctx context.Context, id string) (Reminder, error) {
	rem, err := s.GetByID(ctx, id)
	if err != nil {
		return Reminder{}, err
	}

	rem.Status = StatusAcknowledged

	if err := s.repo.Update(ctx, rem); err != nil {
		return Reminder{}, err
	}
	return rem, nil
}

// ListPending devuelve los recordatorios debidos ahora y sin resolver.
func (s *Service) ListPending(ctx context.Context) ([]Reminder, error) {
	return s.repo.ListDue(ctx, s.now())
}

func (s *Service) ListUpcoming(ctx context.Context, before time.Time) ([]Reminder, error) {
	now := s.now()
	if !before.After(now) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListUpcoming(ctx, now, before)
}

func (s *Service) ListMissed(ctx context.Context) ([]Reminder, error) {
	return s.repo.ListByStatus(ctx, StatusMissed)
}

func (s *Service) ListByMedication(ctx context.Context, medicationID string) ([]Reminder, error) {
	return s.repo.ListByMedication(ctx, medicationID)
}

func (s *Service) ListByStatus(ctx context.Context, st Status) ([]Reminder, error) {
	if !st.IsValid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByStatus(ctx, st)
}

// MedicationNamer resuelve el nombre a mostrar de una medicación.
type MedicationNamer interface {
	NameOf(ctx context.Context, medicationID string) (string, error)
}

// DispatchDue empuja cada recordatorio debido por el canal de notificación y
// lo marca como sent. Se dispara por demanda (endpoint / cron externo); no
// hay scheduler persistente. Devuelve cuántos se despacharon; un fallo de
// entrega deja ese recordatorio como estaba y sigue con el resto.
func (s *Service) DispatchDue(ctx context.Context, namer MedicationNamer) (int, error) {
	if s.notifier == nil {
		return 0, ErrNotifierNotConfigured
	}

	due, err := s.repo.ListDue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, rem := range due {
		name := ""
		if namer != nil {
			if n, err := namer.NameOf(ctx, rem.MedicationID); err == nil {
				name = n
			}
		}

		err := s.notifier.NotifyDueReminder(ctx, notify.DueReminder{
			ReminderID:     rem.ID,
			MedicationID:   rem.MedicationID,
			MedicationName: name,
			ScheduledTime:  rem.ScheduledTime,
			SnoozeCount:    rem.SnoozeCount,
		})
		if err != nil {
			continue
		}

		rem.Status = StatusSent
		if err := s.repo.Update(ctx, rem); err != nil {
			return sent, err
		}
		sent++
	}

	return sent, nil
}
