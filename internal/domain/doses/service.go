package doses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	MedicationID  string
	OwnerUserID   string
	ScheduledTime time.Time
}

// Create registra una ocurrencia pendiente: arranca con IsTaken=false e
// IsMissed=false aunque ScheduledTime ya esté en el pasado; el estado missed
// se deriva recién en la próxima lectura/actualización.
func (s *Service) Create(ctx context.Context, in CreateInput) (Dose, error) {
	if strings.TrimSpace(in.MedicationID) == "" {
		return Dose{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.OwnerUserID) == "" {
		return Dose{}, ErrInvalidInput
	}
	if in.ScheduledTime.IsZero() {
		return Dose{}, ErrInvalidInput
	}

	d := Dose{
		ID:            uuid.NewString(),
		MedicationID:  in.MedicationID,
		OwnerUserID:   in.OwnerUserID,
		ScheduledTime: in.ScheduledTime,
		IsTaken:       false,
		IsMissed:      false,
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dose{}, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dose{}, ErrInvalidInput
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Dose{}, err
	}
	return s.withDerivedMissed(d), nil
}

// ListToday devuelve las dosis del usuario con ScheduledTime dentro del día
// calendario de hoy ([00:00, 24:00) en hora local del servidor).
func (s *Service) ListToday(ctx context.Context, ownerUserID string) ([]Dose, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	out, err := s.repo.ListForUserInRange(ctx, ownerUserID, start, end)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = s.withDerivedMissed(out[i])
	}
	return out, nil
}

func (s *Service) ListMissed(ctx context.Context, ownerUserID string) ([]Dose, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	out, err := s.repo.ListMissed(ctx, ownerUserID, s.now())
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].IsMissed = true
	}
	return out, nil
}

func (s *Service) ListByMedication(ctx context.Context, medicationID string) ([]Dose, error) {
	out, err := s.repo.ListByMedication(ctx, medicationID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = s.withDerivedMissed(out[i])
	}
	return out, nil
}

type UpdateInput struct {
	IsTaken       *bool
	TakenAt       *time.Time
	ScheduledTime *time.Time
}

// Update aplica el patch y SIEMPRE recalcula IsMissed contra el reloj,
// aunque el caller no lo haya pedido: un patch vacío sobre una dosis vencida
// la deja marcada missed. Lo persiste.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Dose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dose{}, ErrInvalidInput
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Dose{}, err
	}

	now := s.now()

	if in.ScheduledTime != nil {
		if in.ScheduledTime.IsZero() {
			return Dose{}, ErrInvalidInput
		}
		d.ScheduledTime = *in.ScheduledTime
	}
	if in.IsTaken != nil {
		d.IsTaken = *in.IsTaken
		if d.IsTaken {
			if in.TakenAt != nil {
				d.TakenAt = in.TakenAt
			} else if d.TakenAt == nil {
				t := now
				d.TakenAt = &t
			}
		} else {
			d.TakenAt = nil
		}
	} else if in.TakenAt != nil {
		d.TakenAt = in.TakenAt
	}

	d.IsMissed = !d.IsTaken && d.ScheduledTime.Before(now)

	if err := s.repo.Update(ctx, d); err != nil {
		return Dose{}, err
	}
	return d, nil
}

func (s *Service) withDerivedMissed(d Dose) Dose {
	d.IsMissed = !d.IsTaken && d.ScheduledTime.Before(s.now())
	return d
}
