package schedules

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

// Create persiste un horario ya generado. Setea ID, isActive=true y ambos
// timestamps. Los clientes HTTP no crean horarios directamente; llegan aquí
// por el pipeline generador→orquestador.
func (s *Service) Create(ctx context.Context, sc Schedule) (Schedule, error) {
	if strings.TrimSpace(sc.MedicationID) == "" {
		return Schedule{}, ErrInvalidInput
	}
	if !sc.Frequency.IsValid() {
		return Schedule{}, ErrInvalidInput
	}
	if strings.TrimSpace(sc.TimeOfDay) == "" {
		return Schedule{}, ErrInvalidInput
	}

	now := s.now()
	sc.ID = uuid.NewString()
	sc.IsActive = true
	sc.CreatedAt = now
	sc.UpdatedAt = now

	if err := s.repo.Create(ctx, sc); err != nil {
		return Schedule{}, err
	}
	return sc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Schedule{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]Schedule, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) ListByMedication(ctx context.Context, medicationID string) ([]Schedule, error) {
	return s.repo.ListByMedication(ctx, medicationID)
}

func (s *Service) ListByFrequency(ctx context.Context, f Frequency) ([]Schedule, error) {
	if !f.IsValid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByFrequency(ctx, f)
}

func (s *Service) ListInWindow(ctx context.Context, start, end string) ([]Schedule, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListInWindow(ctx, start, end)
}

// UpdateInput aplica cambios parciales; los campos nil se dejan como están.
type UpdateInput struct {
	Frequency            *Frequency
	TimeOfDay            *string
	DaysOfWeek           *string
	CustomFrequencyHours *int
	IsActive             *bool
}

// Update reemplaza frecuencia/hora/patrón/flag y refresca UpdatedAt.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Schedule, error) {
	sc, err := s.GetByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}

	if in.Frequency != nil {
		if !in.Frequency.IsValid() {
			return Schedule{}, ErrInvalidInput
		}
		sc.Frequency = *in.Frequency
	}
	if in.TimeOfDay != nil {
		if strings.TrimSpace(*in.TimeOfDay) == "" {
			return Schedule{}, ErrInvalidInput
		}
		sc.TimeOfDay = strings.TrimSpace(*in.TimeOfDay)
	}
	if in.DaysOfWeek != nil {
		sc.DaysOfWeek = strings.TrimSpace(*in.DaysOfWeek)
	}
	if in.CustomFrequencyHours != nil {
		if *in.CustomFrequencyHours < 0 {
			return Schedule{}, ErrInvalidInput
		}
		sc.CustomFrequencyHours = *in.CustomFrequencyHours
	}
	if in.IsActive != nil {
		sc.IsActive = *in.IsActive
	}

	sc.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sc); err != nil {
		return Schedule{}, err
	}
	return sc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
