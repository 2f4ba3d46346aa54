package medications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medication-tracker/internal/domain/schedules"
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
	Name        string
	GenericName string
	Dosage      float64
	DosageUnit  string

	Frequency            string // opcional; "" = sin horarios
	CustomFrequencyHours *int
	DaysOfWeek           string
	MonthlyDay           *int

	StartDate *time.Time
}

// CreateResult es la salida del caso de uso "crear medicación".
type CreateResult struct {
	Medication  Medication
	ScheduleIDs []string
}

// Create valida los parámetros de frecuencia, persiste la medicación, genera
// sus horarios y los persiste, todo como una transacción lógica: ante
// cualquier fallo no queda ninguna fila escrita.
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (CreateResult, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return CreateResult{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return CreateResult{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Dosage <= 0 {
		return CreateResult{}, fmt.Errorf("%w: dosage must be positive", ErrInvalidInput)
	}
	unit := DosageUnit(strings.TrimSpace(in.DosageUnit))
	if !unit.IsValid() {
		return CreateResult{}, fmt.Errorf("%w: unknown dosage unit %q", ErrInvalidInput, in.DosageUnit)
	}

	freq := schedules.Frequency(strings.TrimSpace(in.Frequency))
	if freq != "" {
		if err := validateFrequencyParams(freq, in); err != nil {
			return CreateResult{}, err
		}
	}

	now := s.now()
	start := now
	if in.StartDate != nil {
		start = *in.StartDate
	}

	m := Medication{
		ID:                   uuid.NewString(),
		OwnerUserID:          ownerUserID,
		Name:                 strings.TrimSpace(in.Name),
		GenericName:          strings.TrimSpace(in.GenericName),
		Dosage:               in.Dosage,
		DosageUnit:           unit,
		Frequency:            freq,
		CustomFrequencyHours: in.CustomFrequencyHours,
		DaysOfWeek:           strings.TrimSpace(in.DaysOfWeek),
		MonthlyDay:           in.MonthlyDay,
		Status:               StatusActive,
		StartDate:            start,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	var ss []schedules.Schedule
	if freq != "" {
		ss = schedules.Generate(m.ID, schedules.GenerateInput{
			Frequency:            freq,
			CustomFrequencyHours: in.CustomFrequencyHours,
			DaysOfWeek:           m.DaysOfWeek,
			MonthlyDay:           in.MonthlyDay,
		})
		for i := range ss {
			ss[i].ID = uuid.NewString()
			ss[i].IsActive = true
			ss[i].CreatedAt = now
			ss[i].UpdatedAt = now
		}
	}

	if err := s.repo.CreateWithSchedules(ctx, m, ss); err != nil {
		return CreateResult{}, err
	}

	ids := make([]string, 0, len(ss))
	for _, sc := range ss {
		ids = append(ids, sc.ID)
	}

	return CreateResult{Medication: m, ScheduleIDs: ids}, nil
}

// validateFrequencyParams aplica las invariantes de §frecuencia:
//   - custom / every_few_hours exigen customFrequencyHours entero positivo
//   - monthly, si trae día, debe estar en [1,31]
//
// weekly/monthly sin día no se rechazan: el generador aplica los defaults
// ("Monday" y "1").
func validateFrequencyParams(freq schedules.Frequency, in CreateInput) error {
	if !freq.IsValid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, string(freq))
	}
	if freq.RequiresCustomHours() {
		if in.CustomFrequencyHours == nil || *in.CustomFrequencyHours <= 0 {
			return fmt.Errorf("%w: customFrequencyHours must be a positive integer for frequency %q", ErrInvalidInput, string(freq))
		}
	}
	if freq == schedules.FrequencyMonthly && in.MonthlyDay != nil {
		if *in.MonthlyDay < 1 || *in.MonthlyDay > 31 {
			return fmt.Errorf("%w: monthlyDay must be between 1 and 31", ErrInvalidInput)
		}
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) ListActiveByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	return s.repo.ListActiveByOwner(ctx, ownerUserID)
}

// Discontinue marca la medicación como discontinuada (no borra historial).
func (s *Service) Discontinue(ctx context.Context, id string) (Medication, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}
	if m.Status == StatusDiscontinued {
		return m, nil
	}
	if err := s.repo.UpdateStatus(ctx, m.ID, StatusDiscontinued, s.now()); err != nil {
		return Medication{}, err
	}
	return s.repo.GetByID(ctx, m.ID)
}

// OwnerOf expone el ownerUserID de una medicación.
// Evita ciclos de imports entre módulos que solo necesitan chequear dueño.
func (s *Service) OwnerOf(ctx context.Context, medicationID string) (string, error) {
	m, err := s.GetByID(ctx, medicationID)
	if err != nil {
		return "", err
	}
	return m.OwnerUserID, nil
}

// NameOf expone el nombre a mostrar de una medicación.
func (s *Service) NameOf(ctx context.Context, medicationID string) (string, error) {
	m, err := s.GetByID(ctx, medicationID)
	if err != nil {
		return "", err
	}
	return m.Name, nil
}
