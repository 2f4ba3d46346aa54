package prescriptions

import (
	"context"
	"errors"
	"fmt"
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
	MedicationID       string
	PrescriptionNumber string
	PrescriberName     string
	PrescriberContact  string
	PharmacyName       string
	PharmacyContact    string
	IssueDate          time.Time
	ExpiryDate         time.Time
	Notes              string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Prescription, error) {
	if strings.TrimSpace(in.MedicationID) == "" {
		return Prescription{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PrescriptionNumber) == "" {
		return Prescription{}, fmt.Errorf("%w: prescription number is required", ErrInvalidInput)
	}
	if in.IssueDate.IsZero() || in.ExpiryDate.IsZero() {
		return Prescription{}, fmt.Errorf("%w: issue and expiry dates are required", ErrInvalidInput)
	}
	if in.ExpiryDate.Before(in.IssueDate) {
		return Prescription{}, fmt.Errorf("%w: expiry date before issue date", ErrInvalidInput)
	}

	now := s.now()
	p := Prescription{
		ID:                 uuid.NewString(),
		MedicationID:       in.MedicationID,
		PrescriptionNumber: strings.TrimSpace(in.PrescriptionNumber),
		PrescriberName:     strings.TrimSpace(in.PrescriberName),
		PrescriberContact:  strings.TrimSpace(in.PrescriberContact),
		PharmacyName:       strings.TrimSpace(in.PharmacyName),
		PharmacyContact:    strings.TrimSpace(in.PharmacyContact),
		IssueDate:          in.IssueDate,
		ExpiryDate:         in.ExpiryDate,
		Status:             StatusActive,
		Notes:              strings.TrimSpace(in.Notes),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Prescription{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Prescription{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByMedication(ctx context.Context, medicationID string) ([]Prescription, error) {
	return s.repo.ListByMedication(ctx, medicationID)
}

// ListExpiringSoon devuelve recetas cuyo vencimiento cae en [now, now+days].
func (s *Service) ListExpiringSoon(ctx context.Context, days int) ([]Prescription, error) {
	if days <= 0 {
		return nil, ErrInvalidInput
	}
	now := s.now()
	return s.repo.ListExpiring(ctx, now, now.AddDate(0, 0, days))
}

type UpdateInput struct {
	PrescriptionNumber *string
	PrescriberName     *string
	PrescriberContact  *string
	PharmacyName       *string
	PharmacyContact    *string
	ExpiryDate         *time.Time
	Status             *Status
	Notes              *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Prescription, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Prescription{}, err
	}

	if in.PrescriptionNumber != nil {
		if strings.TrimSpace(*in.PrescriptionNumber) == "" {
			return Prescription{}, ErrInvalidInput
		}
		p.PrescriptionNumber = strings.TrimSpace(*in.PrescriptionNumber)
	}
	if in.PrescriberName != nil {
		p.PrescriberName = strings.TrimSpace(*in.PrescriberName)
	}
	if in.PrescriberContact != nil {
		p.PrescriberContact = strings.TrimSpace(*in.PrescriberContact)
	}
	if in.PharmacyName != nil {
		p.PharmacyName = strings.TrimSpace(*in.PharmacyName)
	}
	if in.PharmacyContact != nil {
		p.PharmacyContact = strings.TrimSpace(*in.PharmacyContact)
	}
	if in.ExpiryDate != nil {
		if in.ExpiryDate.IsZero() || in.ExpiryDate.Before(p.IssueDate) {
			return Prescription{}, ErrInvalidInput
		}
		p.ExpiryDate = *in.ExpiryDate
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return Prescription{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, string(*in.Status))
		}
		p.Status = *in.Status
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Prescription{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
