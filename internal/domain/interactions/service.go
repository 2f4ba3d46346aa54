package interactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medication-tracker/internal/domain/medications"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// MedicationLookup resuelve una medicación por id (lo satisface
// medications.Service). Interface angosta para no acoplar más de lo usado.
type MedicationLookup interface {
	GetByID(ctx context.Context, id string) (medications.Medication, error)
}

type Service struct {
	repo Repository
	meds MedicationLookup
	now  func() time.Time
}

func NewService(repo Repository, meds MedicationLookup) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
	}
}

// Check devuelve todas las interacciones conocidas relevantes al set de
// medicaciones dado, incluyendo los cruces por nombre entre miembros del set.
//
// Limitación conocida (heredada a propósito): el cruce matchea solo igualdad
// exacta case-insensitive contra name/genericName; marca vs. genérico con
// nombres distintos produce falsos negativos.
func (s *Service) Check(ctx context.Context, medicationIDs []string) ([]Interaction, error) {
	// Una interacción es inherentemente relacional: con menos de 2 ids no
	// hay nada que chequear.
	if len(medicationIDs) < 2 {
		return []Interaction{}, nil
	}

	seen := make(map[string]bool)
	out := make([]Interaction, 0)

	add := func(in Interaction) {
		if seen[in.ID] {
			return
		}
		seen[in.ID] = true
		out = append(out, in)
	}

	// 1) Set directo: todo registro adjunto a cualquiera de los ids.
	for _, id := range medicationIDs {
		recs, err := s.repo.ListByMedication(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			add(rec)
		}
	}

	// 2) Resolver ids a medicaciones; los que no resuelven se saltan sin error.
	resolved := make([]medications.Medication, 0, len(medicationIDs))
	for _, id := range medicationIDs {
		m, err := s.meds.GetByID(ctx, id)
		if err != nil {
			continue
		}
		resolved = append(resolved, m)
	}

	// 3) Set cruzado: registros cuyo interactingDrugName coincide
	//    (case-insensitive) con el name/genericName de OTRA medicación del set.
	for _, m := range resolved {
		recs, err := s.repo.ListByMedication(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			for _, other := range resolved {
				if other.ID == m.ID {
					continue
				}
				if matchesName(rec.InteractingDrugName, other) {
					add(rec)
					break
				}
			}
		}
	}

	// 4) Unión deduplicada por identidad (add ya la garantiza).
	return out, nil
}

func matchesName(drugName string, m medications.Medication) bool {
	drugName = strings.TrimSpace(drugName)
	if drugName == "" {
		return false
	}
	if strings.EqualFold(drugName, m.Name) {
		return true
	}
	return m.GenericName != "" && strings.EqualFold(drugName, m.GenericName)
}

type RecordInput struct {
	MedicationID        string
	InteractingDrugName string
	Severity            string
	Description         string
}

// Record da de alta un registro de referencia para una medicación.
func (s *Service) Record(ctx context.Context, in RecordInput) (Interaction, error) {
	if strings.TrimSpace(in.MedicationID) == "" {
		return Interaction{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.InteractingDrugName) == "" {
		return Interaction{}, fmt.Errorf("%w: interacting drug name is required", ErrInvalidInput)
	}
	sev := Severity(strings.TrimSpace(in.Severity))
	if !sev.IsValid() {
		return Interaction{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, in.Severity)
	}

	rec := Interaction{
		ID:                  uuid.NewString(),
		MedicationID:        in.MedicationID,
		InteractingDrugName: strings.TrimSpace(in.InteractingDrugName),
		Severity:            sev,
		Description:         strings.TrimSpace(in.Description),
		DetectedAt:          s.now(),
		IsAcknowledged:      false,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return Interaction{}, err
	}
	return rec, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Interaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Interaction{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByMedication(ctx context.Context, medicationID string) ([]Interaction, error) {
	return s.repo.ListByMedication(ctx, medicationID)
}

func (s *Service) Acknowledge(ctx context.Context, id string) (Interaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Interaction{}, ErrInvalidInput
	}
	if err := s.repo.Acknowledge(ctx, id); err != nil {
		return Interaction{}, err
	}
	return s.repo.GetByID(ctx, id)
}
