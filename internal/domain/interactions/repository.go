package interactions

import "context"

type Repository interface {
	Create(ctx context.Context, in Interaction) error
	GetByID(ctx context.Context, id string) (Interaction, error)
	ListByMedication(ctx context.Context, medicationID string) ([]Interaction, error)
	Acknowledge(ctx context.Context, id string) error
}
