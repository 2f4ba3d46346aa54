package postgres

import (
	"context"
	"database/sql"
	"strings"

	"medication-tracker/internal/domain/interactions"
)

type InteractionsRepo struct {
	db *sql.DB
}

func NewInteractionsRepo(db *sql.DB) *InteractionsRepo {
	return &InteractionsRepo{db: db}
}

const interactionColumns = `
	id, medication_id,
	interacting_drug_name, severity, description,
	detected_at, is_acknowledged
`

func (r *InteractionsRepo) Create(ctx context.Context, in interactions.Interaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drug_interactions (`+interactionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		in.ID,
		in.MedicationID,
		in.InteractingDrugName,
		string(in.Severity),
		in.Description,
		in.DetectedAt,
		in.IsAcknowledged,
	)
	return err
}

func (r *InteractionsRepo) GetByID(ctx context.Context, id string) (interactions.Interaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return interactions.Interaction{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+interactionColumns+`
		FROM drug_interactions
		WHERE id = $1
	`, id)

	in, err := scanInteraction(row)
	if err == sql.ErrNoRows {
		return interactions.Interaction{}, ErrNotFound
	}
	return in, err
}

func (r *InteractionsRepo) ListByMedication(ctx context.Context, medicationID string) ([]interactions.Interaction, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+interactionColumns+`
		FROM drug_interactions
		WHERE medication_id = $1
		ORDER BY detected_at
	`, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]interactions.Interaction, 0)
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *InteractionsRepo) Acknowledge(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE drug_interactions
		SET is_acknowledged = TRUE
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanInteraction(row rowScanner) (interactions.Interaction, error) {
	var in interactions.Interaction
	var severity string

	if err := row.Scan(
		&in.ID,
		&in.MedicationID,
		&in.InteractingDrugName,
		&severity,
		&in.Description,
		&in.DetectedAt,
		&in.IsAcknowledged,
	); err != nil {
		return interactions.Interaction{}, err
	}

	in.Severity = interactions.Severity(severity)
	return in, nil
}
