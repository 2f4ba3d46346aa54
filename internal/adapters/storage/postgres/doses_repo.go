package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medication-tracker/internal/domain/doses"
)

type DosesRepo struct {
	db *sql.DB
}

func NewDosesRepo(db *sql.DB) *DosesRepo {
	return &DosesRepo{db: db}
}

const doseColumns = `
	id, medication_id, owner_user_id,
	scheduled_time, is_taken, is_missed, taken_at,
	created_at
`

func (r *DosesRepo) Create(ctx context.Context, d doses.Dose) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medication_doses (`+doseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		d.ID,
		d.MedicationID,
		d.OwnerUserID,
		d.ScheduledTime,
		d.IsTaken,
		d.IsMissed,
		d.TakenAt,
		d.CreatedAt,
	)
	return err
}

func (r *DosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return doses.Dose{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+doseColumns+`
		FROM medication_doses
		WHERE id = $1
	`, id)

	d, err := scanDose(row)
	if err == sql.ErrNoRows {
		return doses.Dose{}, ErrNotFound
	}
	return d, err
}

func (r *DosesRepo) ListForUserInRange(ctx context.Context, ownerUserID string, from, to time.Time) ([]doses.Dose, error) {
	return r.query(ctx, `
		SELECT `+doseColumns+`
		FROM medication_doses
		WHERE owner_user_id = $1
		  AND scheduled_time >= $2
		  AND scheduled_time < $3
		ORDER BY scheduled_time
	`, ownerUserID, from, to)
}

func (r *DosesRepo) ListMissed(ctx context.Context, ownerUserID string, now time.Time) ([]doses.Dose, error) {
	return r.query(ctx, `
		SELECT `+doseColumns+`
		FROM medication_doses
		WHERE owner_user_id = $1
		  AND is_taken = FALSE
		  AND scheduled_time < $2
		ORDER BY scheduled_time
	`, ownerUserID, now)
}

func (r *DosesRepo) ListByMedication(ctx context.Context, medicationID string) ([]doses.Dose, error) {
	return r.query(ctx, `
		SELECT `+doseColumns+`
		FROM medication_doses
		WHERE medication_id = $1
		ORDER BY scheduled_time
	`, medicationID)
}

func (r *DosesRepo) Update(ctx context.Context, d doses.Dose) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medication_doses
		SET scheduled_time = $2,
		    is_taken = $3,
		    is_missed = $4,
		    taken_at = $5
		WHERE id = $1
	`,
		d.ID,
		d.ScheduledTime,
		d.IsTaken,
		d.IsMissed,
		d.TakenAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DosesRepo) query(ctx context.Context, q string, args ...any) ([]doses.Dose, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]doses.Dose, 0)
	for rows.Next() {
		d, err := scanDose(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDose(row rowScanner) (doses.Dose, error) {
	var d doses.Dose
	var takenAt sql.NullTime

	if err := row.Scan(
		&d.ID,
		&d.MedicationID,
		&d.OwnerUserID,
		&d.ScheduledTime,
		&d.IsTaken,
		&d.IsMissed,
		&takenAt,
		&d.CreatedAt,
	); err != nil {
		return doses.Dose{}, err
	}

	if takenAt.Valid {
		t := takenAt.Time
		d.TakenAt = &t
	}
	return d, nil
}
