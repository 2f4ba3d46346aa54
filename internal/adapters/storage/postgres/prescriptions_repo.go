package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medication-tracker/internal/domain/prescriptions"
)

type PrescriptionsRepo struct {
	db *sql.DB
}

func NewPrescriptionsRepo(db *sql.DB) *PrescriptionsRepo {
	return &PrescriptionsRepo{db: db}
}

const prescriptionColumns = `
	id, medication_id,
	prescription_number,
	prescriber_name, prescriber_contact,
	pharmacy_name, pharmacy_contact,
	issue_date, expiry_date,
	status, notes,
	created_at, updated_at
`

func (r *PrescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prescriptions (`+prescriptionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.MedicationID,
		p.PrescriptionNumber,
		p.PrescriberName,
		p.PrescriberContact,
		p.PharmacyName,
		p.PharmacyContact,
		p.IssueDate,
		p.ExpiryDate,
		string(p.Status),
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PrescriptionsRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return prescriptions.Prescription{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE id = $1
	`, id)

	p, err := scanPrescription(row)
	if err == sql.ErrNoRows {
		return prescriptions.Prescription{}, ErrNotFound
	}
	return p, err
}

func (r *PrescriptionsRepo) ListByMedication(ctx context.Context, medicationID string) ([]prescriptions.Prescription, error) {
	return r.query(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE medication_id = $1
		ORDER BY expiry_date
	`, medicationID)
}

func (r *PrescriptionsRepo) ListExpiring(ctx context.Context, from, to time.Time) ([]prescriptions.Prescription, error) {
	return r.query(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE expiry_date >= $1 AND expiry_date <= $2
		ORDER BY expiry_date
	`, from, to)
}

func (r *PrescriptionsRepo) Update(ctx context.Context, p prescriptions.Prescription) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE prescriptions
		SET prescription_number = $2,
		    prescriber_name = $3,
		    prescriber_contact = $4,
		    pharmacy_name = $5,
		    pharmacy_contact = $6,
		    expiry_date = $7,
		    status = $8,
		    notes = $9,
		    updated_at = $10
		WHERE id = $1
	`,
		p.ID,
		p.PrescriptionNumber,
		p.PrescriberName,
		p.PrescriberContact,
		p.PharmacyName,
		p.PharmacyContact,
		p.ExpiryDate,
		string(p.Status),
		p.Notes,
		p.UpdatedAt,
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

func (r *PrescriptionsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM prescriptions
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

func (r *PrescriptionsRepo) query(ctx context.Context, q string, args ...any) ([]prescriptions.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]prescriptions.Prescription, 0)
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPrescription(row rowScanner) (prescriptions.Prescription, error) {
	var p prescriptions.Prescription
	var status string

	if err := row.Scan(
		&p.ID,
		&p.MedicationID,
		&p.PrescriptionNumber,
		&p.PrescriberName,
		&p.PrescriberContact,
		&p.PharmacyName,
		&p.PharmacyContact,
		&p.IssueDate,
		&p.ExpiryDate,
		&status,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return prescriptions.Prescription{}, err
	}

	p.Status = prescriptions.Status(status)
	return p, nil
}
