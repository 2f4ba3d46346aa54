package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medication-tracker/internal/domain/medications"
	"medication-tracker/internal/domain/schedules"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

// CreateWithSchedules escribe medicación + horarios dentro de una transacción:
// cualquier fallo revierte todas las filas de esta llamada.
func (r *MedicationsRepo) CreateWithSchedules(ctx context.Context, m medications.Medication, ss []schedules.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO medications (
			id, owner_user_id,
			name, generic_name,
			dosage, dosage_unit,
			frequency, custom_frequency_hours, days_of_week, monthly_day,
			status, start_date,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		m.GenericName,
		m.Dosage,
		string(m.DosageUnit),
		nullString(string(m.Frequency)),
		m.CustomFrequencyHours,
		m.DaysOfWeek,
		m.MonthlyDay,
		string(m.Status),
		m.StartDate,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, sc := range ss {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO medication_schedules (
				id, medication_id,
				frequency, time_of_day, days_of_week,
				custom_frequency_hours, is_active,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
			sc.ID,
			sc.MedicationID,
			string(sc.Frequency),
			sc.TimeOfDay,
			sc.DaysOfWeek,
			sc.CustomFrequencyHours,
			sc.IsActive,
			sc.CreatedAt,
			sc.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

const medicationColumns = `
	id, owner_user_id,
	name, generic_name,
	dosage, dosage_unit,
	frequency, custom_frequency_hours, days_of_week, monthly_day,
	status, start_date,
	created_at, updated_at
`

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE id = $1
	`, id)

	m, err := scanMedication(row)
	if err == sql.ErrNoRows {
		return medications.Medication{}, ErrNotFound
	}
	return m, err
}

func (r *MedicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	return r.listOwner(ctx, ownerUserID, false)
}

func (r *MedicationsRepo) ListActiveByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	return r.listOwner(ctx, ownerUserID, true)
}

func (r *MedicationsRepo) listOwner(ctx context.Context, ownerUserID string, activeOnly bool) ([]medications.Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	q := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE owner_user_id = $1
	`
	if activeOnly {
		q += ` AND status = 'active'`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicationsRepo) UpdateStatus(ctx context.Context, id string, status medications.Status, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(status), updatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var unit, status string
	var freq sql.NullString
	var customHours sql.NullInt64
	var monthlyDay sql.NullInt64

	if err := row.Scan(
		&m.ID,
		&m.OwnerUserID,
		&m.Name,
		&m.GenericName,
		&m.Dosage,
		&unit,
		&freq,
		&customHours,
		&m.DaysOfWeek,
		&monthlyDay,
		&status,
		&m.StartDate,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	m.DosageUnit = medications.DosageUnit(unit)
	m.Status = medications.Status(status)
	if freq.Valid {
		m.Frequency = schedules.Frequency(freq.String)
	}
	if customHours.Valid {
		h := int(customHours.Int64)
		m.CustomFrequencyHours = &h
	}
	if monthlyDay.Valid {
		d := int(monthlyDay.Int64)
		m.MonthlyDay = &d
	}
	return m, nil
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
