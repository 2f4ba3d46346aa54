package postgres

import (
	"context"
	"database/sql"
	"strings"

	"medication-tracker/internal/domain/schedules"
)

type SchedulesRepo struct {
	db *sql.DB
}

func NewSchedulesRepo(db *sql.DB) *SchedulesRepo {
	return &SchedulesRepo{db: db}
}

const scheduleColumns = `
	id, medication_id,
	frequency, time_of_day, days_of_week,
	custom_frequency_hours, is_active,
	created_at, updated_at
`

func (r *SchedulesRepo) Create(ctx context.Context, sc schedules.Schedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medication_schedules (`+scheduleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
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
	return err
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return schedules.Schedule{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM medication_schedules
		WHERE id = $1
	`, id)

	sc, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return schedules.Schedule{}, ErrNotFound
	}
	return sc, err
}

func (r *SchedulesRepo) ListActive(ctx context.Context) ([]schedules.Schedule, error) {
	return r.query(ctx, `
		SELECT `+scheduleColumns+`
		FROM medication_schedules
		WHERE is_active = TRUE
		ORDER BY time_of_day, id
	`)
}

func (r *SchedulesRepo) ListByMedication(ctx context.Context, medicationID string) ([]schedules.Schedule, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, nil
	}
	return r.query(ctx, `
		SELECT `+scheduleColumns+`
		FROM medication_schedules
		WHERE medication_id = $1
		ORDER BY time_of_day, id
	`, medicationID)
}

func (r *SchedulesRepo) ListByFrequency(ctx context.Context, f schedules.Frequency) ([]schedules.Schedule, error) {
	return r.query(ctx, `
		SELECT `+scheduleColumns+`
		FROM medication_schedules
		WHERE frequency = $1
		ORDER BY time_of_day, id
	`, string(f))
}

func (r *SchedulesRepo) ListInWindow(ctx context.Context, start, end string) ([]schedules.Schedule, error) {
	// time_of_day es texto "HH:mm:ss"; el orden lexicográfico coincide con el horario.
	return r.query(ctx, `
		SELECT `+scheduleColumns+`
		FROM medication_schedules
		WHERE time_of_day >= $1 AND time_of_day < $2
		ORDER BY time_of_day, id
	`, start, end)
}

func (r *SchedulesRepo) Update(ctx context.Context, sc schedules.Schedule) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medication_schedules
		SET frequency = $2,
		    time_of_day = $3,
		    days_of_week = $4,
		    custom_frequency_hours = $5,
		    is_active = $6,
		    updated_at = $7
		WHERE id = $1
	`,
		sc.ID,
		string(sc.Frequency),
		sc.TimeOfDay,
		sc.DaysOfWeek,
		sc.CustomFrequencyHours,
		sc.IsActive,
		sc.UpdatedAt,
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

func (r *SchedulesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM medication_schedules
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

func (r *SchedulesRepo) query(ctx context.Context, q string, args ...any) ([]schedules.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedules.Schedule, 0)
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func scanSchedule(row rowScanner) (schedules.Schedule, error) {
	var sc schedules.Schedule
	var freq string

	if err := row.Scan(
		&sc.ID,
		&sc.MedicationID,
		&freq,
		&sc.TimeOfDay,
		&sc.DaysOfWeek,
		&sc.CustomFrequencyHours,
		&sc.IsActive,
		&sc.CreatedAt,
		&sc.UpdatedAt,
	); err != nil {
		return schedules.Schedule{}, err
	}

	sc.Frequency = schedules.Frequency(freq)
	return sc, nil
}
