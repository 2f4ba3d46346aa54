package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medication-tracker/internal/domain/reminders"
)

type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

const reminderColumns = `
	id, medication_id,
	scheduled_time, status, snooze_count,
	created_at
`

func (r *RemindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medication_reminders (`+reminderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		rem.ID,
		rem.MedicationID,
		rem.ScheduledTime,
		string(rem.Status),
		rem.SnoozeCount,
		rem.CreatedAt,
	)
	return err
}

func (r *RemindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reminders.Reminder{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+reminderColumns+`
		FROM medication_reminders
		WHERE id = $1
	`, id)

	rem, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return reminders.Reminder{}, ErrNotFound
	}
	return rem, err
}

func (r *RemindersRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medication_reminders
		SET scheduled_time = $2,
		    status = $3,
		    snooze_count = $4
		WHERE id = $1
	`,
		rem.ID,
		rem.ScheduledTime,
		string(rem.Status),
		rem.SnoozeCount,
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

func (r *RemindersRepo) ListDue(ctx context.Context, now time.Time) ([]reminders.Reminder, error) {
	return r.query(ctx, `
		SELECT `+reminderColumns+`
		FROM medication_reminders
		WHERE status IN ('scheduled','snoozed')
		  AND scheduled_time <= $1
		ORDER BY scheduled_time
	`, now)
}

func (r *RemindersRepo) ListUpcoming(ctx context.Context, now, before time.Time) ([]reminders.Reminder, error) {
	return r.query(ctx, `
		SELECT `+reminderColumns+`
		FROM medication_reminders
		WHERE status IN ('scheduled','snoozed')
		  AND scheduled_time > $1
		  AND scheduled_time <= $2
		ORDER BY scheduled_time
	`, now, before)
}

func (r *RemindersRepo) ListByMedication(ctx context.Context, medicationID string) ([]reminders.Reminder, error) {
	return r.query(ctx, `
		SELECT `+reminderColumns+`
		FROM medication_reminders
		WHERE medication_id = $1
		ORDER BY scheduled_time
	`, medicationID)
}

func (r *RemindersRepo) ListByStatus(ctx context.Context, st reminders.Status) ([]reminders.Reminder, error) {
	return r.query(ctx, `
		SELECT `+reminderColumns+`
		FROM medication_reminders
		WHERE status = $1
		ORDER BY scheduled_time
	`, string(st))
}

func (r *RemindersRepo) query(ctx context.Context, q string, args ...any) ([]reminders.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reminders.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

func scanReminder(row rowScanner) (reminders.Reminder, error) {
	var rem reminders.Reminder
	var status string

	if err := row.Scan(
		&rem.ID,
		&rem.MedicationID,
		&rem.ScheduledTime,
		&status,
		&rem.SnoozeCount,
		&rem.CreatedAt,
	); err != nil {
		return reminders.Reminder{}, err
	}

	rem.Status = reminders.Status(status)
	return rem, nil
}
