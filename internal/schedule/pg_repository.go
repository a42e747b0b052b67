package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Windows persist start/end as minutes since midnight; TimeOfDay scans
// straight into smallint columns.

func scanWindow(row pgx.Row) (*Window, error) {
	var w Window
	var day int16

	err := row.Scan(
		&w.ID,
		&w.DoctorID,
		&w.AssignmentID,
		&day,
		&w.Start,
		&w.End,
		&w.Active,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWindowNotFound
		}
		return nil, err
	}

	w.Day = time.Weekday(day)
	return &w, nil
}

func scanDayWindow(row pgx.Row) (*DayWindow, error) {
	var w DayWindow
	var day int16

	err := row.Scan(
		&w.ID,
		&w.DoctorID,
		&w.AssignmentID,
		&day,
		&w.Start,
		&w.End,
		&w.Active,
		&w.CreatedAt,
		&w.UpdatedAt,
		&w.ClinicID,
		&w.ClinicName,
		&w.ClinicAddress,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWindowNotFound
		}
		return nil, err
	}

	w.Day = time.Weekday(day)
	return &w, nil
}

func (r *PgRepository) Create(ctx context.Context, w Window) (*Window, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO schedule_windows (id, doctor_id, assignment_id, day_of_week, start_minutes, end_minutes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, doctor_id, assignment_id, day_of_week, start_minutes, end_minutes, is_active, created_at, updated_at
	`, id, w.DoctorID, w.AssignmentID, int16(w.Day), int(w.Start), int(w.End), w.Active)

	return scanWindow(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Window, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, assignment_id, day_of_week, start_minutes, end_minutes, is_active, created_at, updated_at
		FROM schedule_windows
		WHERE id = $1
	`, id)
	return scanWindow(row)
}

func (r *PgRepository) Update(ctx context.Context, w Window) (*Window, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE schedule_windows
		SET day_of_week = $3,
		    start_minutes = $4,
		    end_minutes = $5,
		    is_active = $6,
		    updated_at = now()
		WHERE id = $1
		  AND doctor_id = $2
		RETURNING id, doctor_id, assignment_id, day_of_week, start_minutes, end_minutes, is_active, created_at, updated_at
	`, w.ID, w.DoctorID, int16(w.Day), int(w.Start), int(w.End), w.Active)

	return scanWindow(row)
}

func (r *PgRepository) Delete(ctx context.Context, id, doctorID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM schedule_windows
		WHERE id = $1 AND doctor_id = $2
	`, id, doctorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWindowNotFound
	}
	return nil
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, filter WindowFilter) ([]DayWindow, error) {
	var clinicID *uuid.UUID
	if filter.ClinicID != nil {
		clinicID = filter.ClinicID
	}

	rows, err := r.pool.Query(ctx, `
		SELECT w.id, w.doctor_id, w.assignment_id, w.day_of_week, w.start_minutes, w.end_minutes, w.is_active, w.created_at, w.updated_at,
		       c.id, c.name, c.address
		FROM schedule_windows w
		JOIN clinic_assignments a ON a.id = w.assignment_id
		JOIN clinics c ON c.id = a.clinic_id
		WHERE w.doctor_id = $1
		  AND ($2::uuid IS NULL OR c.id = $2)
		  AND (NOT $3 OR w.is_active)
		ORDER BY w.day_of_week, w.start_minutes
	`, doctorID, clinicID, filter.ActiveOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDayWindows(rows)
}

func (r *PgRepository) ListForDay(ctx context.Context, doctorID uuid.UUID, day time.Weekday, clinicID *uuid.UUID) ([]DayWindow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT w.id, w.doctor_id, w.assignment_id, w.day_of_week, w.start_minutes, w.end_minutes, w.is_active, w.created_at, w.updated_at,
		       c.id, c.name, c.address
		FROM schedule_windows w
		JOIN clinic_assignments a ON a.id = w.assignment_id
		JOIN clinics c ON c.id = a.clinic_id
		WHERE w.doctor_id = $1
		  AND w.day_of_week = $2
		  AND w.is_active
		  AND ($3::uuid IS NULL OR c.id = $3)
		ORDER BY w.start_minutes
	`, doctorID, int16(day), clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDayWindows(rows)
}

func collectDayWindows(rows pgx.Rows) ([]DayWindow, error) {
	var result []DayWindow
	for rows.Next() {
		w, err := scanDayWindow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
