package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Names of the partial unique indexes that close the booking race at the
// storage layer (see migrations/0001_init.sql).
const (
	doctorSlotIndex  = "appointments_doctor_slot_key"
	patientSlotIndex = "appointments_patient_slot_key"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.ClinicID,
		&a.StartsAt,
		&a.Status,
		&a.Notes,
		&a.RemindedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	var doctorFirst, doctorLast, patientFirst, patientLast string

	err := row.Scan(
		&d.ID,
		&d.PatientID,
		&d.DoctorID,
		&d.ClinicID,
		&d.StartsAt,
		&d.Status,
		&d.Notes,
		&d.RemindedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.DoctorUserID,
		&doctorFirst,
		&doctorLast,
		&d.DoctorSpecialty,
		&d.PatientUserID,
		&patientFirst,
		&patientLast,
		&d.PatientPhone,
		&d.ClinicName,
		&d.ClinicAddress,
		&d.ClinicCity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	d.DoctorName = "Dr. " + doctorFirst + " " + doctorLast
	d.PatientName = patientFirst + " " + patientLast
	return &d, nil
}

const detailColumns = `
	a.id, a.patient_id, a.doctor_id, a.clinic_id, a.starts_at, a.status, a.notes, a.reminded_at, a.created_at, a.updated_at,
	doc.user_id, doc.first_name, doc.last_name, doc.specialty,
	pat.user_id, pat.first_name, pat.last_name, pat.phone,
	cl.name, cl.address, cl.city`

const detailJoins = `
	FROM appointments a
	JOIN doctors doc ON doc.id = a.doctor_id
	JOIN patients pat ON pat.id = a.patient_id
	LEFT JOIN clinics cl ON cl.id = a.clinic_id`

// Interface methods

func (r *PgRepository) Create(ctx context.Context, appt Appointment) (*Appointment, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, clinic_id, starts_at, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, patient_id, doctor_id, clinic_id, starts_at, status, notes, reminded_at, created_at, updated_at
	`, id, appt.PatientID, appt.DoctorID, appt.ClinicID, appt.StartsAt, appt.Status, appt.Notes)

	created, err := scanAppointment(row)
	if err != nil {
		return nil, translateUniqueViolation(err)
	}
	return created, nil
}

// translateUniqueViolation maps 23505 on the booking indexes to the same
// conflicts the pre-checks report, so a lost race looks identical to callers.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}

	switch pgErr.ConstraintName {
	case doctorSlotIndex:
		return &ConflictError{Reason: "this time slot is already booked, please choose another time"}
	case patientSlotIndex:
		return &ConflictError{Reason: "you already have an appointment at this time"}
	}
	return err
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, clinic_id, starts_at, status, notes, reminded_at, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*Detail, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+detailColumns+detailJoins+`
		WHERE a.id = $1
	`, id)
	return scanDetail(row)
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, notes *string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    notes = COALESCE($4, notes),
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING id, patient_id, doctor_id, clinic_id, starts_at, status, notes, reminded_at, created_at, updated_at
	`, id, to, from, notes)

	return scanAppointment(row)
}

func (r *PgRepository) FindActiveByDoctorAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, clinic_id, starts_at, status, notes, reminded_at, created_at, updated_at
		FROM appointments
		WHERE doctor_id = $1
		  AND starts_at = $2
		  AND status <> 'CANCELLED'
		LIMIT 1
	`, doctorID, at)
	return scanAppointment(row)
}

func (r *PgRepository) FindActiveByPatientAt(ctx context.Context, patientID uuid.UUID, at time.Time) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, clinic_id, starts_at, status, notes, reminded_at, created_at, updated_at
		FROM appointments
		WHERE patient_id = $1
		  AND starts_at = $2
		  AND status <> 'CANCELLED'
		LIMIT 1
	`, patientID, at)
	return scanAppointment(row)
}

func (r *PgRepository) ActiveStartTimes(ctx context.Context, doctorID uuid.UUID, dayStart, dayEnd time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT starts_at
		FROM appointments
		WHERE doctor_id = $1
		  AND starts_at >= $2
		  AND starts_at < $3
		  AND status <> 'CANCELLED'
	`, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		result = append(result, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func listArgs(filter ListFilter) (limit, offset int) {
	limit = filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset = filter.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, filter ListFilter) ([]Detail, error) {
	limit, offset := listArgs(filter)

	rows, err := r.pool.Query(ctx, `SELECT `+detailColumns+detailJoins+`
		WHERE a.patient_id = $1
		  AND ($2::text IS NULL OR a.status = $2)
		  AND ($3::timestamptz IS NULL OR a.starts_at >= $3)
		  AND ($4::timestamptz IS NULL OR a.starts_at < $4)
		ORDER BY a.starts_at DESC
		LIMIT $5 OFFSET $6
	`, patientID, filter.Status, filter.From, filter.To, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDetails(rows)
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, filter ListFilter) ([]Detail, error) {
	limit, offset := listArgs(filter)

	rows, err := r.pool.Query(ctx, `SELECT `+detailColumns+detailJoins+`
		WHERE a.doctor_id = $1
		  AND ($2::text IS NULL OR a.status = $2)
		  AND ($3::timestamptz IS NULL OR a.starts_at >= $3)
		  AND ($4::timestamptz IS NULL OR a.starts_at < $4)
		  AND ($5::uuid IS NULL OR a.clinic_id = $5)
		ORDER BY a.starts_at ASC
		LIMIT $6 OFFSET $7
	`, doctorID, filter.Status, filter.From, filter.To, filter.ClinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDetails(rows)
}

func (r *PgRepository) ListDueReminders(ctx context.Context, from, until time.Time) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+detailColumns+detailJoins+`
		WHERE a.status IN ('PENDING', 'CONFIRMED')
		  AND a.reminded_at IS NULL
		  AND a.starts_at >= $1
		  AND a.starts_at < $2
		ORDER BY a.starts_at ASC
	`, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDetails(rows)
}

func (r *PgRepository) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET reminded_at = $2
		WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("mark appointment reminded: %w", err)
	}
	return nil
}

func collectDetails(rows pgx.Rows) ([]Detail, error) {
	var result []Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
