package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Name of the unique constraint guarding duplicate doctor/clinic links (see
// migrations/0001_init.sql).
const doctorClinicKey = "clinic_assignments_doctor_clinic_key"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.FirstName,
		&d.LastName,
		&d.Specialty,
		&d.Bio,
		&d.Active,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Address,
		&c.City,
		&c.Phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}

	return &c, nil
}

func scanAssignment(row pgx.Row) (*ClinicAssignment, error) {
	var a ClinicAssignment

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.ClinicID,
		&a.ConsultationFee,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

// Interface methods

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT d.id, d.user_id, d.first_name, d.last_name, d.specialty, d.bio, u.is_active, d.created_at, d.updated_at
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, first_name, last_name, phone, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, city, phone, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`, id)
	return scanClinic(row)
}

func (r *PgRepository) ListDoctors(ctx context.Context, filter DoctorFilter) ([]Doctor, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.user_id, d.first_name, d.last_name, d.specialty, d.bio, u.is_active, d.created_at, d.updated_at
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE ($1 = '' OR d.specialty = $1)
		  AND (NOT $2 OR u.is_active)
		ORDER BY d.last_name, d.first_name
		LIMIT $3 OFFSET $4
	`, filter.Specialty, filter.ActiveOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
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

func (r *PgRepository) GetAssignment(ctx context.Context, doctorID, clinicID uuid.UUID) (*ClinicAssignment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, clinic_id, consultation_fee, created_at
		FROM clinic_assignments
		WHERE doctor_id = $1 AND clinic_id = $2
	`, doctorID, clinicID)
	return scanAssignment(row)
}

func (r *PgRepository) ListClinics(ctx context.Context, filter ClinicFilter) ([]Clinic, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, city, phone, created_at, updated_at
		FROM clinics
		WHERE ($1 = '' OR city = $1)
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, filter.City, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListClinicsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]DoctorClinic, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.doctor_id, a.clinic_id, a.consultation_fee, a.created_at,
		       c.id, c.name, c.address, c.city, c.phone, c.created_at, c.updated_at
		FROM clinic_assignments a
		JOIN clinics c ON c.id = a.clinic_id
		WHERE a.doctor_id = $1
		ORDER BY a.created_at
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DoctorClinic
	for rows.Next() {
		var dc DoctorClinic
		err := rows.Scan(
			&dc.Assignment.ID,
			&dc.Assignment.DoctorID,
			&dc.Assignment.ClinicID,
			&dc.Assignment.ConsultationFee,
			&dc.Assignment.CreatedAt,
			&dc.Clinic.ID,
			&dc.Clinic.Name,
			&dc.Clinic.Address,
			&dc.Clinic.City,
			&dc.Clinic.Phone,
			&dc.Clinic.CreatedAt,
			&dc.Clinic.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CreateAssignment(ctx context.Context, a ClinicAssignment) (*ClinicAssignment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clinic_assignments (id, doctor_id, clinic_id, consultation_fee, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, doctor_id, clinic_id, consultation_fee, created_at
	`, uuid.New(), a.DoctorID, a.ClinicID, a.ConsultationFee)

	created, err := scanAssignment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == doctorClinicKey {
			return nil, ErrClinicAlreadyAssigned
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) UpdateAssignmentFee(ctx context.Context, doctorID, clinicID uuid.UUID, fee *int64) (*ClinicAssignment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE clinic_assignments
		SET consultation_fee = $3
		WHERE doctor_id = $1 AND clinic_id = $2
		RETURNING id, doctor_id, clinic_id, consultation_fee, created_at
	`, doctorID, clinicID, fee)
	return scanAssignment(row)
}
