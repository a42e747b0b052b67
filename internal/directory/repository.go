package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrPatientNotFound       = errors.New("patient not found")
	ErrClinicNotFound        = errors.New("clinic not found")
	ErrAssignmentNotFound    = errors.New("doctor is not assigned to this clinic")
	ErrClinicAlreadyAssigned = errors.New("doctor is already assigned to this clinic")
)

type DoctorFilter struct {
	Specialty  string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type ClinicFilter struct {
	City   string
	Limit  int
	Offset int
}

// Repository contains the directory lookups needed by the booking flow, the
// public listings and the doctor's clinic management.
type Repository interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error)

	ListDoctors(ctx context.Context, filter DoctorFilter) ([]Doctor, error)
	ListClinics(ctx context.Context, filter ClinicFilter) ([]Clinic, error)

	// GetAssignment resolves whether the doctor consults at the clinic;
	// ErrAssignmentNotFound when they do not.
	GetAssignment(ctx context.Context, doctorID, clinicID uuid.UUID) (*ClinicAssignment, error)
	ListClinicsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]DoctorClinic, error)

	// CreateAssignment links a doctor to a clinic; a duplicate link comes back
	// as ErrClinicAlreadyAssigned.
	CreateAssignment(ctx context.Context, a ClinicAssignment) (*ClinicAssignment, error)
	UpdateAssignmentFee(ctx context.Context, doctorID, clinicID uuid.UUID, fee *int64) (*ClinicAssignment, error)
}
