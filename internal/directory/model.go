package directory

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies which kind of account a user holds. Tokens carry it and the
// transition guard dispatches on it.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type Doctor struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Specialty *string
	Bio       *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is the patient-facing form used in notifications.
func (d Doctor) DisplayName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}

type Patient struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

type Clinic struct {
	ID        uuid.UUID
	Name      string
	Address   string
	City      string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClinicAssignment links a doctor to a clinic where they consult. Schedule
// windows always reference an assignment, which transitively fixes the clinic
// for any slot generated from them.
type ClinicAssignment struct {
	ID              uuid.UUID
	DoctorID        uuid.UUID
	ClinicID        uuid.UUID
	ConsultationFee *int64 // minor currency units
	CreatedAt       time.Time
}

// DoctorClinic is an assignment joined with the clinic it points at, the shape
// the doctor's own clinic listing returns.
type DoctorClinic struct {
	Assignment ClinicAssignment
	Clinic     Clinic
}
