package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctorByID(ctx, id)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetPatientByID(ctx, id)
}

// ListDoctors returns active doctors for the public listing, optionally
// narrowed by specialty.
func (s *Service) ListDoctors(ctx context.Context, specialty string, limit, offset int) ([]Doctor, error) {
	doctors, err := s.repo.ListDoctors(ctx, DoctorFilter{
		Specialty:  specialty,
		ActiveOnly: true,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// ListClinics returns clinics for the public listing, optionally narrowed by
// city.
func (s *Service) ListClinics(ctx context.Context, city string, limit, offset int) ([]Clinic, error) {
	clinics, err := s.repo.ListClinics(ctx, ClinicFilter{
		City:   city,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	return clinics, nil
}

// ListDoctorClinics returns the clinics a doctor consults at, with the
// per-clinic consultation fee.
func (s *Service) ListDoctorClinics(ctx context.Context, doctorID uuid.UUID) ([]DoctorClinic, error) {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.ListClinicsByDoctor(ctx, doctorID)
}

// AddClinic links the doctor to a clinic with an optional consultation fee.
func (s *Service) AddClinic(ctx context.Context, doctorID, clinicID uuid.UUID, fee *int64) (*DoctorClinic, error) {
	clinic, err := s.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.CreateAssignment(ctx, ClinicAssignment{
		DoctorID:        doctorID,
		ClinicID:        clinicID,
		ConsultationFee: fee,
	})
	if err != nil {
		return nil, err
	}

	return &DoctorClinic{Assignment: *a, Clinic: *clinic}, nil
}

// UpdateClinicFee changes the consultation fee on an existing assignment.
func (s *Service) UpdateClinicFee(ctx context.Context, doctorID, clinicID uuid.UUID, fee *int64) (*DoctorClinic, error) {
	clinic, err := s.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.UpdateAssignmentFee(ctx, doctorID, clinicID, fee)
	if err != nil {
		return nil, err
	}

	return &DoctorClinic{Assignment: *a, Clinic: *clinic}, nil
}
