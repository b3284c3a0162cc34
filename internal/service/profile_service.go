package service

import (
	"context"
	"fmt"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/repo/postgres"
	"github.com/caredesk/caredesk-api/pkg/logger"
)

// ProvisionKind names the branch taken when provisioning a profile for a
// freshly registered account.
type ProvisionKind int

const (
	ProvisionNone ProvisionKind = iota
	ProvisionPatient
	ProvisionDoctor
)

func (k ProvisionKind) String() string {
	switch k {
	case ProvisionPatient:
		return "patient"
	case ProvisionDoctor:
		return "doctor"
	default:
		return "none"
	}
}

type ProfileService interface {
	// Provision creates the role-specific profile for the account's primary
	// role. Roles other than patient/doctor are a deliberate no-op, not an
	// error. Duplicate provisioning is not guarded here; the uniqueness of
	// the account itself is the only protection.
	Provision(ctx context.Context, user *domain.User) (ProvisionKind, error)
}

type profileService struct {
	patientRepo postgres.PatientRepository
	doctorRepo  postgres.DoctorRepository
}

func NewProfileService(patientRepo postgres.PatientRepository, doctorRepo postgres.DoctorRepository) ProfileService {
	return &profileService{
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
	}
}

func (s *profileService) Provision(ctx context.Context, user *domain.User) (ProvisionKind, error) {
	switch kind := kindForRole(user.PrimaryRole()); kind {
	case ProvisionPatient:
		patient := &domain.Patient{
			Cin:   user.ID,
			Name:  user.Login,
			Email: user.Email,
			Phone: domain.PatientPhonePlaceholder,
		}
		if _, err := s.patientRepo.Save(ctx, patient); err != nil {
			return kind, fmt.Errorf("failed to save patient profile: %w", err)
		}
		return kind, nil

	case ProvisionDoctor:
		doctor := &domain.Doctor{
			Cin:        user.ID,
			Name:       user.Login,
			Email:      user.Email,
			Phone:      domain.DoctorPhonePlaceholder,
			Address:    domain.DoctorAddressPlaceholder,
			Speciality: domain.DoctorSpecialityPlaceholder,
		}
		if _, err := s.doctorRepo.Save(ctx, doctor); err != nil {
			return kind, fmt.Errorf("failed to save doctor profile: %w", err)
		}
		return kind, nil

	default:
		logger.DebugContext(ctx, "No profile provisioned for role", "role", user.PrimaryRole(), "login", user.Login)
		return ProvisionNone, nil
	}
}

func kindForRole(role string) ProvisionKind {
	switch role {
	case domain.RolePatient:
		return ProvisionPatient
	case domain.RoleDoctor:
		return ProvisionDoctor
	default:
		return ProvisionNone
	}
}
