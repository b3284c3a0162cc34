package service

import (
	"context"
	"fmt"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/repo/postgres"
)

// RelationshipService resolves the doctors, appointments and care requests
// reachable from a logged-in user. All three operations scan the full record
// set and filter on the patient cin; results preserve scan order and are not
// deduplicated.
type RelationshipService interface {
	DoctorsForUser(ctx context.Context, login string) ([]domain.Doctor, error)
	AppointmentsForUser(ctx context.Context, login string) ([]domain.Appointment, error)
	AppointmentDoctorsForUser(ctx context.Context, login string) ([]domain.Doctor, error)
}

type relationshipService struct {
	userRepo        postgres.UserRepository
	requestRepo     postgres.CareRequestRepository
	appointmentRepo postgres.AppointmentRepository
	doctorRepo      postgres.DoctorRepository
}

func NewRelationshipService(
	userRepo postgres.UserRepository,
	requestRepo postgres.CareRequestRepository,
	appointmentRepo postgres.AppointmentRepository,
	doctorRepo postgres.DoctorRepository,
) RelationshipService {
	return &relationshipService{
		userRepo:        userRepo,
		requestRepo:     requestRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
	}
}

// DoctorsForUser collects the doctor of every care request whose patient cin
// matches the caller's account id.
func (s *relationshipService) DoctorsForUser(ctx context.Context, login string) ([]domain.Doctor, error) {
	user, err := s.resolveUser(ctx, login)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list care requests: %w", err)
	}

	doctors := []domain.Doctor{}
	for _, req := range requests {
		if req.Patient.Cin != user.ID {
			continue
		}
		doctor, err := s.doctorRepo.FindByID(ctx, req.Doctor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load doctor %d: %w", req.Doctor.ID, err)
		}
		if doctor != nil {
			doctors = append(doctors, *doctor)
		}
	}

	return doctors, nil
}

// AppointmentsForUser returns the caller's appointments when the primary role
// is patient; any other role sees the full appointment set.
func (s *relationshipService) AppointmentsForUser(ctx context.Context, login string) ([]domain.Appointment, error) {
	user, err := s.resolveUser(ctx, login)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	if user.PrimaryRole() != domain.RolePatient {
		return appointments, nil
	}

	matched := []domain.Appointment{}
	for _, appt := range appointments {
		if appt.Request.Patient.Cin == user.ID {
			matched = append(matched, appt)
		}
	}

	return matched, nil
}

// AppointmentDoctorsForUser projects the doctor of every appointment whose
// request belongs to the caller.
func (s *relationshipService) AppointmentDoctorsForUser(ctx context.Context, login string) ([]domain.Doctor, error) {
	user, err := s.resolveUser(ctx, login)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	doctors := []domain.Doctor{}
	for _, appt := range appointments {
		if appt.Request.Patient.Cin == user.ID {
			doctors = append(doctors, appt.Request.Doctor)
		}
	}

	return doctors, nil
}

func (s *relationshipService) resolveUser(ctx context.Context, login string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrAccountNotFound
	}
	return user, nil
}
