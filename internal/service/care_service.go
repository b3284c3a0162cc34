package service

import (
	"context"
	"fmt"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/repo/postgres"
	"github.com/caredesk/caredesk-api/pkg/events"
	"github.com/caredesk/caredesk-api/pkg/logger"
)

// CareService manages the care requests and appointments the resolver reads.
type CareService interface {
	CreateRequest(ctx context.Context, in *domain.CreateCareRequestInput) (*domain.CareRequest, error)
	ListRequests(ctx context.Context) ([]domain.CareRequest, error)
	CreateAppointment(ctx context.Context, in *domain.CreateAppointmentInput) (*domain.Appointment, error)
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
}

type careService struct {
	requestRepo     postgres.CareRequestRepository
	appointmentRepo postgres.AppointmentRepository
	doctorRepo      postgres.DoctorRepository
	eventBus        events.Publisher
}

func NewCareService(
	requestRepo postgres.CareRequestRepository,
	appointmentRepo postgres.AppointmentRepository,
	doctorRepo postgres.DoctorRepository,
	eventBus events.Publisher,
) CareService {
	return &careService{
		requestRepo:     requestRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		eventBus:        eventBus,
	}
}

func (s *careService) CreateRequest(ctx context.Context, in *domain.CreateCareRequestInput) (*domain.CareRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	request, err := s.requestRepo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create care request: %w", err)
	}

	event := events.CareRequestCreatedEvent{
		RequestID:  request.ID,
		PatientCin: request.Patient.Cin,
		DoctorID:   request.Doctor.ID,
		CreatedAt:  request.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.CareRequestCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish care request created event", "error", err, "request_id", request.ID)
	}

	return request, nil
}

func (s *careService) ListRequests(ctx context.Context) ([]domain.CareRequest, error) {
	requests, err := s.requestRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list care requests: %w", err)
	}
	return requests, nil
}

func (s *careService) CreateAppointment(ctx context.Context, in *domain.CreateAppointmentInput) (*domain.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	request, err := s.requestRepo.FindByID(ctx, in.RequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load care request: %w", err)
	}
	if request == nil {
		return nil, fmt.Errorf("care request %d not found", in.RequestID)
	}

	appointment, err := s.appointmentRepo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	event := events.AppointmentCreatedEvent{
		AppointmentID: appointment.ID,
		RequestID:     appointment.Request.ID,
		ScheduledAt:   appointment.ScheduledAt,
		CreatedAt:     appointment.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.AppointmentCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish appointment created event", "error", err, "appointment_id", appointment.ID)
	}

	return appointment, nil
}

func (s *careService) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	appointments, err := s.appointmentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *careService) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	doctors, err := s.doctorRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
