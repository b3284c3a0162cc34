package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/service"
)

func TestCreateCareRequest(t *testing.T) {
	requests := &mockCareRequestRepo{}
	bus := &mockPublisher{}
	svc := service.NewCareService(requests, &mockAppointmentRepo{}, &mockDoctorRepo{}, bus)

	req, err := svc.CreateRequest(context.Background(), &domain.CreateCareRequestInput{
		PatientID:   10,
		DoctorID:    1,
		Description: "headaches",
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if req.ID == 0 {
		t.Error("expected an id to be assigned")
	}
	if len(bus.subjects) != 1 || bus.subjects[0] != "care.request.created" {
		t.Errorf("expected care.request.created event, got %v", bus.subjects)
	}
}

func TestCreateCareRequestValidation(t *testing.T) {
	svc := service.NewCareService(&mockCareRequestRepo{}, &mockAppointmentRepo{}, &mockDoctorRepo{}, &mockPublisher{})

	if _, err := svc.CreateRequest(context.Background(), &domain.CreateCareRequestInput{DoctorID: 1}); err == nil {
		t.Error("expected error for missing patient_id")
	}
	if _, err := svc.CreateRequest(context.Background(), &domain.CreateCareRequestInput{PatientID: 1}); err == nil {
		t.Error("expected error for missing doctor_id")
	}
}

func TestCreateAppointment(t *testing.T) {
	requests := &mockCareRequestRepo{}
	appointments := &mockAppointmentRepo{}
	bus := &mockPublisher{}
	svc := service.NewCareService(requests, appointments, &mockDoctorRepo{}, bus)

	req, err := svc.CreateRequest(context.Background(), &domain.CreateCareRequestInput{PatientID: 10, DoctorID: 1})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	appt, err := svc.CreateAppointment(context.Background(), &domain.CreateAppointmentInput{
		RequestID:   req.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if appt.Request.ID != req.ID {
		t.Errorf("appointment not linked to request %d: %+v", req.ID, appt)
	}
	if len(bus.subjects) != 2 || bus.subjects[1] != "care.appointment.created" {
		t.Errorf("expected care.appointment.created event, got %v", bus.subjects)
	}
}

func TestCreateAppointmentUnknownRequest(t *testing.T) {
	svc := service.NewCareService(&mockCareRequestRepo{}, &mockAppointmentRepo{}, &mockDoctorRepo{}, &mockPublisher{})

	_, err := svc.CreateAppointment(context.Background(), &domain.CreateAppointmentInput{
		RequestID:   99,
		ScheduledAt: time.Now(),
	})
	if err == nil {
		t.Error("expected error for unknown care request")
	}
}
