package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/service"
)

// Fixture: amira (account id 7, patient) has two care requests, one of them
// scheduled. rami (account id 8, patient) has one request. The cin column of a
// patient profile carries the owning account id, which is how requests are
// traced back to a login.
func relationshipFixture() (service.RelationshipService, *mockUserRepo) {
	users := newMockUserRepo()
	users.users["amira"] = &domain.User{ID: 7, Login: "amira", Activated: true, Authorities: []string{domain.RolePatient}}
	users.users["rami"] = &domain.User{ID: 8, Login: "rami", Activated: true, Authorities: []string{domain.RolePatient}}
	users.users["admin"] = &domain.User{ID: 1, Login: "admin", Activated: true, Authorities: []string{domain.RoleAdmin}}

	drHouse := domain.Doctor{ID: 1, Cin: 20, Name: "dr.house", Speciality: "diagnostics"}
	drGrey := domain.Doctor{ID: 2, Cin: 21, Name: "dr.grey", Speciality: "surgery"}

	doctors := &mockDoctorRepo{}
	doctors.saved = []*domain.Doctor{&drHouse, &drGrey}

	amiraProfile := domain.Patient{ID: 10, Cin: 7, Name: "amira"}
	ramiProfile := domain.Patient{ID: 11, Cin: 8, Name: "rami"}

	requests := &mockCareRequestRepo{requests: []domain.CareRequest{
		{ID: 1, Patient: amiraProfile, Doctor: drHouse, Description: "headaches"},
		{ID: 2, Patient: ramiProfile, Doctor: drHouse, Description: "back pain"},
		{ID: 3, Patient: amiraProfile, Doctor: drGrey, Description: "checkup"},
	}}

	appointments := &mockAppointmentRepo{appointments: []domain.Appointment{
		{ID: 1, Request: requests.requests[0], ScheduledAt: time.Now().Add(24 * time.Hour)},
		{ID: 2, Request: requests.requests[1], ScheduledAt: time.Now().Add(48 * time.Hour)},
	}}

	return service.NewRelationshipService(users, requests, appointments, doctors), users
}

func TestDoctorsForUser(t *testing.T) {
	svc, _ := relationshipFixture()

	doctors, err := svc.DoctorsForUser(context.Background(), "amira")
	if err != nil {
		t.Fatalf("DoctorsForUser: %v", err)
	}

	if len(doctors) != 2 {
		t.Fatalf("expected 2 doctors, got %d", len(doctors))
	}
	if doctors[0].Name != "dr.house" || doctors[1].Name != "dr.grey" {
		t.Errorf("unexpected doctors: %v", doctors)
	}
}

func TestDoctorsForUserSingleMatch(t *testing.T) {
	svc, _ := relationshipFixture()

	// Of the three requests on file, exactly one belongs to rami.
	doctors, err := svc.DoctorsForUser(context.Background(), "rami")
	if err != nil {
		t.Fatalf("DoctorsForUser: %v", err)
	}
	if len(doctors) != 1 {
		t.Fatalf("expected 1 doctor, got %d", len(doctors))
	}
	if doctors[0].Name != "dr.house" {
		t.Errorf("unexpected doctor: %+v", doctors[0])
	}
}

func TestDoctorsForUserNoRequests(t *testing.T) {
	svc, users := relationshipFixture()
	users.users["nobody"] = &domain.User{ID: 99, Login: "nobody", Activated: true, Authorities: []string{domain.RolePatient}}

	doctors, err := svc.DoctorsForUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("DoctorsForUser: %v", err)
	}
	if doctors == nil {
		t.Fatal("expected empty slice, not nil")
	}
	if len(doctors) != 0 {
		t.Errorf("expected no doctors, got %v", doctors)
	}
}

func TestDoctorsForUserKeepsDuplicates(t *testing.T) {
	users := newMockUserRepo()
	users.users["amira"] = &domain.User{ID: 7, Login: "amira", Activated: true, Authorities: []string{domain.RolePatient}}

	drHouse := domain.Doctor{ID: 1, Cin: 20, Name: "dr.house"}
	doctors := &mockDoctorRepo{saved: []*domain.Doctor{&drHouse}}
	profile := domain.Patient{ID: 10, Cin: 7, Name: "amira"}

	requests := &mockCareRequestRepo{requests: []domain.CareRequest{
		{ID: 1, Patient: profile, Doctor: drHouse},
		{ID: 2, Patient: profile, Doctor: drHouse},
	}}

	svc := service.NewRelationshipService(users, requests, &mockAppointmentRepo{}, doctors)

	got, err := svc.DoctorsForUser(context.Background(), "amira")
	if err != nil {
		t.Fatalf("DoctorsForUser: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("one entry per matching request, got %d", len(got))
	}
}

func TestAppointmentsForPatient(t *testing.T) {
	svc, _ := relationshipFixture()

	appointments, err := svc.AppointmentsForUser(context.Background(), "amira")
	if err != nil {
		t.Fatalf("AppointmentsForUser: %v", err)
	}

	if len(appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appointments))
	}
	if appointments[0].Request.Description != "headaches" {
		t.Errorf("wrong appointment matched: %+v", appointments[0])
	}
}

func TestAppointmentsForStaffSeeAll(t *testing.T) {
	svc, _ := relationshipFixture()

	appointments, err := svc.AppointmentsForUser(context.Background(), "admin")
	if err != nil {
		t.Fatalf("AppointmentsForUser: %v", err)
	}

	if len(appointments) != 2 {
		t.Errorf("non-patient roles see every appointment, got %d", len(appointments))
	}
}

func TestAppointmentDoctorsForUser(t *testing.T) {
	svc, _ := relationshipFixture()

	doctors, err := svc.AppointmentDoctorsForUser(context.Background(), "amira")
	if err != nil {
		t.Fatalf("AppointmentDoctorsForUser: %v", err)
	}

	if len(doctors) != 1 {
		t.Fatalf("expected 1 doctor, got %d", len(doctors))
	}
	if doctors[0].Name != "dr.house" {
		t.Errorf("unexpected doctor: %+v", doctors[0])
	}
}

func TestRelationshipsUnknownLogin(t *testing.T) {
	svc, _ := relationshipFixture()

	if _, err := svc.DoctorsForUser(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("DoctorsForUser: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.AppointmentsForUser(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("AppointmentsForUser: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.AppointmentDoctorsForUser(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("AppointmentDoctorsForUser: expected ErrAccountNotFound, got %v", err)
	}
}
