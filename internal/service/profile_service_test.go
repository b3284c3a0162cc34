package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/service"
)

func TestProvisionPatient(t *testing.T) {
	patients := &mockPatientRepo{}
	doctors := &mockDoctorRepo{}
	svc := service.NewProfileService(patients, doctors)

	user := &domain.User{
		ID:          42,
		Login:       "amira",
		Email:       "amira@example.com",
		Authorities: []string{domain.RolePatient},
	}

	kind, err := svc.Provision(context.Background(), user)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if kind != service.ProvisionPatient {
		t.Errorf("expected patient provisioning, got %s", kind)
	}

	if len(patients.saved) != 1 {
		t.Fatalf("expected one patient, got %d", len(patients.saved))
	}
	p := patients.saved[0]
	if p.Cin != 42 {
		t.Errorf("patient cin should equal the account id, got %d", p.Cin)
	}
	if p.Name != "amira" || p.Email != "amira@example.com" {
		t.Errorf("patient identity not copied from account: %+v", p)
	}
	if p.Phone != domain.PatientPhonePlaceholder {
		t.Errorf("expected placeholder phone, got %q", p.Phone)
	}
	if len(doctors.saved) != 0 {
		t.Error("no doctor profile expected for a patient")
	}
}

func TestProvisionDoctor(t *testing.T) {
	patients := &mockPatientRepo{}
	doctors := &mockDoctorRepo{}
	svc := service.NewProfileService(patients, doctors)

	user := &domain.User{
		ID:          7,
		Login:       "dr.malik",
		Email:       "malik@example.com",
		Authorities: []string{domain.RoleDoctor},
	}

	kind, err := svc.Provision(context.Background(), user)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if kind != service.ProvisionDoctor {
		t.Errorf("expected doctor provisioning, got %s", kind)
	}

	if len(doctors.saved) != 1 {
		t.Fatalf("expected one doctor, got %d", len(doctors.saved))
	}
	d := doctors.saved[0]
	if d.Cin != 7 {
		t.Errorf("doctor cin should equal the account id, got %d", d.Cin)
	}
	if d.Phone != domain.DoctorPhonePlaceholder {
		t.Errorf("expected placeholder phone, got %q", d.Phone)
	}
	if d.Address != domain.DoctorAddressPlaceholder || d.Speciality != domain.DoctorSpecialityPlaceholder {
		t.Errorf("expected placeholder address and speciality: %+v", d)
	}
	if len(patients.saved) != 0 {
		t.Error("no patient profile expected for a doctor")
	}
}

func TestProvisionOtherRolesNoOp(t *testing.T) {
	for _, role := range []string{domain.RoleAdmin, domain.RoleUser, ""} {
		t.Run("role "+role, func(t *testing.T) {
			patients := &mockPatientRepo{}
			doctors := &mockDoctorRepo{}
			svc := service.NewProfileService(patients, doctors)

			user := &domain.User{ID: 1, Login: "someone"}
			if role != "" {
				user.Authorities = []string{role}
			}

			kind, err := svc.Provision(context.Background(), user)
			if err != nil {
				t.Fatalf("Provision: %v", err)
			}
			if kind != service.ProvisionNone {
				t.Errorf("expected no provisioning, got %s", kind)
			}
			if len(patients.saved)+len(doctors.saved) != 0 {
				t.Error("no profile should be created")
			}
		})
	}
}

func TestProvisionPrimaryRoleWins(t *testing.T) {
	patients := &mockPatientRepo{}
	doctors := &mockDoctorRepo{}
	svc := service.NewProfileService(patients, doctors)

	// Both clinical roles present: only the first authority drives the branch.
	user := &domain.User{
		ID:          3,
		Login:       "both",
		Authorities: []string{domain.RoleDoctor, domain.RolePatient},
	}

	kind, err := svc.Provision(context.Background(), user)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if kind != service.ProvisionDoctor {
		t.Errorf("expected doctor branch, got %s", kind)
	}
	if len(patients.saved) != 0 {
		t.Error("secondary role must not provision a profile")
	}
}

func TestProvisionSaveError(t *testing.T) {
	patients := &mockPatientRepo{saveErr: errors.New("db down")}
	svc := service.NewProfileService(patients, &mockDoctorRepo{})

	user := &domain.User{ID: 1, Login: "amira", Authorities: []string{domain.RolePatient}}
	kind, err := svc.Provision(context.Background(), user)
	if err == nil {
		t.Fatal("expected error")
	}
	if kind != service.ProvisionPatient {
		t.Errorf("kind should report the attempted branch, got %s", kind)
	}
}
