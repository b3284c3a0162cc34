package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/service"
)

// ---------- Mocks ----------

type mockUserRepo struct {
	users  map[string]*domain.User // login -> user
	nextID int64

	createErr error
	findErr   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	stored := *u
	stored.ID = m.nextID
	m.nextID++
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.users[stored.Login] = &stored
	out := stored
	return &out, nil
}

func (m *mockUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.users[login], nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByActivationKey(_ context.Context, key string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ActivationKey != nil && *u.ActivationKey == key {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByResetKey(_ context.Context, key string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ResetKey != nil && *u.ResetKey == key {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Activate(_ context.Context, id int64) error {
	for _, u := range m.users {
		if u.ID == id {
			u.Activated = true
			u.ActivationKey = nil
			return nil
		}
	}
	return fmt.Errorf("no user %d", id)
}

func (m *mockUserRepo) SetResetKey(_ context.Context, id int64, key string, date time.Time) error {
	for _, u := range m.users {
		if u.ID == id {
			u.ResetKey = &key
			u.ResetDate = &date
			return nil
		}
	}
	return fmt.Errorf("no user %d", id)
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string, clearResetKey bool) error {
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			if clearResetKey {
				u.ResetKey = nil
				u.ResetDate = nil
			}
			return nil
		}
	}
	return fmt.Errorf("no user %d", id)
}

func (m *mockUserRepo) UpdateAccount(_ context.Context, login string, patch *domain.AccountPatch) (*domain.User, error) {
	u, ok := m.users[login]
	if !ok {
		return nil, nil
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	return u, nil
}

func (m *mockUserRepo) UpdateUser(_ context.Context, login string, patch *domain.UserPatch) (*domain.User, error) {
	u, ok := m.users[login]
	if !ok {
		return nil, nil
	}
	if patch.Login != nil {
		delete(m.users, login)
		u.Login = *patch.Login
		m.users[u.Login] = u
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Authorities != nil {
		u.Authorities = patch.Authorities
	}
	return u, nil
}

func (m *mockUserRepo) Delete(_ context.Context, login string) error {
	delete(m.users, login)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type mockProfiles struct {
	provisioned []string // logins, in call order
	lastKind    service.ProvisionKind
	err         error
}

func (m *mockProfiles) Provision(_ context.Context, user *domain.User) (service.ProvisionKind, error) {
	m.provisioned = append(m.provisioned, user.Login)
	switch user.PrimaryRole() {
	case domain.RolePatient:
		m.lastKind = service.ProvisionPatient
	case domain.RoleDoctor:
		m.lastKind = service.ProvisionDoctor
	default:
		m.lastKind = service.ProvisionNone
	}
	return m.lastKind, m.err
}

type mockMailer struct {
	activationTo []string
	creationTo   []string
	resetTo      []string
	lastURL      string
	sendErr      error
}

func (m *mockMailer) SendActivationEmail(user *domain.User, activationURL string) error {
	m.activationTo = append(m.activationTo, user.Email)
	m.lastURL = activationURL
	return m.sendErr
}

func (m *mockMailer) SendCreationEmail(user *domain.User, resetURL string) error {
	m.creationTo = append(m.creationTo, user.Email)
	m.lastURL = resetURL
	return m.sendErr
}

func (m *mockMailer) SendPasswordResetEmail(user *domain.User, resetURL string) error {
	m.resetTo = append(m.resetTo, user.Email)
	m.lastURL = resetURL
	return m.sendErr
}

type mockPublisher struct {
	subjects []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockPatientRepo struct {
	saved   []*domain.Patient
	saveErr error
}

func (m *mockPatientRepo) Save(_ context.Context, p *domain.Patient) (*domain.Patient, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	stored := *p
	stored.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, &stored)
	return &stored, nil
}

func (m *mockPatientRepo) FindByID(_ context.Context, id int64) (*domain.Patient, error) {
	for _, p := range m.saved {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPatientRepo) FindByCin(_ context.Context, cin int64) (*domain.Patient, error) {
	for _, p := range m.saved {
		if p.Cin == cin {
			return p, nil
		}
	}
	return nil, nil
}

type mockDoctorRepo struct {
	saved   []*domain.Doctor
	saveErr error
}

func (m *mockDoctorRepo) Save(_ context.Context, d *domain.Doctor) (*domain.Doctor, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	stored := *d
	if stored.ID == 0 {
		stored.ID = int64(len(m.saved) + 1)
	}
	m.saved = append(m.saved, &stored)
	return &stored, nil
}

func (m *mockDoctorRepo) FindByID(_ context.Context, id int64) (*domain.Doctor, error) {
	for _, d := range m.saved {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (m *mockDoctorRepo) FindAll(_ context.Context) ([]domain.Doctor, error) {
	out := []domain.Doctor{}
	for _, d := range m.saved {
		out = append(out, *d)
	}
	return out, nil
}

type mockCareRequestRepo struct {
	requests []domain.CareRequest
}

func (m *mockCareRequestRepo) Create(_ context.Context, in *domain.CreateCareRequestInput) (*domain.CareRequest, error) {
	req := domain.CareRequest{
		ID:          int64(len(m.requests) + 1),
		Patient:     domain.Patient{ID: in.PatientID},
		Doctor:      domain.Doctor{ID: in.DoctorID},
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	m.requests = append(m.requests, req)
	return &req, nil
}

func (m *mockCareRequestRepo) FindByID(_ context.Context, id int64) (*domain.CareRequest, error) {
	for i := range m.requests {
		if m.requests[i].ID == id {
			return &m.requests[i], nil
		}
	}
	return nil, nil
}

func (m *mockCareRequestRepo) FindAll(_ context.Context) ([]domain.CareRequest, error) {
	return append([]domain.CareRequest{}, m.requests...), nil
}

type mockAppointmentRepo struct {
	appointments []domain.Appointment
}

func (m *mockAppointmentRepo) Create(_ context.Context, in *domain.CreateAppointmentInput) (*domain.Appointment, error) {
	appt := domain.Appointment{
		ID:          int64(len(m.appointments) + 1),
		Request:     domain.CareRequest{ID: in.RequestID},
		ScheduledAt: in.ScheduledAt,
		CreatedAt:   time.Now(),
	}
	m.appointments = append(m.appointments, appt)
	return &appt, nil
}

func (m *mockAppointmentRepo) FindAll(_ context.Context) ([]domain.Appointment, error) {
	return append([]domain.Appointment{}, m.appointments...), nil
}
