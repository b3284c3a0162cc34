package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caredesk/caredesk-api/internal/domain"
)

type CareRequestRepository interface {
	Create(ctx context.Context, in *domain.CreateCareRequestInput) (*domain.CareRequest, error)
	FindByID(ctx context.Context, id int64) (*domain.CareRequest, error)
	FindAll(ctx context.Context) ([]domain.CareRequest, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, in *domain.CreateAppointmentInput) (*domain.Appointment, error)
	FindAll(ctx context.Context) ([]domain.Appointment, error)
}

type careRequestRepository struct {
	pool *pgxpool.Pool
}

func NewCareRequestRepository(pool *pgxpool.Pool) CareRequestRepository {
	return &careRequestRepository{pool: pool}
}

// Requests are always read together with their patient and doctor; the
// resolver filters on the embedded patient cin.
const requestSelect = `
	SELECT r.id, r.description, r.created_at,
	       p.id, p.cin, p.name, p.email, p.phone, p.created_at, p.updated_at,
	       d.id, d.cin, d.name, d.email, d.phone, d.address, d.speciality, d.created_at, d.updated_at
	FROM care_requests r
	JOIN patients p ON p.id = r.patient_id
	JOIN doctors d ON d.id = r.doctor_id`

func scanCareRequest(row pgx.Row) (*domain.CareRequest, error) {
	var cr domain.CareRequest
	err := row.Scan(
		&cr.ID, &cr.Description, &cr.CreatedAt,
		&cr.Patient.ID, &cr.Patient.Cin, &cr.Patient.Name, &cr.Patient.Email, &cr.Patient.Phone,
		&cr.Patient.CreatedAt, &cr.Patient.UpdatedAt,
		&cr.Doctor.ID, &cr.Doctor.Cin, &cr.Doctor.Name, &cr.Doctor.Email, &cr.Doctor.Phone,
		&cr.Doctor.Address, &cr.Doctor.Speciality, &cr.Doctor.CreatedAt, &cr.Doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

func (r *careRequestRepository) Create(ctx context.Context, in *domain.CreateCareRequestInput) (*domain.CareRequest, error) {
	const q = `
		INSERT INTO care_requests (patient_id, doctor_id, description)
		VALUES ($1, $2, $3)
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	if err := r.pool.QueryRow(ctx, q, in.PatientID, in.DoctorID, in.Description).Scan(&id); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *careRequestRepository) FindByID(ctx context.Context, id int64) (*domain.CareRequest, error) {
	const q = requestSelect + ` WHERE r.id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	cr, err := scanCareRequest(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return cr, err
}

func (r *careRequestRepository) FindAll(ctx context.Context) ([]domain.CareRequest, error) {
	const q = requestSelect + ` ORDER BY r.id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.CareRequest
	for rows.Next() {
		cr, err := scanCareRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *cr)
	}

	return requests, rows.Err()
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

const appointmentSelect = `
	SELECT a.id, a.scheduled_at, a.created_at,
	       r.id, r.description, r.created_at,
	       p.id, p.cin, p.name, p.email, p.phone, p.created_at, p.updated_at,
	       d.id, d.cin, d.name, d.email, d.phone, d.address, d.speciality, d.created_at, d.updated_at
	FROM appointments a
	JOIN care_requests r ON r.id = a.request_id
	JOIN patients p ON p.id = r.patient_id
	JOIN doctors d ON d.id = r.doctor_id`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID, &a.ScheduledAt, &a.CreatedAt,
		&a.Request.ID, &a.Request.Description, &a.Request.CreatedAt,
		&a.Request.Patient.ID, &a.Request.Patient.Cin, &a.Request.Patient.Name,
		&a.Request.Patient.Email, &a.Request.Patient.Phone,
		&a.Request.Patient.CreatedAt, &a.Request.Patient.UpdatedAt,
		&a.Request.Doctor.ID, &a.Request.Doctor.Cin, &a.Request.Doctor.Name,
		&a.Request.Doctor.Email, &a.Request.Doctor.Phone,
		&a.Request.Doctor.Address, &a.Request.Doctor.Speciality,
		&a.Request.Doctor.CreatedAt, &a.Request.Doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) Create(ctx context.Context, in *domain.CreateAppointmentInput) (*domain.Appointment, error) {
	const q = `
		INSERT INTO appointments (request_id, scheduled_at)
		VALUES ($1, $2)
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	if err := r.pool.QueryRow(ctx, q, in.RequestID, in.ScheduledAt).Scan(&id); err != nil {
		return nil, err
	}

	const sel = appointmentSelect + ` WHERE a.id = $1`
	a, err := scanAppointment(r.pool.QueryRow(ctx, sel, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *appointmentRepository) FindAll(ctx context.Context) ([]domain.Appointment, error) {
	const q = appointmentSelect + ` ORDER BY a.id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *a)
	}

	return appointments, rows.Err()
}
