package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caredesk/caredesk-api/internal/domain"
)

type PatientRepository interface {
	Save(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	FindByID(ctx context.Context, id int64) (*domain.Patient, error)
	FindByCin(ctx context.Context, cin int64) (*domain.Patient, error)
}

type DoctorRepository interface {
	Save(ctx context.Context, d *domain.Doctor) (*domain.Doctor, error)
	FindByID(ctx context.Context, id int64) (*domain.Doctor, error)
	FindAll(ctx context.Context) ([]domain.Doctor, error)
}

type patientRepository struct {
	pool *pgxpool.Pool
}

func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

const patientCols = `id, cin, name, email, phone, created_at, updated_at`

func (r *patientRepository) Save(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	const q = `
		INSERT INTO patients (cin, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + patientCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var out domain.Patient
	err := r.pool.QueryRow(ctx, q, p.Cin, p.Name, p.Email, p.Phone).Scan(
		&out.ID, &out.Cin, &out.Name, &out.Email, &out.Phone, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *patientRepository) FindByID(ctx context.Context, id int64) (*domain.Patient, error) {
	const q = `SELECT ` + patientCols + ` FROM patients WHERE id = $1`
	return r.findOne(ctx, q, id)
}

func (r *patientRepository) FindByCin(ctx context.Context, cin int64) (*domain.Patient, error) {
	const q = `SELECT ` + patientCols + ` FROM patients WHERE cin = $1`
	return r.findOne(ctx, q, cin)
}

func (r *patientRepository) findOne(ctx context.Context, q string, arg any) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Patient
	err := r.pool.QueryRow(ctx, q, arg).Scan(
		&p.ID, &p.Cin, &p.Name, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type doctorRepository struct {
	pool *pgxpool.Pool
}

func NewDoctorRepository(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepository{pool: pool}
}

const doctorCols = `id, cin, name, email, phone, address, speciality, created_at, updated_at`

func (r *doctorRepository) Save(ctx context.Context, d *domain.Doctor) (*domain.Doctor, error) {
	const q = `
		INSERT INTO doctors (cin, name, email, phone, address, speciality)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + doctorCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var out domain.Doctor
	err := r.pool.QueryRow(ctx, q, d.Cin, d.Name, d.Email, d.Phone, d.Address, d.Speciality).Scan(
		&out.ID, &out.Cin, &out.Name, &out.Email, &out.Phone, &out.Address, &out.Speciality,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	const q = `SELECT ` + doctorCols + ` FROM doctors WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var d domain.Doctor
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&d.ID, &d.Cin, &d.Name, &d.Email, &d.Phone, &d.Address, &d.Speciality,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepository) FindAll(ctx context.Context) ([]domain.Doctor, error) {
	const q = `SELECT ` + doctorCols + ` FROM doctors ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []domain.Doctor
	for rows.Next() {
		var d domain.Doctor
		if err := rows.Scan(
			&d.ID, &d.Cin, &d.Name, &d.Email, &d.Phone, &d.Address, &d.Speciality,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}

	return doctors, rows.Err()
}
