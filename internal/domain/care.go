package domain

import (
	"fmt"
	"time"
)

// CareRequest links a patient asking for care to a doctor. Appointments are
// scheduled from a request and inherit its patient/doctor pair.
type CareRequest struct {
	ID          int64     `json:"id"`
	Patient     Patient   `json:"patient"`
	Doctor      Doctor    `json:"doctor"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Appointment struct {
	ID          int64       `json:"id"`
	Request     CareRequest `json:"request"`
	ScheduledAt time.Time   `json:"scheduled_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

type CreateCareRequestInput struct {
	PatientID   int64  `json:"patient_id"`
	DoctorID    int64  `json:"doctor_id"`
	Description string `json:"description"`
}

type CreateAppointmentInput struct {
	RequestID   int64     `json:"request_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (in *CreateCareRequestInput) Validate() error {
	if in.PatientID <= 0 {
		return fmt.Errorf("patient_id is required")
	}
	if in.DoctorID <= 0 {
		return fmt.Errorf("doctor_id is required")
	}
	return nil
}

func (in *CreateAppointmentInput) Validate() error {
	if in.RequestID <= 0 {
		return fmt.Errorf("request_id is required")
	}
	if in.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	return nil
}
