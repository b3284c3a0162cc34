package domain

import "time"

// Placeholder values stamped onto freshly provisioned profiles. Users are
// expected to replace them after first login.
const (
	PatientPhonePlaceholder     = "216000000"
	DoctorPhonePlaceholder      = "2160000"
	DoctorAddressPlaceholder    = "please provide your address"
	DoctorSpecialityPlaceholder = "please provide your speciality"
)

// Patient is the role-specific profile provisioned for ROLE_PATIENT
// accounts. Cin carries the owning user's numeric id and is the join key
// used by care requests and appointments.
type Patient struct {
	ID        int64     `json:"id"`
	Cin       int64     `json:"cin"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Doctor is the role-specific profile provisioned for ROLE_DOCTOR accounts.
// Cin is the owning user's id; the column is a BIGINT, wide enough for any
// user id this system will ever mint, and is always compared by value.
type Doctor struct {
	ID         int64     `json:"id"`
	Cin        int64     `json:"cin"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Speciality string    `json:"speciality"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
