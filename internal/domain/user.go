package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Password length policy, bounds inclusive.
const (
	PasswordMinLength = 4
	PasswordMaxLength = 100
)

// Roles. The first entry of a user's authority list is the primary role and
// drives profile provisioning.
const (
	RolePatient = "ROLE_PATIENT"
	RoleDoctor  = "ROLE_DOCTOR"
	RoleAdmin   = "ROLE_ADMIN"
	RoleUser    = "ROLE_USER"
)

var validRoles = map[string]bool{
	RolePatient: true,
	RoleDoctor:  true,
	RoleAdmin:   true,
	RoleUser:    true,
}

func IsValidRole(role string) bool {
	return validRoles[role]
}

// Roles returns the known role tags in a stable order.
func Roles() []string {
	return []string{RoleAdmin, RoleDoctor, RolePatient, RoleUser}
}

type User struct {
	ID            int64      `json:"id"`
	Login         string     `json:"login"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Activated     bool       `json:"activated"`
	ActivationKey *string    `json:"-"`
	ResetKey      *string    `json:"-"`
	ResetDate     *time.Time `json:"-"`
	Authorities   []string   `json:"authorities"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PrimaryRole is the first declared authority, or "" for an empty set.
func (u *User) PrimaryRole() string {
	if len(u.Authorities) == 0 {
		return ""
	}
	return u.Authorities[0]
}

type RegisterRequest struct {
	Login       string   `json:"login"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Authorities []string `json:"authorities"`
}

type AccountPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// UserPatch is the admin-side update. Unlike AccountPatch it can also rename
// the login and replace the authority set.
type UserPatch struct {
	Login       *string  `json:"login,omitempty"`
	FirstName   *string  `json:"first_name,omitempty"`
	LastName    *string  `json:"last_name,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
}

func (p *UserPatch) Validate() error {
	if p.Login != nil && !loginRegex.MatchString(*p.Login) {
		return fmt.Errorf("invalid login format")
	}
	if p.Email != nil && !isValidEmail(*p.Email) {
		return fmt.Errorf("invalid email format")
	}
	for _, role := range p.Authorities {
		if !IsValidRole(role) {
			return fmt.Errorf("unknown authority: %s", role)
		}
	}
	return nil
}

func (p *UserPatch) Normalize() {
	if p.Login != nil {
		l := strings.ToLower(strings.TrimSpace(*p.Login))
		p.Login = &l
	}
	if p.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*p.Email))
		p.Email = &e
	}
}

type UserInfo struct {
	ID          int64    `json:"id"`
	Login       string   `json:"login"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Activated   bool     `json:"activated"`
	Authorities []string `json:"authorities"`
}

// CheckPasswordLength enforces the inclusive [min, max] policy.
func CheckPasswordLength(password string) error {
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return ErrInvalidPassword
	}
	return nil
}

func (r *RegisterRequest) Validate() error {
	if r.Login == "" {
		return fmt.Errorf("login is required")
	}
	if !loginRegex.MatchString(r.Login) {
		return fmt.Errorf("invalid login format")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if len(r.Authorities) == 0 {
		return fmt.Errorf("at least one authority is required")
	}
	for _, role := range r.Authorities {
		if !IsValidRole(role) {
			return fmt.Errorf("unknown authority: %s", role)
		}
	}
	return nil
}

// Normalize lowercases login and email; uniqueness checks are
// case-insensitive by construction after this.
func (r *RegisterRequest) Normalize() {
	r.Login = strings.ToLower(strings.TrimSpace(r.Login))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

var (
	loginRegex = regexp.MustCompile(`^[a-z0-9._-]+$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ToUserInfo converts User to UserInfo (without sensitive data)
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:          u.ID,
		Login:       u.Login,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Activated:   u.Activated,
		Authorities: u.Authorities,
	}
}
