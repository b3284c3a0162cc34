package domain

import (
	"fmt"
	"strings"
)

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        *UserInfo `json:"user"`
}

type KeyAndPassword struct {
	Key         string `json:"key"`
	NewPassword string `json:"new_password"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *LoginRequest) Validate() error {
	if r.Login == "" {
		return fmt.Errorf("login is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Login = strings.ToLower(strings.TrimSpace(r.Login))
}
