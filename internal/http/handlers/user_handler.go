package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/http/response"
	"github.com/caredesk/caredesk-api/pkg/logger"
)

// CreateUser provisions an account on behalf of an administrator. The
// account comes back activated with a reset key so the new user can pick
// their own password.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), &req)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "create user failed", "error", err)
		response.BadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, user.ToUserInfo())
}

// UpdateUser applies an administrator's changes to an account, including
// login renames and authority changes.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	var patch domain.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.accounts.UpdateUser(r.Context(), login, &patch)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "update user failed", "error", err)
		response.BadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, user.ToUserInfo())
}

// ListUsers returns a page of accounts.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	users, err := h.accounts.ListUsers(r.Context(), limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "list users failed", "error", err)
		response.InternalError(w, "Failed to list users")
		return
	}

	infos := make([]*domain.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].ToUserInfo())
	}

	writeJSON(w, http.StatusOK, infos)
}

// GetUser returns a single account by login.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	user, err := h.accounts.GetAccount(r.Context(), login)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "get user failed", "error", err)
		response.InternalError(w, "Failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user.ToUserInfo())
}

// DeleteUser removes an account by login.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	if err := h.accounts.DeleteUser(r.Context(), login); err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "delete user failed", "error", err)
		response.InternalError(w, "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAuthorities returns the role catalog.
func (h *Handlers) ListAuthorities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Roles())
}

// MyDoctors lists the doctors the caller has sent a care request to.
func (h *Handlers) MyDoctors(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	doctors, err := h.relationships.DoctorsForUser(r.Context(), claims.Login)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "my doctors failed", "error", err)
		response.InternalError(w, "Failed to load doctors")
		return
	}

	writeJSON(w, http.StatusOK, doctors)
}

// MyAppointments lists the caller's appointments. Staff accounts see all
// appointments.
func (h *Handlers) MyAppointments(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	appointments, err := h.relationships.AppointmentsForUser(r.Context(), claims.Login)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "my appointments failed", "error", err)
		response.InternalError(w, "Failed to load appointments")
		return
	}

	writeJSON(w, http.StatusOK, appointments)
}

// MyAppointmentDoctors lists the doctors behind the caller's appointments.
func (h *Handlers) MyAppointmentDoctors(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	doctors, err := h.relationships.AppointmentDoctorsForUser(r.Context(), claims.Login)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "my appointment doctors failed", "error", err)
		response.InternalError(w, "Failed to load doctors")
		return
	}

	writeJSON(w, http.StatusOK, doctors)
}
