package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/http/response"
	"github.com/caredesk/caredesk-api/pkg/logger"
)

// Register creates a new account from a signup form.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.accounts.Register(r.Context(), &req)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "register failed", "error", err)
		response.BadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, user.ToUserInfo())
}

// Activate flips an account to active for a valid activation key.
func (h *Handlers) Activate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, "Activation key is required")
		return
	}

	user, err := h.accounts.Activate(r.Context(), key)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "activation failed", "error", err)
		response.InternalError(w, "Failed to activate account")
		return
	}

	writeJSON(w, http.StatusOK, user.ToUserInfo())
}

// Authenticate verifies credentials and issues an access token.
func (h *Handlers) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.accounts.Authenticate(r.Context(), &req)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// CurrentLogin echoes the login of the authenticated caller.
func (h *Handlers) CurrentLogin(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"login": claims.Login})
}

// GetAccount returns the authenticated caller's account.
func (h *Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	user, err := h.accounts.GetAccount(r.Context(), claims.Login)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "get account failed", "error", err)
		response.InternalError(w, "Failed to load account")
		return
	}

	writeJSON(w, http.StatusOK, user.ToUserInfo())
}

// SaveAccount updates the authenticated caller's name and email.
func (h *Handlers) SaveAccount(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var patch domain.AccountPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.accounts.UpdateAccount(r.Context(), claims.Login, &patch); err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "update account failed", "error", err)
		response.InternalError(w, "Failed to update account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword sets a new password for the authenticated caller.
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), claims.Login, req.CurrentPassword, req.NewPassword); err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "change password failed", "error", err)
		response.InternalError(w, "Failed to change password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RequestPasswordReset starts the reset flow for a registered, activated email.
func (h *Handlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" {
		response.BadRequest(w, "Email is required")
		return
	}

	if _, err := h.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "password reset init failed", "error", err)
		response.InternalError(w, "Failed to request password reset")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FinishPasswordReset consumes a reset key and sets the new password.
func (h *Handlers) FinishPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req domain.KeyAndPassword
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Key == "" {
		response.BadRequest(w, "Reset key is required")
		return
	}

	if _, err := h.accounts.CompletePasswordReset(r.Context(), req.NewPassword, req.Key); err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "password reset finish failed", "error", err)
		response.InternalError(w, "Failed to reset password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
