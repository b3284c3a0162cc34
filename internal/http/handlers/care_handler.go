package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/http/response"
	"github.com/caredesk/caredesk-api/pkg/logger"
)

// CreateCareRequest records a patient's request to see a doctor.
func (h *Handlers) CreateCareRequest(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateCareRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	req, err := h.care.CreateRequest(r.Context(), &in)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "create care request failed", "error", err)
		response.BadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

// ListCareRequests returns every care request with its patient and doctor.
func (h *Handlers) ListCareRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.care.ListRequests(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "list care requests failed", "error", err)
		response.InternalError(w, "Failed to list care requests")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// CreateAppointment schedules an appointment for an existing care request.
func (h *Handlers) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateAppointmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	appointment, err := h.care.CreateAppointment(r.Context(), &in)
	if err != nil {
		if response.DomainError(w, err) {
			return
		}
		logger.ErrorContext(r.Context(), "create appointment failed", "error", err)
		response.BadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, appointment)
}

// ListAppointments returns every appointment with its joined request.
func (h *Handlers) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.care.ListAppointments(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "list appointments failed", "error", err)
		response.InternalError(w, "Failed to list appointments")
		return
	}

	writeJSON(w, http.StatusOK, appointments)
}

// ListDoctors returns the doctor directory.
func (h *Handlers) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.care.ListDoctors(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "list doctors failed", "error", err)
		response.InternalError(w, "Failed to list doctors")
		return
	}

	writeJSON(w, http.StatusOK, doctors)
}
