package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

// Handler serves the patient appointment dashboard.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("bookings: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// ListAppointments handles GET /api/appointments?email=
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	list, err := h.service.ListForPatient(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": list, "count": len(list)})
}

// GetAppointment handles GET /api/appointments/{appointmentID}
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// CancelAppointment handles POST /api/appointments/{appointmentID}/cancel
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	if err := h.service.Cancel(r.Context(), id); err != nil {
		h.writeServiceError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": StatusCancelled})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, id string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, "appointment already cancelled")
	default:
		h.logger.Error("appointment request failed", "error", err, "appointment_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
