package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/bookings"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

// Handler exposes the wizard over HTTP.
type Handler struct {
	wizard *Wizard
	logger *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(wizard *Wizard, logger *logging.Logger) *Handler {
	if wizard == nil {
		panic("booking: wizard required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{wizard: wizard, logger: logger}
}

// Routes mounts the session endpoints under /api/booking/sessions.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.StartSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.AbandonSession)
		r.Post("/steps", h.SubmitStep)
		r.Post("/back", h.StepBack)
		r.Post("/confirm", h.ConfirmSession)
	})
}

// StartSession handles POST /api/booking/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.wizard.Start(r.Context(), req)
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /api/booking/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.wizard.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SubmitStep handles POST /api/booking/sessions/{sessionID}/steps
func (h *Handler) SubmitStep(w http.ResponseWriter, r *http.Request) {
	var in StepInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.wizard.Submit(r.Context(), chi.URLParam(r, "sessionID"), in)
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// StepBack handles POST /api/booking/sessions/{sessionID}/back
func (h *Handler) StepBack(w http.ResponseWriter, r *http.Request) {
	session, err := h.wizard.Back(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// ConfirmSession handles POST /api/booking/sessions/{sessionID}/confirm
func (h *Handler) ConfirmSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.wizard.Confirm(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// AbandonSession handles DELETE /api/booking/sessions/{sessionID}
func (h *Handler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	if err := h.wizard.Abandon(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.writeWizardError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, clinic.ErrDentistNotFound):
		writeError(w, http.StatusNotFound, "dentist not found")
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDentistNotAtClinic):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStepMismatch),
		errors.Is(err, ErrNoPreviousStep),
		errors.Is(err, ErrSessionClosed),
		errors.Is(err, ErrNotReady),
		errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, bookings.ErrSlotTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("booking request failed", "error", err)
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
