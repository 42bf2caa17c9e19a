package clinic

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

// Handler serves clinic and dentist profile pages.
type Handler struct {
	catalog *Catalog
	logger  *logging.Logger
}

// NewHandler creates a profile handler over the catalog.
func NewHandler(catalog *Catalog, logger *logging.Logger) *Handler {
	if catalog == nil {
		panic("clinic: catalog required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, logger: logger}
}

// DentistProfile is a dentist together with the clinic that employs them.
type DentistProfile struct {
	Dentist
	OpenSlots []string `json:"open_slots"`
	Clinic    Summary  `json:"clinic"`
}

// GetClinic returns one clinic.
// GET /api/clinics/{clinicID}
func (h *Handler) GetClinic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "clinicID")
	c, err := h.catalog.Clinic(id)
	if errors.Is(err, ErrClinicNotFound) {
		writeError(w, http.StatusNotFound, "clinic not found")
		return
	}
	h.encode(w, c)
}

// GetDentist returns one dentist with their clinic summary.
// GET /api/dentists/{dentistID}
func (h *Handler) GetDentist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "dentistID")
	d, summary, err := h.catalog.Dentist(id)
	if errors.Is(err, ErrDentistNotFound) {
		writeError(w, http.StatusNotFound, "dentist not found")
		return
	}
	open := d.OpenSlotTimes()
	if open == nil {
		open = []string{}
	}
	h.encode(w, DentistProfile{Dentist: d, OpenSlots: open, Clinic: summary})
}

func (h *Handler) encode(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode clinic response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
