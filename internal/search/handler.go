package search

import (
	"encoding/json"
	"net/http"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/observability/metrics"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

// Handler serves the clinic search endpoints.
type Handler struct {
	engine  *Engine
	metrics *metrics.SearchMetrics
	logger  *logging.Logger
}

// NewHandler creates a search handler. m may be nil.
func NewHandler(engine *Engine, m *metrics.SearchMetrics, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("search: engine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, metrics: m, logger: logger}
}

// ClinicView is a clinic as returned by the search API.
type ClinicView struct {
	clinic.Clinic
	Region string `json:"region"`
}

// ResultsResponse wraps a list of matching clinics.
type ResultsResponse struct {
	Clinics []ClinicView `json:"clinics"`
	Count   int          `json:"count"`
}

// ListClinics applies the search-page filters.
// GET /api/clinics?service=&location=&specialty=&language=&gender=&insurance=&availableDays=
func (h *Handler) ListClinics(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromQuery(r.URL.Query())
	kind := "filters"
	if f.IsEmpty() {
		kind = "all"
	}
	h.respond(w, kind, h.engine.WithFilters(f))
}

// ByKeyword handles GET /api/search/keyword?q=
func (h *Handler) ByKeyword(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "keyword", h.engine.ByKeyword(r.URL.Query().Get("q")))
}

// ByLocation handles GET /api/search/location?q=
func (h *Handler) ByLocation(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "location", h.engine.ByLocation(r.URL.Query().Get("q")))
}

// BySpecialty handles GET /api/search/specialty?q=
func (h *Handler) BySpecialty(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "specialty", h.engine.BySpecialty(r.URL.Query().Get("q")))
}

// ByRegion handles GET /api/search/region?q=
func (h *Handler) ByRegion(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	h.respond(w, "region", h.engine.ByRegion(q))
}

// GetOptions returns every picker list.
// GET /api/options
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	h.encode(w, h.engine.Options())
}

func (h *Handler) respond(w http.ResponseWriter, kind string, clinics []clinic.Clinic) {
	h.metrics.ObserveQuery(kind, len(clinics))
	views := make([]ClinicView, len(clinics))
	for i, c := range clinics {
		views[i] = ClinicView{Clinic: c, Region: RegionToken(c.Address)}
	}
	h.encode(w, ResultsResponse{Clinics: views, Count: len(views)})
}

func (h *Handler) encode(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode search response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
