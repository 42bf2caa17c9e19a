package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/observability/metrics"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

// maxHorizonDays bounds the scan a single request may ask for.
const maxHorizonDays = 366

// HandlerConfig holds request defaults.
type HandlerConfig struct {
	HorizonDays int
	MaxResults  int
}

// Handler serves dentist availability.
type Handler struct {
	catalog    *clinic.Catalog
	calculator *Calculator
	cfg        HandlerConfig
	metrics    *metrics.SearchMetrics
	logger     *logging.Logger
}

// NewHandler creates an availability handler. m may be nil.
func NewHandler(catalog *clinic.Catalog, calc *Calculator, cfg HandlerConfig, m *metrics.SearchMetrics, logger *logging.Logger) *Handler {
	if catalog == nil {
		panic("availability: catalog required")
	}
	if calc == nil {
		panic("availability: calculator required")
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 45
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, calculator: calc, cfg: cfg, metrics: m, logger: logger}
}

// DayView is a bookable day on the wire.
type DayView struct {
	Date  string   `json:"date"`
	Label string   `json:"label"`
	Slots []string `json:"slots"`
}

// Response is the availability payload.
type Response struct {
	DentistID string    `json:"dentist_id"`
	ClinicID  string    `json:"clinic_id"`
	From      string    `json:"from"`
	Days      []DayView `json:"days"`
}

var errBadParam = errors.New("invalid parameter")

// GetAvailability lists the next bookable days of a dentist.
// GET /api/dentists/{dentistID}/availability?from=YYYY-MM-DD&horizon=&max=
// GET /api/dentists/{dentistID}/availability?year=&month=
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	dentistID := chi.URLParam(r, "dentistID")
	dentist, summary, err := h.catalog.Dentist(dentistID)
	if errors.Is(err, clinic.ErrDentistNotFound) {
		writeError(w, http.StatusNotFound, "dentist not found")
		return
	}

	q := r.URL.Query()
	horizon, err := intParam(q.Get("horizon"), h.cfg.HorizonDays, 0, maxHorizonDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "horizon must be an integer between 0 and 366")
		return
	}
	maxResults, err := intParam(q.Get("max"), h.cfg.MaxResults, 0, maxHorizonDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "max must be a non-negative integer")
		return
	}

	var (
		from time.Time
		days []BookableDay
		mode string
	)
	switch {
	case q.Get("year") != "" || q.Get("month") != "":
		year, err := intParam(q.Get("year"), 0, 1, 9999)
		if err != nil || q.Get("year") == "" {
			writeError(w, http.StatusBadRequest, "year is required with month")
			return
		}
		month, err := intParam(q.Get("month"), 0, 1, 12)
		if err != nil || q.Get("month") == "" {
			writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		mode = "month"
		days = h.calculator.MonthView(dentist, year, time.Month(month), horizon, maxResults)
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, h.calculator.Location())
		if today := h.calculator.Today(); today.Year() == year && today.Month() == time.Month(month) {
			from = today
		}
	case q.Get("from") != "":
		from, err = h.calculator.ParseDate(q.Get("from"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		mode = "range"
		days = h.calculator.NextAvailableDates(dentist, from, horizon, maxResults)
	default:
		from = h.calculator.Today()
		mode = "range"
		days = h.calculator.NextAvailableDates(dentist, from, horizon, maxResults)
	}
	h.metrics.ObserveAvailability(mode, len(days))

	resp := Response{
		DentistID: dentist.ID,
		ClinicID:  summary.ID,
		From:      from.Format(DateLayout),
		Days:      make([]DayView, len(days)),
	}
	for i, d := range days {
		resp.Days[i] = DayView{Date: d.Date.Format(DateLayout), Label: d.Label, Slots: d.Slots}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode availability response", "error", err, "dentist_id", dentistID)
	}
}

// intParam parses an optional integer within [lo, hi]; empty yields def.
func intParam(raw string, def, lo, hi int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, errBadParam
	}
	return v, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
