package metrics

import "github.com/prometheus/client_golang/prometheus"

// SearchMetrics exposes counters/histograms for catalog queries.
type SearchMetrics struct {
	queriesTotal        *prometheus.CounterVec
	resultSize          *prometheus.HistogramVec
	availabilityLookups *prometheus.CounterVec
}

func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	m := &SearchMetrics{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dentalsuite",
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Total catalog queries by kind",
		}, []string{"kind"}),
		resultSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dentalsuite",
			Subsystem: "search",
			Name:      "results",
			Help:      "Number of clinics returned per query",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"kind"}),
		availabilityLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dentalsuite",
			Subsystem: "availability",
			Name:      "lookups_total",
			Help:      "Total availability lookups by mode and whether any day was found",
		}, []string{"mode", "found"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.queriesTotal, m.resultSize, m.availabilityLookups)
	return m
}

// ObserveQuery records one query of the given kind and its result count.
func (m *SearchMetrics) ObserveQuery(kind string, results int) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(kind).Inc()
	m.resultSize.WithLabelValues(kind).Observe(float64(results))
}

func (m *SearchMetrics) ObserveAvailability(mode string, days int) {
	if m == nil {
		return
	}
	m.availabilityLookups.WithLabelValues(mode, boolLabel(days > 0)).Inc()
}

// BookingMetrics exposes counters for the booking wizard.
type BookingMetrics struct {
	sessionsStarted *prometheus.CounterVec
	stepTransitions *prometheus.CounterVec
	confirmations   *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dentalsuite",
			Subsystem: "booking",
			Name:      "sessions_started_total",
			Help:      "Booking sessions started, by clinic",
		}, []string{"clinic_id"}),
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dentalsuite",
			Subsystem: "booking",
			Name:      "step_transitions_total",
			Help:      "Wizard step transitions by step and direction",
		}, []string{"step", "direction"}),
		confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dentalsuite",
			Subsystem: "booking",
			Name:      "confirmations_total",
			Help:      "Booking confirmations by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsStarted, m.stepTransitions, m.confirmations)
	return m
}

func (m *BookingMetrics) ObserveSessionStarted(clinicID string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(clinicID).Inc()
}

// ObserveStep records a move into step; direction is "forward" or "back".
func (m *BookingMetrics) ObserveStep(step, direction string) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(step, direction).Inc()
}

func (m *BookingMetrics) ObserveConfirmation(outcome string) {
	if m == nil {
		return
	}
	m.confirmations.WithLabelValues(outcome).Inc()
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
