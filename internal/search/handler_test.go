package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	h := NewHandler(NewEngine(clinic.DefaultCatalog()), metrics.NewSearchMetrics(reg), nil)
	r := chi.NewRouter()
	r.Get("/clinics", h.ListClinics)
	r.Get("/search/keyword", h.ByKeyword)
	r.Get("/search/location", h.ByLocation)
	r.Get("/search/specialty", h.BySpecialty)
	r.Get("/search/region", h.ByRegion)
	r.Get("/options", h.GetOptions)
	return r, reg
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResults(t *testing.T, w *httptest.ResponseRecorder) ResultsResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ResultsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestListClinicsWithFilters(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := decodeResults(t, get(t, r, "/clinics?specialty=Orthodontics"))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Melbourne Family Dental", resp.Clinics[0].Name)
	assert.Equal(t, "VIC", resp.Clinics[0].Region)

	resp = decodeResults(t, get(t, r, "/clinics?gender=female&language=French"))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "clinic-1", resp.Clinics[0].ID)

	resp = decodeResults(t, get(t, r, "/clinics"))
	assert.Equal(t, 4, resp.Count)
}

func TestListClinicsNoMatchReturnsEmptyList(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(t, r, "/clinics?location=Hobart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clinics":[],"count":0}`, w.Body.String())
}

func TestSearchEndpoints(t *testing.T) {
	r, reg := newTestRouter(t)

	tests := []struct {
		target string
		want   []string
	}{
		{target: "/search/keyword?q=dental", want: []string{"clinic-1", "clinic-2", "clinic-3"}},
		{target: "/search/location?q=Perth", want: []string{"clinic-4"}},
		{target: "/search/specialty?q=veneers", want: []string{"clinic-3"}},
		{target: "/search/region?q=nsw", want: []string{"clinic-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp := decodeResults(t, get(t, r, tt.target))
			got := make([]string, len(resp.Clinics))
			for i, c := range resp.Clinics {
				got[i] = c.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, f := range families {
		if f.GetName() != "dentalsuite_search_queries_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 4.0, total)
}

func TestSearchRegionRequiresQuery(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(t, r, "/search/region")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOptions(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(t, r, "/options")
	require.Equal(t, http.StatusOK, w.Code)
	var opts Options
	require.NoError(t, json.NewDecoder(w.Body).Decode(&opts))
	assert.Equal(t, []string{"NSW", "QLD", "VIC", "WA"}, opts.Regions)
	assert.Contains(t, opts.Languages, "Mandarin")
	assert.Contains(t, opts.Insurances, "HBF")
	assert.Len(t, opts.AvailableDays, 7)
}
