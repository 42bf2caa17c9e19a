package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/bookings"
)

func newTestRouter(t *testing.T) (http.Handler, *wizardFixture) {
	t.Helper()
	f := newWizardFixture(t)
	r := chi.NewRouter()
	r.Route("/sessions", NewHandler(f.wizard, nil).Routes)
	return r, f
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) Session {
	t.Helper()
	var s Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestHandlerFullFlow(t *testing.T) {
	h, f := newTestRouter(t)
	defer f.cleanup()

	rec := doJSON(t, h, http.MethodPost, "/sessions/", validStart())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decodeSession(t, rec)
	base := "/sessions/" + session.ID

	for _, in := range stepInputs() {
		rec = doJSON(t, h, http.MethodPost, base+"/steps", in)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StepPersonalDetails, decodeSession(t, rec).Step)

	rec = doJSON(t, h, http.MethodPost, base+"/steps", stepInputs()[4])
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, base+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	confirmed := decodeSession(t, rec)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Equal(t, "appt-1", confirmed.AppointmentID)

	rec = doJSON(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusConfirmed, decodeSession(t, rec).Status)

	rec = doJSON(t, h, http.MethodPost, base+"/steps", stepInputs()[0])
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerErrors(t *testing.T) {
	h, f := newTestRouter(t)
	defer f.cleanup()

	rec := doJSON(t, h, http.MethodPost, "/sessions/", validStart())
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/sessions/" + decodeSession(t, rec).ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "unknown session", method: http.MethodGet, path: "/sessions/missing", want: http.StatusNotFound},
		{name: "unknown dentist", method: http.MethodPost, path: "/sessions/", body: StartRequest{DentistID: "nobody", Date: "2026-10-20", Time: "10:30 AM"}, want: http.StatusNotFound},
		{name: "wrong clinic", method: http.MethodPost, path: "/sessions/", body: StartRequest{ClinicID: "clinic-3", DentistID: "dentist-1", Date: "2026-10-20", Time: "10:30 AM"}, want: http.StatusBadRequest},
		{name: "closed slot", method: http.MethodPost, path: "/sessions/", body: StartRequest{DentistID: "dentist-2", Date: "2026-10-20", Time: "11:00 AM"}, want: http.StatusConflict},
		{name: "invalid answer", method: http.MethodPost, path: base + "/steps", body: StepInput{Step: StepAppointmentFor, AppointmentFor: "nobody"}, want: http.StatusBadRequest},
		{name: "step mismatch", method: http.MethodPost, path: base + "/steps", body: StepInput{Step: StepAuthentication, AuthMode: "guest"}, want: http.StatusConflict},
		{name: "back from first step", method: http.MethodPost, path: base + "/back", want: http.StatusConflict},
		{name: "confirm too early", method: http.MethodPost, path: base + "/confirm", want: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandlerBadBody(t *testing.T) {
	h, f := newTestRouter(t)
	defer f.cleanup()

	req := httptest.NewRequest(http.MethodPost, "/sessions/", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerSlotTakenConflict(t *testing.T) {
	h, f := newTestRouter(t)
	defer f.cleanup()
	f.booker.err = bookings.ErrSlotTaken

	rec := doJSON(t, h, http.MethodPost, "/sessions/", validStart())
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/sessions/" + decodeSession(t, rec).ID
	for _, in := range stepInputs() {
		require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, base+"/steps", in).Code)
	}

	rec = doJSON(t, h, http.MethodPost, base+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerAbandon(t *testing.T) {
	h, f := newTestRouter(t)
	defer f.cleanup()

	rec := doJSON(t, h, http.MethodPost, "/sessions/", validStart())
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/sessions/" + decodeSession(t, rec).ID

	rec = doJSON(t, h, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, h, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
