package booking

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/availability"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/bookings"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/notify"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/observability/metrics"
)

type fakeBooker struct {
	requests []bookings.CreateRequest
	err      error
}

func (f *fakeBooker) Book(_ context.Context, req bookings.CreateRequest) (*bookings.Appointment, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &bookings.Appointment{
		ID:        "appt-1",
		ClinicID:  req.ClinicID,
		DentistID: req.DentistID,
		Date:      req.Date.Format("2006-01-02"),
		SlotTime:  req.SlotTime,
		Status:    bookings.StatusConfirmed,
		CreatedAt: time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC),
	}, nil
}

type fakeNotifier struct {
	sent []notify.BookingDetails
	err  error
}

func (f *fakeNotifier) NotifyBooked(_ context.Context, b notify.BookingDetails) error {
	f.sent = append(f.sent, b)
	return f.err
}

type wizardFixture struct {
	wizard   *Wizard
	booker   *fakeBooker
	notifier *fakeNotifier
	cleanup  func()
}

func newWizardFixture(t *testing.T) *wizardFixture {
	t.Helper()
	client, _, cleanup := setupTestRedis(t)

	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)
	// Saturday 17 October 2026
	calc := availability.New(loc, availability.WithClock(func() time.Time {
		return time.Date(2026, time.October, 17, 9, 0, 0, 0, loc)
	}))

	f := &wizardFixture{booker: &fakeBooker{}, notifier: &fakeNotifier{}, cleanup: cleanup}
	f.wizard = NewWizard(WizardDeps{
		Catalog:    clinic.DefaultCatalog(),
		Calculator: calc,
		Store:      NewRedisSessionStore(client, time.Hour),
		Booker:     f.booker,
		Notifier:   f.notifier,
		Metrics:    metrics.NewBookingMetrics(prometheus.NewRegistry()),
	})
	return f
}

func validStart() StartRequest {
	return StartRequest{ClinicID: "clinic-1", DentistID: "dentist-1", Date: "2026-10-20", Time: "10:30 am"}
}

func stepInputs() []StepInput {
	return []StepInput{
		{Step: StepAppointmentFor, AppointmentFor: "self"},
		{Step: StepPatientStatus, PatientStatus: "New"},
		{Step: StepServiceType, ServiceType: "Check-up & Clean"},
		{Step: StepAuthentication, AuthMode: "guest"},
		{Step: StepPersonalDetails, Patient: &bookings.Patient{
			FirstName:   "Priya",
			LastName:    "Sharma",
			Email:       "priya@example.com",
			Phone:       "+61400000000",
			DateOfBirth: "1990-04-12",
		}},
	}
}

func walkToConfirmation(t *testing.T, w *Wizard, id string) *Session {
	t.Helper()
	var (
		session *Session
		err     error
	)
	for _, in := range stepInputs() {
		session, err = w.Submit(context.Background(), id, in)
		require.NoError(t, err, in.Step)
	}
	return session
}

func TestStartCreatesSessionAtFirstStep(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()

	session, err := f.wizard.Start(context.Background(), validStart())
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, StepAppointmentFor, session.Step)
	assert.Equal(t, StatusInProgress, session.Status)
	assert.Equal(t, "10:30 AM", session.Time, "slot spelling follows the template")
	assert.Equal(t, "Tuesday, 20 October 2026", session.DateLabel)

	stored, err := f.wizard.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, stored.ID)
}

func TestStartTrimsIdentifiers(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()

	req := validStart()
	req.ClinicID = "  clinic-1 "
	req.DentistID = " dentist-1"
	req.Date = "2026-10-20 "
	session, err := f.wizard.Start(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "clinic-1", session.ClinicID)
	assert.Equal(t, "dentist-1", session.DentistID)
}

func TestStartRejectsUnbookableRequests(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()

	tests := []struct {
		name string
		req  StartRequest
		want error
	}{
		{name: "unknown dentist", req: StartRequest{DentistID: "nobody", Date: "2026-10-20", Time: "10:30 AM"}, want: clinic.ErrDentistNotFound},
		{name: "wrong clinic", req: StartRequest{ClinicID: "clinic-2", DentistID: "dentist-1", Date: "2026-10-20", Time: "10:30 AM"}, want: ErrDentistNotAtClinic},
		{name: "bad date", req: StartRequest{DentistID: "dentist-1", Date: "20/10/2026", Time: "10:30 AM"}, want: ErrInvalidInput},
		{name: "weekend", req: StartRequest{DentistID: "dentist-1", Date: "2026-10-18", Time: "10:30 AM"}, want: ErrSlotUnavailable},
		{name: "past", req: StartRequest{DentistID: "dentist-1", Date: "2026-10-16", Time: "10:30 AM"}, want: ErrSlotUnavailable},
		{name: "closed slot", req: StartRequest{DentistID: "dentist-2", Date: "2026-10-20", Time: "11:00 AM"}, want: ErrSlotUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.wizard.Start(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubmitAdvancesInOrder(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()

	session, err := f.wizard.Start(context.Background(), validStart())
	require.NoError(t, err)

	for i, in := range stepInputs() {
		next, err := f.wizard.Submit(context.Background(), session.ID, in)
		require.NoError(t, err)
		assert.Equal(t, Steps[i+1], next.Step)
	}

	stored, err := f.wizard.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepConfirmation, stored.Step)
	assert.Equal(t, "self", stored.AppointmentFor)
	assert.Equal(t, "new", stored.PatientStatus)
	assert.Equal(t, "guest", stored.AuthMode)
	assert.Equal(t, "Priya", stored.Patient.FirstName)
}

func TestSubmitRejectsWrongStep(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()

	session, err := f.wizard.Start(context.Background(), validStart())
	require.NoError(t, err)

	_, err = f.wizard.Submit(context.Background(), session.ID, StepInput{Step: StepServiceType, ServiceType: "Whitening"})
	assert.ErrorIs(t, err, ErrStepMismatch)

	stored, err := f.wizard.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepAppointmentFor, stored.Step)
	assert.Empty(t, stored.ServiceType)
}

func TestSubmitValidatesFields(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()

	session, err := f.wizard.Start(context.Background(), validStart())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = f.wizard.Submit(ctx, session.ID, StepInput{Step: StepAppointmentFor, AppointmentFor: "my dog"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	walk := stepInputs()[:4]
	for _, in := range walk {
		_, err = f.wizard.Submit(ctx, session.ID, in)
		require.NoError(t, err)
	}

	bad := []bookings.Patient{
		{LastName: "Sharma", Email: "priya@example.com", Phone: "1"},
		{FirstName: "Priya", LastName: "Sharma", Email: "not-an-email", Phone: "1"},
		{FirstName: "Priya", LastName: "Sharma", Email: "Priya <priya@example.com>", Phone: "1"},
		{FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com"},
		{FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com", Phone: "1", DateOfBirth: "12/04/1990"},
		{FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com", Phone: "1", DateOfBirth: "2030-01-01"},
	}
	for _, p := range bad {
		p := p
		_, err = f.wizard.Submit(ctx, session.ID, StepInput{Step: StepPersonalDetails, Patient: &p})
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", p)
	}
	_, err = f.wizard.Submit(ctx, session.ID, StepInput{Step: StepPersonalDetails})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBack(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()

	session, err := f.wizard.Start(context.Background(), validStart())
	require.NoError(t, err)

	_, err = f.wizard.Back(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrNoPreviousStep)

	_, err = f.wizard.Submit(context.Background(), session.ID, stepInputs()[0])
	require.NoError(t, err)
	back, err := f.wizard.Back(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepAppointmentFor, back.Step)
	assert.Equal(t, "self", back.AppointmentFor, "answers survive going back")
}

func TestConfirmBooksAndNotifies(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()

	session, err := f.wizard.Start(context.Background(), validStart())
	require.NoError(t, err)

	_, err = f.wizard.Confirm(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrNotReady)

	walkToConfirmation(t, f.wizard, session.ID)
	_, err = f.wizard.Submit(context.Background(), session.ID, StepInput{Step: StepConfirmation})
	assert.ErrorIs(t, err, ErrInvalidInput)

	confirmed, err := f.wizard.Confirm(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Equal(t, "appt-1", confirmed.AppointmentID)

	require.Len(t, f.booker.requests, 1)
	req := f.booker.requests[0]
	assert.Equal(t, "dentist-1", req.DentistID)
	assert.Equal(t, "2026-10-20", req.Date.Format("2006-01-02"))
	assert.Equal(t, "10:30 AM", req.SlotTime)
	assert.Equal(t, "priya@example.com", req.Patient.Email)

	require.Len(t, f.notifier.sent, 1)
	details := f.notifier.sent[0]
	assert.Equal(t, "Sydney Harbour Dental", details.ClinicName)
	assert.Equal(t, "Dr. James Mitchell", details.DentistName)
	assert.Equal(t, "Priya Sharma", details.PatientName)
	assert.Equal(t, "New patient", details.PatientStatus)
	assert.Equal(t, "Themselves", details.AppointmentFor)

	// closed sessions reject further changes
	_, err = f.wizard.Confirm(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = f.wizard.Back(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestConfirmSlotTaken(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()
	f.booker.err = bookings.ErrSlotTaken

	session, err := f.wizard.Start(context.Background(), validStart())
	require.NoError(t, err)
	walkToConfirmation(t, f.wizard, session.ID)

	_, err = f.wizard.Confirm(context.Background(), session.ID)
	assert.ErrorIs(t, err, bookings.ErrSlotTaken)
	assert.Empty(t, f.notifier.sent)

	stored, err := f.wizard.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, stored.Status)
}

func TestConfirmSucceedsWhenNotificationFails(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()
	f.notifier.err = errors.New("smtp down")

	session, err := f.wizard.Start(context.Background(), validStart())
	require.NoError(t, err)
	walkToConfirmation(t, f.wizard, session.ID)

	confirmed, err := f.wizard.Confirm(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
}

func TestAbandon(t *testing.T) {
	f := newWizardFixture(t)
	defer f.cleanup()

	session, err := f.wizard.Start(context.Background(), validStart())
	require.NoError(t, err)

	require.NoError(t, f.wizard.Abandon(context.Background(), session.ID))
	_, err = f.wizard.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.wizard.Abandon(context.Background(), session.ID), ErrSessionNotFound)
}
