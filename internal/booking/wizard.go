// Package booking drives the multi-step booking wizard. Each attempt is an
// explicit Session loaded from and saved to a SessionStore by the Wizard;
// nothing about an attempt lives outside that record.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/availability"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/bookings"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/notify"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/observability/metrics"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

var bookingTracer = otel.Tracer("dentalsuite.internal.booking")

// AppointmentBooker persists confirmed appointments.
type AppointmentBooker interface {
	Book(ctx context.Context, req bookings.CreateRequest) (*bookings.Appointment, error)
}

// Notifier announces a confirmed booking.
type Notifier interface {
	NotifyBooked(ctx context.Context, b notify.BookingDetails) error
}

// WizardDeps wires the wizard's collaborators. Notifier and Metrics are optional.
type WizardDeps struct {
	Catalog    *clinic.Catalog
	Calculator *availability.Calculator
	Store      SessionStore
	Booker     AppointmentBooker
	Notifier   Notifier
	Metrics    *metrics.BookingMetrics
	Logger     *logging.Logger
}

// Wizard owns every read and write of booking sessions.
type Wizard struct {
	catalog  *clinic.Catalog
	calc     *availability.Calculator
	store    SessionStore
	booker   AppointmentBooker
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewWizard validates deps and builds a wizard.
func NewWizard(deps WizardDeps) *Wizard {
	if deps.Catalog == nil || deps.Calculator == nil || deps.Store == nil || deps.Booker == nil {
		panic("booking: catalog, calculator, store and booker are required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	return &Wizard{
		catalog:  deps.Catalog,
		calc:     deps.Calculator,
		store:    deps.Store,
		booker:   deps.Booker,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// StartRequest selects the dentist and slot a session books.
type StartRequest struct {
	ClinicID  string `json:"clinic_id"`
	DentistID string `json:"dentist_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// Start opens a session on the first step after checking the slot is bookable.
func (w *Wizard) Start(ctx context.Context, req StartRequest) (*Session, error) {
	dentist, owner, err := w.catalog.Dentist(strings.TrimSpace(req.DentistID))
	if err != nil {
		return nil, err
	}
	if clinicID := strings.TrimSpace(req.ClinicID); clinicID != "" && owner.ID != clinicID {
		return nil, ErrDentistNotAtClinic
	}
	date, err := w.calc.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}
	slot := strings.TrimSpace(req.Time)
	if !w.calc.IsBookable(dentist, date, slot) {
		return nil, ErrSlotUnavailable
	}

	now := w.now().UTC()
	session := &Session{
		ID:        uuid.NewString(),
		Step:      Steps[0],
		Status:    StatusInProgress,
		ClinicID:  owner.ID,
		DentistID: dentist.ID,
		Date:      date.Format(availability.DateLayout),
		DateLabel: availability.Label(date),
		Time:      canonicalSlot(dentist, slot),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.store.Save(ctx, session); err != nil {
		return nil, err
	}
	w.metrics.ObserveSessionStarted(owner.ID)
	w.logger.Info("booking session started",
		"session_id", session.ID,
		"clinic_id", session.ClinicID,
		"dentist_id", session.DentistID,
		"date", session.Date,
	)
	return session, nil
}

// Get returns a session.
func (w *Wizard) Get(ctx context.Context, id string) (*Session, error) {
	return w.store.Get(ctx, id)
}

// Submit records the answer for the current step and advances one step.
func (w *Wizard) Submit(ctx context.Context, id string, in StepInput) (*Session, error) {
	session, err := w.open(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Step != session.Step {
		return nil, fmt.Errorf("%w: current step is %s", ErrStepMismatch, session.Step)
	}
	if session.Step == StepConfirmation {
		return nil, invalid("confirm the booking instead of submitting the confirmation step")
	}
	if err := in.apply(session, w.calc.Today()); err != nil {
		return nil, err
	}

	session.Step = Steps[session.Step.index()+1]
	session.UpdatedAt = w.now().UTC()
	if err := w.store.Save(ctx, session); err != nil {
		return nil, err
	}
	w.metrics.ObserveStep(string(session.Step), "forward")
	return session, nil
}

// Back returns to the previous step. Answers already given are kept.
func (w *Wizard) Back(ctx context.Context, id string) (*Session, error) {
	session, err := w.open(ctx, id)
	if err != nil {
		return nil, err
	}
	i := session.Step.index()
	if i <= 0 {
		return nil, ErrNoPreviousStep
	}
	session.Step = Steps[i-1]
	session.UpdatedAt = w.now().UTC()
	if err := w.store.Save(ctx, session); err != nil {
		return nil, err
	}
	w.metrics.ObserveStep(string(session.Step), "back")
	return session, nil
}

// Confirm books the appointment and notifies patient and clinic. A failed
// notification is logged and does not undo the booking.
func (w *Wizard) Confirm(ctx context.Context, id string) (*Session, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.confirm")
	defer span.End()
	span.SetAttributes(attribute.String("dentalsuite.session_id", id))

	session, err := w.open(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if session.Step != StepConfirmation {
		return nil, fmt.Errorf("%w: current step is %s", ErrNotReady, session.Step)
	}

	dentist, owner, err := w.catalog.Dentist(session.DentistID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	date, err := w.calc.ParseDate(session.Date)
	if err != nil || !w.calc.IsBookable(dentist, date, session.Time) {
		w.metrics.ObserveConfirmation("unavailable")
		return nil, ErrSlotUnavailable
	}

	appt, err := w.booker.Book(ctx, bookings.CreateRequest{
		ClinicID:       session.ClinicID,
		DentistID:      session.DentistID,
		Date:           date,
		SlotTime:       session.Time,
		ServiceType:    session.ServiceType,
		AppointmentFor: session.AppointmentFor,
		PatientStatus:  session.PatientStatus,
		Patient:        session.Patient,
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, bookings.ErrSlotTaken) {
			w.metrics.ObserveConfirmation("slot_taken")
		} else {
			w.metrics.ObserveConfirmation("failed")
		}
		return nil, err
	}

	session.Status = StatusConfirmed
	session.AppointmentID = appt.ID
	session.UpdatedAt = w.now().UTC()
	if err := w.store.Save(ctx, session); err != nil {
		// the appointment exists; report success with the in-memory session
		w.logger.Error("failed to save confirmed session", "error", err, "session_id", session.ID, "appointment_id", appt.ID)
	}
	w.metrics.ObserveConfirmation("confirmed")
	span.SetAttributes(attribute.String("dentalsuite.appointment_id", appt.ID))

	if w.notifier != nil {
		details := handoffDetails(session, owner, dentist, appt)
		if err := w.notifier.NotifyBooked(ctx, details); err != nil {
			w.logger.Warn("booking notifications incomplete", "error", err, "appointment_id", appt.ID)
		}
	}

	w.logger.Info("booking confirmed",
		"session_id", session.ID,
		"appointment_id", appt.ID,
		"clinic_id", session.ClinicID,
		"dentist_id", session.DentistID,
	)
	return session, nil
}

// Abandon deletes a session.
func (w *Wizard) Abandon(ctx context.Context, id string) error {
	if err := w.store.Delete(ctx, id); err != nil {
		return err
	}
	w.logger.Info("booking session abandoned", "session_id", id)
	return nil
}

func (w *Wizard) open(ctx context.Context, id string) (*Session, error) {
	session, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Closed() {
		return nil, ErrSessionClosed
	}
	return session, nil
}

// canonicalSlot returns the template spelling of a slot time.
func canonicalSlot(d clinic.Dentist, slot string) string {
	for _, s := range d.Slots {
		if strings.EqualFold(strings.TrimSpace(s.Time), slot) {
			return s.Time
		}
	}
	return slot
}
