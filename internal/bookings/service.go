package bookings

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

var bookingsTracer = otel.Tracer("dentalsuite.internal.bookings")

// Service books and cancels appointments.
type Service struct {
	repo   *Repository
	logger *logging.Logger
}

// NewService constructs a bookings service.
func NewService(repo *Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("bookings: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Book persists a confirmed appointment. It returns ErrSlotTaken when the
// dentist is already booked at that date and time.
func (s *Service) Book(ctx context.Context, req CreateRequest) (*Appointment, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("dentalsuite.clinic_id", req.ClinicID),
		attribute.String("dentalsuite.dentist_id", req.DentistID),
		attribute.String("dentalsuite.slot_time", req.SlotTime),
	)

	appt, err := s.repo.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrSlotTaken) {
			s.logger.Warn("appointment slot already taken",
				"clinic_id", req.ClinicID,
				"dentist_id", req.DentistID,
				"date", req.Date.Format(dateLayout),
				"slot_time", req.SlotTime,
			)
		}
		return nil, err
	}
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"clinic_id", appt.ClinicID,
		"dentist_id", appt.DentistID,
		"date", appt.Date,
	)
	return appt, nil
}

// Get returns one appointment.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForPatient returns every appointment booked with the email.
func (s *Service) ListForPatient(ctx context.Context, email string) ([]Appointment, error) {
	return s.repo.ListByEmail(ctx, email)
}

// Cancel cancels an appointment.
func (s *Service) Cancel(ctx context.Context, id string) error {
	ctx, span := bookingsTracer.Start(ctx, "bookings.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("dentalsuite.appointment_id", id))

	if err := s.repo.Cancel(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Info("appointment cancelled", "appointment_id", id)
	return nil
}
