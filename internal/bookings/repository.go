package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const dateLayout = "2006-01-02"

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence helpers for appointments.
type Repository struct {
	db  Querier
	now func() time.Time
}

// NewRepository creates a repository backed by a pgx pool or mock.
func NewRepository(db Querier) *Repository {
	if db == nil {
		panic("bookings: pgx pool required")
	}
	return &Repository{db: db, now: time.Now}
}

const appointmentColumns = `id, clinic_id, dentist_id, appointment_date, slot_time, service_type,
		appointment_for, patient_status, first_name, last_name, email, phone, date_of_birth,
		status, created_at, cancelled_at`

// Create inserts a confirmed appointment.
func (r *Repository) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO appointments (id, clinic_id, dentist_id, appointment_date, slot_time, service_type,
			appointment_for, patient_status, first_name, last_name, email, phone, date_of_birth, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.ClinicID,
		req.DentistID,
		toPGDate(req.Date),
		req.SlotTime,
		req.ServiceType,
		req.AppointmentFor,
		req.PatientStatus,
		req.Patient.FirstName,
		req.Patient.LastName,
		strings.ToLower(strings.TrimSpace(req.Patient.Email)),
		req.Patient.Phone,
		req.Patient.DateOfBirth,
		StatusConfirmed,
	).Scan(&createdAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("bookings: insert appointment: %w", err)
	}

	patient := req.Patient
	patient.Email = strings.ToLower(strings.TrimSpace(patient.Email))
	return &Appointment{
		ID:             id.String(),
		ClinicID:       req.ClinicID,
		DentistID:      req.DentistID,
		Date:           req.Date.Format(dateLayout),
		SlotTime:       req.SlotTime,
		ServiceType:    req.ServiceType,
		AppointmentFor: req.AppointmentFor,
		PatientStatus:  req.PatientStatus,
		Patient:        patient,
		Status:         StatusConfirmed,
		CreatedAt:      createdAt,
	}, nil
}

// GetByID fetches one appointment.
func (r *Repository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	a, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("bookings: select appointment: %w", err)
	}
	return a, nil
}

// ListByEmail returns a patient's appointments, soonest first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE email = $1
		ORDER BY appointment_date, created_at`
	rows, err := r.db.Query(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("bookings: list appointments: %w", err)
	}
	defer rows.Close()

	out := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("bookings: scan appointment: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: list appointments: %w", err)
	}
	return out, nil
}

// Cancel marks a live appointment cancelled, freeing its slot.
func (r *Repository) Cancel(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET status = $2, cancelled_at = $3
		WHERE id = $1 AND status <> $2
	`, id, StatusCancelled, r.now().UTC())
	if err != nil {
		return fmt.Errorf("bookings: cancel appointment: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrAlreadyCancelled
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		a           Appointment
		date        pgtype.Date
		cancelledAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&a.ID,
		&a.ClinicID,
		&a.DentistID,
		&date,
		&a.SlotTime,
		&a.ServiceType,
		&a.AppointmentFor,
		&a.PatientStatus,
		&a.Patient.FirstName,
		&a.Patient.LastName,
		&a.Patient.Email,
		&a.Patient.Phone,
		&a.Patient.DateOfBirth,
		&a.Status,
		&a.CreatedAt,
		&cancelledAt,
	); err != nil {
		return nil, err
	}
	if date.Valid {
		a.Date = date.Time.Format(dateLayout)
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		a.CancelledAt = &t
	}
	return &a, nil
}

func toPGDate(t time.Time) pgtype.Date {
	return pgtype.Date{
		Time:  time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
