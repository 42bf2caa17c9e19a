package bookings

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrSlotTaken is returned when a live appointment already holds the
	// dentist, date and time.
	ErrSlotTaken = errors.New("bookings: slot already taken")
	// ErrNotFound is returned for unknown appointment ids.
	ErrNotFound = errors.New("bookings: appointment not found")
	// ErrAlreadyCancelled is returned when cancelling twice.
	ErrAlreadyCancelled = errors.New("bookings: appointment already cancelled")
)

// Appointment statuses.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Patient identifies the person the appointment is for.
type Patient struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// FullName joins first and last name.
func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Appointment is a booked visit.
type Appointment struct {
	ID             string     `json:"id"`
	ClinicID       string     `json:"clinic_id"`
	DentistID      string     `json:"dentist_id"`
	Date           string     `json:"date"`
	SlotTime       string     `json:"slot_time"`
	ServiceType    string     `json:"service_type"`
	AppointmentFor string     `json:"appointment_for"`
	PatientStatus  string     `json:"patient_status"`
	Patient        Patient    `json:"patient"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

// CreateRequest carries everything needed to book an appointment.
type CreateRequest struct {
	ClinicID       string
	DentistID      string
	Date           time.Time
	SlotTime       string
	ServiceType    string
	AppointmentFor string
	PatientStatus  string
	Patient        Patient
}

// Validate checks required fields.
func (r CreateRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.ClinicID) == "":
		return errors.New("bookings: clinic_id is required")
	case strings.TrimSpace(r.DentistID) == "":
		return errors.New("bookings: dentist_id is required")
	case r.Date.IsZero():
		return errors.New("bookings: date is required")
	case strings.TrimSpace(r.SlotTime) == "":
		return errors.New("bookings: slot_time is required")
	case strings.TrimSpace(r.Patient.Email) == "":
		return errors.New("bookings: patient email is required")
	}
	return nil
}
