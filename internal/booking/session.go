package booking

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/bookings"
)

// Step is one page of the booking wizard.
type Step string

const (
	StepAppointmentFor  Step = "appointment_for"
	StepPatientStatus   Step = "patient_status"
	StepServiceType     Step = "service_type"
	StepAuthentication  Step = "authentication"
	StepPersonalDetails Step = "personal_details"
	StepConfirmation    Step = "confirmation"
)

// Steps lists the wizard pages in order.
var Steps = []Step{
	StepAppointmentFor,
	StepPatientStatus,
	StepServiceType,
	StepAuthentication,
	StepPersonalDetails,
	StepConfirmation,
}

func (s Step) index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s.index() >= 0
}

// Status is the lifecycle state of a session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusConfirmed  Status = "confirmed"
)

// Answer values accepted by the wizard.
const (
	ForSelf        = "self"
	ForSomeoneElse = "someone_else"

	PatientNew      = "new"
	PatientExisting = "existing"

	AuthGuest  = "guest"
	AuthLogin  = "login"
	AuthSignup = "signup"
)

var (
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("booking: session not found")
	// ErrStepMismatch is returned when input targets a step other than the current one.
	ErrStepMismatch = errors.New("booking: input does not match current step")
	// ErrNoPreviousStep is returned by Back on the first step.
	ErrNoPreviousStep = errors.New("booking: already at first step")
	// ErrSessionClosed is returned when a confirmed or cancelled session is changed.
	ErrSessionClosed = errors.New("booking: session is closed")
	// ErrNotReady is returned by Confirm before the confirmation step.
	ErrNotReady = errors.New("booking: session is not ready to confirm")
	// ErrSlotUnavailable is returned when the chosen date and time cannot be booked.
	ErrSlotUnavailable = errors.New("booking: slot unavailable")
	// ErrDentistNotAtClinic is returned when the dentist belongs to another clinic.
	ErrDentistNotAtClinic = errors.New("booking: dentist does not work at clinic")
	// ErrInvalidInput wraps every field validation failure.
	ErrInvalidInput = errors.New("booking: invalid input")
)

// Session is the serialized state of one booking attempt.
type Session struct {
	ID        string `json:"id"`
	Step      Step   `json:"step"`
	Status    Status `json:"status"`
	ClinicID  string `json:"clinic_id"`
	DentistID string `json:"dentist_id"`
	Date      string `json:"date"`
	DateLabel string `json:"date_label"`
	Time      string `json:"time"`

	AppointmentFor string           `json:"appointment_for,omitempty"`
	PatientStatus  string           `json:"patient_status,omitempty"`
	ServiceType    string           `json:"service_type,omitempty"`
	AuthMode       string           `json:"auth_mode,omitempty"`
	Patient        bookings.Patient `json:"patient"`

	AppointmentID string    `json:"appointment_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Closed reports whether the session can no longer change.
func (s *Session) Closed() bool {
	return s.Status != StatusInProgress
}

// StepInput carries the answer for one step. Only the fields of Step are read.
type StepInput struct {
	Step           Step              `json:"step"`
	AppointmentFor string            `json:"appointment_for,omitempty"`
	PatientStatus  string            `json:"patient_status,omitempty"`
	ServiceType    string            `json:"service_type,omitempty"`
	AuthMode       string            `json:"auth_mode,omitempty"`
	Patient        *bookings.Patient `json:"patient,omitempty"`
}

// apply validates the input and records it on the session.
func (in StepInput) apply(s *Session, today time.Time) error {
	switch in.Step {
	case StepAppointmentFor:
		v := strings.ToLower(strings.TrimSpace(in.AppointmentFor))
		if v != ForSelf && v != ForSomeoneElse {
			return invalid("appointment_for must be %q or %q", ForSelf, ForSomeoneElse)
		}
		s.AppointmentFor = v
	case StepPatientStatus:
		v := strings.ToLower(strings.TrimSpace(in.PatientStatus))
		if v != PatientNew && v != PatientExisting {
			return invalid("patient_status must be %q or %q", PatientNew, PatientExisting)
		}
		s.PatientStatus = v
	case StepServiceType:
		v := strings.TrimSpace(in.ServiceType)
		if v == "" || len(v) > 100 {
			return invalid("service_type is required")
		}
		s.ServiceType = v
	case StepAuthentication:
		v := strings.ToLower(strings.TrimSpace(in.AuthMode))
		if v != AuthGuest && v != AuthLogin && v != AuthSignup {
			return invalid("auth_mode must be one of %q, %q, %q", AuthGuest, AuthLogin, AuthSignup)
		}
		s.AuthMode = v
	case StepPersonalDetails:
		if in.Patient == nil {
			return invalid("patient is required")
		}
		p, err := validatePatient(*in.Patient, today)
		if err != nil {
			return err
		}
		s.Patient = p
	default:
		return invalid("step %q takes no input", in.Step)
	}
	return nil
}

func validatePatient(p bookings.Patient, today time.Time) (bookings.Patient, error) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.DateOfBirth = strings.TrimSpace(p.DateOfBirth)

	if p.FirstName == "" || p.LastName == "" {
		return p, invalid("first_name and last_name are required")
	}
	addr, err := mail.ParseAddress(p.Email)
	if err != nil || addr.Address != p.Email {
		return p, invalid("email is invalid")
	}
	if p.Phone == "" {
		return p, invalid("phone is required")
	}
	if p.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", p.DateOfBirth)
		if err != nil {
			return p, invalid("date_of_birth must be YYYY-MM-DD")
		}
		if !dob.Before(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)) {
			return p, invalid("date_of_birth must be in the past")
		}
	}
	return p, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
