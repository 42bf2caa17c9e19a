package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

// BookingDetails is everything the booking emails show.
type BookingDetails struct {
	AppointmentID  string
	ClinicName     string
	ClinicAddress  string
	ClinicEmail    string
	DentistName    string
	DateLabel      string
	SlotTime       string
	ServiceType    string
	AppointmentFor string
	PatientStatus  string
	PatientName    string
	PatientEmail   string
	PatientPhone   string
	DateOfBirth    string
	BookedAt       time.Time
}

// BookingNotifier emails the patient a confirmation and the clinic a handoff
// summary once an appointment is booked.
type BookingNotifier struct {
	email       EmailSender
	clinicEmail string
	logger      *logging.Logger
}

// NewBookingNotifier creates a notifier. clinicEmail is the fallback inbox
// used when a booking carries no clinic address of its own.
func NewBookingNotifier(email EmailSender, clinicEmail string, logger *logging.Logger) *BookingNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingNotifier{email: email, clinicEmail: clinicEmail, logger: logger}
}

// NotifyBooked sends both emails. Every configured email is attempted; the
// returned error joins the failures.
func (n *BookingNotifier) NotifyBooked(ctx context.Context, b BookingDetails) error {
	if n == nil || n.email == nil {
		return nil
	}

	var errs []error

	if b.PatientEmail != "" {
		msg := EmailMessage{
			To:      b.PatientEmail,
			ToName:  b.PatientName,
			Subject: fmt.Sprintf("Your appointment at %s is confirmed", valueOr(b.ClinicName, "the clinic")),
			Body:    FormatPatientConfirmation(b),
		}
		if err := n.email.Send(ctx, msg); err != nil {
			n.logger.Error("booking notify: patient confirmation failed", "error", err, "appointment_id", b.AppointmentID)
			errs = append(errs, fmt.Errorf("patient: %w", err))
		}
	}

	to := b.ClinicEmail
	if to == "" {
		to = n.clinicEmail
	}
	if to == "" {
		n.logger.Warn("booking notify: no clinic inbox configured", "appointment_id", b.AppointmentID)
	} else {
		msg := EmailMessage{
			To:      to,
			ToName:  b.ClinicName,
			Subject: fmt.Sprintf("New booking: %s (%s, %s)", valueOrNA(b.PatientName), valueOrNA(b.DateLabel), valueOrNA(b.SlotTime)),
			Body:    FormatHandoffSummary(b),
			HTML:    FormatHandoffSummaryHTML(b),
		}
		if err := n.email.Send(ctx, msg); err != nil {
			n.logger.Error("booking notify: clinic handoff failed", "error", err, "appointment_id", b.AppointmentID)
			errs = append(errs, fmt.Errorf("clinic: %w", err))
		}
	}

	return errors.Join(errs...)
}

// FormatPatientConfirmation renders the plain-text patient email.
func FormatPatientConfirmation(b BookingDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", valueOr(firstWord(b.PatientName), "there"))
	fmt.Fprintf(&sb, "Your appointment with %s at %s is booked.\n\n", valueOrNA(b.DentistName), valueOrNA(b.ClinicName))
	fmt.Fprintf(&sb, "When: %s at %s\n", valueOrNA(b.DateLabel), valueOrNA(b.SlotTime))
	if b.ClinicAddress != "" {
		fmt.Fprintf(&sb, "Where: %s\n", b.ClinicAddress)
	}
	if b.ServiceType != "" {
		fmt.Fprintf(&sb, "Service: %s\n", b.ServiceType)
	}
	fmt.Fprintf(&sb, "Reference: %s\n\n", valueOrNA(b.AppointmentID))
	sb.WriteString("If you need to change or cancel, please contact the clinic.\n")
	return sb.String()
}

// FormatHandoffSummary renders the plain-text clinic summary.
func FormatHandoffSummary(b BookingDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Patient: %s\n", valueOrNA(b.PatientName))
	fmt.Fprintf(&sb, "Phone: %s\n", valueOrNA(b.PatientPhone))
	if b.PatientEmail != "" {
		fmt.Fprintf(&sb, "Email: %s\n", b.PatientEmail)
	}
	if b.DateOfBirth != "" {
		fmt.Fprintf(&sb, "Date of Birth: %s\n", b.DateOfBirth)
	}
	fmt.Fprintf(&sb, "Dentist: %s\n", valueOrNA(b.DentistName))
	fmt.Fprintf(&sb, "Appointment: %s at %s\n", valueOrNA(b.DateLabel), valueOrNA(b.SlotTime))
	fmt.Fprintf(&sb, "Service: %s\n", valueOrNA(b.ServiceType))
	fmt.Fprintf(&sb, "Booking For: %s\n", valueOrNA(b.AppointmentFor))
	fmt.Fprintf(&sb, "Patient Type: %s\n", valueOrNA(b.PatientStatus))
	fmt.Fprintf(&sb, "Reference: %s\n", valueOrNA(b.AppointmentID))
	if !b.BookedAt.IsZero() {
		fmt.Fprintf(&sb, "Booked: %s\n", b.BookedAt.Format(time.RFC1123))
	}
	return sb.String()
}

// FormatHandoffSummaryHTML renders the clinic summary as an HTML table.
func FormatHandoffSummaryHTML(b BookingDetails) string {
	rows := [][2]string{
		{"Patient", valueOrNA(b.PatientName)},
		{"Phone", valueOrNA(b.PatientPhone)},
	}
	if b.PatientEmail != "" {
		rows = append(rows, [2]string{"Email", b.PatientEmail})
	}
	if b.DateOfBirth != "" {
		rows = append(rows, [2]string{"Date of Birth", b.DateOfBirth})
	}
	rows = append(rows,
		[2]string{"Dentist", valueOrNA(b.DentistName)},
		[2]string{"Appointment", valueOrNA(b.DateLabel) + " at " + valueOrNA(b.SlotTime)},
		[2]string{"Service", valueOrNA(b.ServiceType)},
		[2]string{"Booking For", valueOrNA(b.AppointmentFor)},
		[2]string{"Patient Type", valueOrNA(b.PatientStatus)},
		[2]string{"Reference", valueOrNA(b.AppointmentID)},
	)

	var sb strings.Builder
	sb.WriteString(`<div style="font-family:sans-serif;max-width:600px;">` + "\n")
	fmt.Fprintf(&sb, `<h2 style="color:#333;">New Booking at %s</h2>`+"\n", html.EscapeString(valueOr(b.ClinicName, "your clinic")))
	sb.WriteString(`<table style="border-collapse:collapse;width:100%;">` + "\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, `<tr><td style="padding:6px 12px;font-weight:bold;">%s</td><td style="padding:6px 12px;">%s</td></tr>`+"\n",
			html.EscapeString(r[0]), html.EscapeString(r[1]))
	}
	sb.WriteString("</table>\n")
	sb.WriteString(`<p style="color:#666;font-size:12px;">Booked online. Please contact the patient if the time needs to change.</p>` + "\n")
	sb.WriteString("</div>")
	return sb.String()
}

func valueOrNA(s string) string {
	return valueOr(s, "N/A")
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
