package booking

import (
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/bookings"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/notify"
)

// handoffDetails collects what the patient and clinic emails show about a
// confirmed session.
func handoffDetails(s *Session, owner clinic.Summary, d clinic.Dentist, appt *bookings.Appointment) notify.BookingDetails {
	return notify.BookingDetails{
		AppointmentID:  appt.ID,
		ClinicName:     owner.Name,
		ClinicAddress:  owner.Address,
		DentistName:    d.Name,
		DateLabel:      s.DateLabel,
		SlotTime:       s.Time,
		ServiceType:    s.ServiceType,
		AppointmentFor: describeAppointmentFor(s.AppointmentFor),
		PatientStatus:  describePatientStatus(s.PatientStatus),
		PatientName:    s.Patient.FullName(),
		PatientEmail:   s.Patient.Email,
		PatientPhone:   s.Patient.Phone,
		DateOfBirth:    s.Patient.DateOfBirth,
		BookedAt:       appt.CreatedAt,
	}
}

func describeAppointmentFor(v string) string {
	switch v {
	case ForSelf:
		return "Themselves"
	case ForSomeoneElse:
		return "Someone else"
	default:
		return v
	}
}

func describePatientStatus(v string) string {
	switch v {
	case PatientNew:
		return "New patient"
	case PatientExisting:
		return "Existing patient"
	default:
		return v
	}
}
