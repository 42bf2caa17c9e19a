// Package clinic holds the dental clinic catalog: clinics, the dentists they
// employ and each dentist's weekly availability template.
package clinic

import (
	"slices"
	"strings"
	"time"
)

// Gender of a dentist. Empty means not recorded.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is empty or one of the recognised values.
func (g Gender) Valid() bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// TimeSlot is a time-of-day marker in a dentist's daily template.
type TimeSlot struct {
	Time      string `json:"time"` // "09:00 AM"
	Available bool   `json:"available"`
}

// Dentist is a practitioner owned by exactly one clinic.
type Dentist struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Qualification string     `json:"qualification"`
	Specialities  []string   `json:"specialities"`
	Gender        Gender     `json:"gender,omitempty"`
	Languages     []string   `json:"languages,omitempty"`
	AvailableDays []string   `json:"availabledays"`
	Slots         []TimeSlot `json:"slots,omitempty"`
}

// Clinic is one dental practice.
type Clinic struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Specialities []string  `json:"specialities"`
	Insurance    []string  `json:"insurance,omitempty"`
	Facilities   []string  `json:"facilities,omitempty"`
	Rating       *float64  `json:"rating,omitempty"`
	Dentists     []Dentist `json:"dentists"`
}

// Clone returns a deep copy so callers can never reach catalog state.
func (c Clinic) Clone() Clinic {
	out := c
	out.Specialities = slices.Clone(c.Specialities)
	out.Insurance = slices.Clone(c.Insurance)
	out.Facilities = slices.Clone(c.Facilities)
	if c.Rating != nil {
		r := *c.Rating
		out.Rating = &r
	}
	if c.Dentists != nil {
		out.Dentists = make([]Dentist, len(c.Dentists))
		for i, d := range c.Dentists {
			out.Dentists[i] = d.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the dentist.
func (d Dentist) Clone() Dentist {
	out := d
	out.Specialities = slices.Clone(d.Specialities)
	out.Languages = slices.Clone(d.Languages)
	out.AvailableDays = slices.Clone(d.AvailableDays)
	out.Slots = slices.Clone(d.Slots)
	return out
}

// WorksOn reports whether the weekday appears in the dentist's available days.
func (d Dentist) WorksOn(day time.Weekday) bool {
	for _, name := range d.AvailableDays {
		if wd, ok := ParseWeekday(name); ok && wd == day {
			return true
		}
	}
	return false
}

// OpenSlotTimes returns the open slot times in template order.
func (d Dentist) OpenSlotTimes() []string {
	var out []string
	for _, s := range d.Slots {
		if s.Available {
			out = append(out, s.Time)
		}
	}
	return out
}

// HasOpenSlot reports whether the slot template has at least one open entry.
func (d Dentist) HasOpenSlot() bool {
	for _, s := range d.Slots {
		if s.Available {
			return true
		}
	}
	return false
}

// SlotOpen reports whether the given slot time is open in the template.
// Comparison ignores case and surrounding whitespace.
func (d Dentist) SlotOpen(slotTime string) bool {
	want := strings.TrimSpace(slotTime)
	for _, s := range d.Slots {
		if s.Available && strings.EqualFold(strings.TrimSpace(s.Time), want) {
			return true
		}
	}
	return false
}

// Summary is the short clinic reference embedded in dentist responses.
type Summary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Summary returns the clinic's short reference.
func (c Clinic) Summary() Summary {
	return Summary{ID: c.ID, Name: c.Name, Address: c.Address}
}
