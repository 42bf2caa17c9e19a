// Package availability projects a dentist's weekly schedule and daily slot
// template onto calendar dates.
package availability

import (
	"time"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// BookableDay is one calendar date on which the dentist has open slots.
type BookableDay struct {
	Date  time.Time `json:"-"`
	Label string    `json:"label"`
	Slots []string  `json:"slots"`
}

// Calculator finds bookable days. Dates are evaluated at day granularity in
// the calculator's location.
type Calculator struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a calculator for the given location; nil means UTC.
func New(loc *time.Location, opts ...Option) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	c := &Calculator{now: time.Now, loc: loc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the calculator's time zone.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Today returns midnight of the current date in the calculator's location.
func (c *Calculator) Today() time.Time {
	return c.day(c.now())
}

// NextAvailableDates walks forward from startDate, inclusive, and returns at
// most maxResults bookable days found within horizonDays calendar days. Days
// before today are counted against the horizon but never returned.
func (c *Calculator) NextAvailableDates(d clinic.Dentist, startDate time.Time, horizonDays, maxResults int) []BookableDay {
	out := []BookableDay{}
	if horizonDays <= 0 || maxResults <= 0 {
		return out
	}
	slots := d.OpenSlotTimes()
	if len(slots) == 0 || len(d.AvailableDays) == 0 {
		return out
	}

	today := c.Today()
	start := c.day(startDate)
	for i := 0; i < horizonDays && len(out) < maxResults; i++ {
		date := time.Date(start.Year(), start.Month(), start.Day()+i, 0, 0, 0, 0, c.loc)
		if date.Before(today) || !d.WorksOn(date.Weekday()) {
			continue
		}
		out = append(out, BookableDay{
			Date:  date,
			Label: Label(date),
			Slots: append([]string(nil), slots...),
		})
	}
	return out
}

// MonthView is NextAvailableDates starting at the first of the month, or at
// today when the month is the current one.
func (c *Calculator) MonthView(d clinic.Dentist, year int, month time.Month, horizonDays, maxResults int) []BookableDay {
	start := time.Date(year, month, 1, 0, 0, 0, 0, c.loc)
	today := c.Today()
	if today.Year() == year && today.Month() == month {
		start = today
	}
	return c.NextAvailableDates(d, start, horizonDays, maxResults)
}

// IsBookable reports whether slotTime is open for the dentist on date.
func (c *Calculator) IsBookable(d clinic.Dentist, date time.Time, slotTime string) bool {
	day := c.day(date)
	if day.Before(c.Today()) || !d.WorksOn(day.Weekday()) {
		return false
	}
	return d.SlotOpen(slotTime)
}

// ParseDate parses a YYYY-MM-DD date in the calculator's location.
func (c *Calculator) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, c.loc)
}

func (c *Calculator) day(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// Label renders a date as "Monday, 20 October 2026".
func Label(date time.Time) string {
	return clinic.WeekdayName(date.Weekday()) + ", " + date.Format("2 January 2006")
}
