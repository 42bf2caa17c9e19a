package clinic

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateClinicID is returned when two clinics share an id.
	ErrDuplicateClinicID = errors.New("duplicate clinic id")
	// ErrDuplicateDentistID is returned when two dentists share an id anywhere in the catalog.
	ErrDuplicateDentistID = errors.New("duplicate dentist id")
	// ErrInvalidWeekday is returned for an AvailableDays entry that is not a weekday name.
	ErrInvalidWeekday = errors.New("invalid weekday name")
	// ErrInvalidSlotTime is returned for a slot time that cannot be parsed.
	ErrInvalidSlotTime = errors.New("invalid slot time")
	// ErrInvalidRating is returned for a rating outside 0-5.
	ErrInvalidRating = errors.New("rating out of range")
	// ErrInvalidGender is returned for an unrecognised gender value.
	ErrInvalidGender = errors.New("invalid gender")
	// ErrMissingID is returned when a clinic or dentist has no id.
	ErrMissingID = errors.New("id is required")

	// ErrClinicNotFound is returned by lookups for unknown clinics.
	ErrClinicNotFound = errors.New("clinic not found")
	// ErrDentistNotFound is returned by lookups for unknown dentists.
	ErrDentistNotFound = errors.New("dentist not found")
)

// Source loads the raw clinic list a Catalog is built from.
type Source interface {
	Load(ctx context.Context) ([]Clinic, error)
}

type dentistRef struct {
	clinic  int
	dentist int
}

// Catalog is an immutable, validated snapshot of clinics and their dentists.
// It is safe for concurrent readers.
type Catalog struct {
	clinics   []Clinic
	clinicIdx map[string]int
	dentists  map[string]dentistRef
}

// NewCatalog validates the clinics and builds a catalog that owns a private copy.
func NewCatalog(clinics []Clinic) (*Catalog, error) {
	c := &Catalog{
		clinics:   make([]Clinic, 0, len(clinics)),
		clinicIdx: make(map[string]int, len(clinics)),
		dentists:  make(map[string]dentistRef),
	}
	for i, cl := range clinics {
		if strings.TrimSpace(cl.ID) == "" {
			return nil, fmt.Errorf("clinic: clinic #%d: %w", i, ErrMissingID)
		}
		if _, dup := c.clinicIdx[cl.ID]; dup {
			return nil, fmt.Errorf("clinic: %w: %s", ErrDuplicateClinicID, cl.ID)
		}
		if cl.Rating != nil && (*cl.Rating < 0 || *cl.Rating > 5) {
			return nil, fmt.Errorf("clinic: %s: %w: %v", cl.ID, ErrInvalidRating, *cl.Rating)
		}
		for j, d := range cl.Dentists {
			if err := validateDentist(d); err != nil {
				return nil, fmt.Errorf("clinic: %s: %w", cl.ID, err)
			}
			if _, dup := c.dentists[d.ID]; dup {
				return nil, fmt.Errorf("clinic: %w: %s", ErrDuplicateDentistID, d.ID)
			}
			c.dentists[d.ID] = dentistRef{clinic: i, dentist: j}
		}
		c.clinicIdx[cl.ID] = i
		c.clinics = append(c.clinics, cl.Clone())
	}
	return c, nil
}

func validateDentist(d Dentist) error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("dentist %q: %w", d.Name, ErrMissingID)
	}
	if !d.Gender.Valid() {
		return fmt.Errorf("dentist %s: %w: %q", d.ID, ErrInvalidGender, d.Gender)
	}
	for _, day := range d.AvailableDays {
		if _, ok := ParseWeekday(day); !ok {
			return fmt.Errorf("dentist %s: %w: %q", d.ID, ErrInvalidWeekday, day)
		}
	}
	for _, s := range d.Slots {
		if _, err := ParseSlotTime(s.Time); err != nil {
			return fmt.Errorf("dentist %s: %w", d.ID, err)
		}
	}
	return nil
}

// LoadCatalog loads clinics from src and validates them.
func LoadCatalog(ctx context.Context, src Source) (*Catalog, error) {
	clinics, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("clinic: load catalog: %w", err)
	}
	return NewCatalog(clinics)
}

// Len returns the number of clinics.
func (c *Catalog) Len() int {
	return len(c.clinics)
}

// Clinics returns deep copies of every clinic in declaration order.
func (c *Catalog) Clinics() []Clinic {
	out := make([]Clinic, len(c.clinics))
	for i, cl := range c.clinics {
		out[i] = cl.Clone()
	}
	return out
}

// Each calls fn for every clinic in declaration order without copying. fn
// must not modify the clinic.
func (c *Catalog) Each(fn func(Clinic)) {
	for _, cl := range c.clinics {
		fn(cl)
	}
}

// Clinic returns a copy of the clinic with the given id.
func (c *Catalog) Clinic(id string) (Clinic, error) {
	i, ok := c.clinicIdx[id]
	if !ok {
		return Clinic{}, ErrClinicNotFound
	}
	return c.clinics[i].Clone(), nil
}

// Dentist returns a copy of the dentist and the owning clinic's summary.
func (c *Catalog) Dentist(id string) (Dentist, Summary, error) {
	ref, ok := c.dentists[id]
	if !ok {
		return Dentist{}, Summary{}, ErrDentistNotFound
	}
	cl := c.clinics[ref.clinic]
	return cl.Dentists[ref.dentist].Clone(), cl.Summary(), nil
}
