// Package search answers read-only queries over the clinic catalog: keyword,
// location and specialty lookups, the multi-criteria filter used by the
// search page, and the option lists that populate its pickers.
package search

import (
	"strings"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
)

// Engine queries a catalog. It holds no mutable state; every method returns
// freshly allocated clinics in catalog order.
type Engine struct {
	catalog *clinic.Catalog
}

// NewEngine creates an engine over the catalog.
func NewEngine(catalog *clinic.Catalog) *Engine {
	if catalog == nil {
		panic("search: catalog required")
	}
	return &Engine{catalog: catalog}
}

// All returns every clinic in declaration order.
func (e *Engine) All() []clinic.Clinic {
	return e.catalog.Clinics()
}

// ByKeyword returns clinics whose name, address or any speciality contains
// the keyword, ignoring case. An empty keyword matches every clinic.
func (e *Engine) ByKeyword(keyword string) []clinic.Clinic {
	k := strings.ToLower(keyword)
	return e.collect(func(c clinic.Clinic) bool {
		return contains(c.Name, k) || contains(c.Address, k) || anyContains(c.Specialities, k)
	})
}

// ByLocation returns clinics whose address contains the location, ignoring case.
func (e *Engine) ByLocation(location string) []clinic.Clinic {
	l := strings.ToLower(location)
	return e.collect(func(c clinic.Clinic) bool {
		return contains(c.Address, l)
	})
}

// BySpecialty returns clinics with a clinic-level speciality containing the
// value, ignoring case.
func (e *Engine) BySpecialty(specialty string) []clinic.Clinic {
	s := strings.ToLower(specialty)
	return e.collect(func(c clinic.Clinic) bool {
		return anyContains(c.Specialities, s)
	})
}

// WithFilters applies the set fields of f as an AND, in this order: service,
// location, specialty, then the dentist-level criteria. For the last step a
// clinic is kept when at least one of its dentists satisfies every set
// criterion at once.
func (e *Engine) WithFilters(f Filters) []clinic.Clinic {
	service := norm(f.Service)
	location := norm(f.Location)
	specialty := norm(f.Specialty)
	criteria := newPersonCriteria(f)

	return e.collect(func(c clinic.Clinic) bool {
		if service != "" && !(contains(c.Name, service) || anyContains(c.Specialities, service)) {
			return false
		}
		if location != "" && !contains(c.Address, location) {
			return false
		}
		if specialty != "" && !clinicOffers(c, specialty) {
			return false
		}
		if criteria.empty() {
			return true
		}
		for _, d := range c.Dentists {
			if criteria.match(c, d) {
				return true
			}
		}
		return false
	})
}

func (e *Engine) collect(keep func(clinic.Clinic) bool) []clinic.Clinic {
	out := []clinic.Clinic{}
	e.catalog.Each(func(c clinic.Clinic) {
		if keep(c) {
			out = append(out, c.Clone())
		}
	})
	return out
}

func clinicOffers(c clinic.Clinic, specialty string) bool {
	if anyContains(c.Specialities, specialty) {
		return true
	}
	for _, d := range c.Dentists {
		if anyContains(d.Specialities, specialty) {
			return true
		}
	}
	return false
}

// personCriteria holds the dentist-level filters. Each set field is an OR
// over its values; fields combine with AND.
type personCriteria struct {
	languages  []string
	genders    []string
	insurances []string
	days       []string
}

func newPersonCriteria(f Filters) personCriteria {
	return personCriteria{
		languages:  splitValues(f.Language),
		genders:    splitValues(f.Gender),
		insurances: splitValues(f.Insurance),
		days:       splitValues(f.AvailableDays),
	}
}

func (p personCriteria) empty() bool {
	return len(p.languages) == 0 && len(p.genders) == 0 && len(p.insurances) == 0 && len(p.days) == 0
}

func (p personCriteria) match(c clinic.Clinic, d clinic.Dentist) bool {
	if len(p.languages) > 0 && !anyValue(p.languages, func(v string) bool { return anyContains(d.Languages, v) }) {
		return false
	}
	if len(p.genders) > 0 && !anyValue(p.genders, func(v string) bool { return strings.EqualFold(string(d.Gender), v) }) {
		return false
	}
	// insurance is accepted per clinic, so it holds for every dentist there
	if len(p.insurances) > 0 && !anyValue(p.insurances, func(v string) bool { return anyContains(c.Insurance, v) }) {
		return false
	}
	if len(p.days) > 0 && !anyValue(p.days, func(v string) bool { return anyEqual(d.AvailableDays, v) }) {
		return false
	}
	return true
}

func anyValue(values []string, ok func(string) bool) bool {
	for _, v := range values {
		if ok(v) {
			return true
		}
	}
	return false
}

// contains reports whether s contains the already lower-cased needle.
func contains(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

func anyContains(list []string, needle string) bool {
	for _, s := range list {
		if contains(s, needle) {
			return true
		}
	}
	return false
}

func anyEqual(list []string, value string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), value) {
			return true
		}
	}
	return false
}
