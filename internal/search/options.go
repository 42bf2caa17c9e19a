package search

import (
	"sort"
	"strings"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
)

// Options groups every picker list the search page offers.
type Options struct {
	Languages     []string `json:"languages"`
	Specialties   []string `json:"specialties"`
	Insurances    []string `json:"insurances"`
	AvailableDays []string `json:"availableDays"`
	Regions       []string `json:"regions"`
}

// Options returns all option lists in one call.
func (e *Engine) Options() Options {
	return Options{
		Languages:     e.Languages(),
		Specialties:   e.Specialties(),
		Insurances:    e.Insurances(),
		AvailableDays: e.AvailableDays(),
		Regions:       e.Regions(),
	}
}

// Languages lists every language spoken by any dentist.
func (e *Engine) Languages() []string {
	set := newValueSet()
	e.catalog.Each(func(c clinic.Clinic) {
		for _, d := range c.Dentists {
			set.add(d.Languages...)
		}
	})
	return set.sorted()
}

// Specialties lists clinic and dentist specialities together.
func (e *Engine) Specialties() []string {
	set := newValueSet()
	e.catalog.Each(func(c clinic.Clinic) {
		set.add(c.Specialities...)
		for _, d := range c.Dentists {
			set.add(d.Specialities...)
		}
	})
	return set.sorted()
}

// Insurances returns the distinct insurance providers accepted across clinics.
func (e *Engine) Insurances() []string {
	set := newValueSet()
	e.catalog.Each(func(c clinic.Clinic) {
		set.add(c.Insurance...)
	})
	return set.sorted()
}

// AvailableDays returns the distinct working days listed by dentists.
func (e *Engine) AvailableDays() []string {
	set := newValueSet()
	e.catalog.Each(func(c clinic.Clinic) {
		for _, d := range c.Dentists {
			set.add(d.AvailableDays...)
		}
	})
	return set.sorted()
}

// valueSet deduplicates exact strings; blank entries are skipped.
type valueSet map[string]struct{}

func newValueSet() valueSet {
	return valueSet{}
}

func (s valueSet) add(values ...string) {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		s[v] = struct{}{}
	}
}

func (s valueSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
