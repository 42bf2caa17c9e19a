package search

import (
	"strings"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
)

// RegionToken returns the second-to-last whitespace-separated token of an
// address, which is the state in "45 Circular Quay West, Sydney NSW 2000".
// Addresses with fewer than two tokens have no region and yield "".
func RegionToken(address string) string {
	fields := strings.Fields(address)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-2]
}

// Regions lists the distinct non-empty region tokens in the catalog, sorted.
func (e *Engine) Regions() []string {
	set := newValueSet()
	e.catalog.Each(func(c clinic.Clinic) {
		set.add(RegionToken(c.Address))
	})
	return set.sorted()
}

// ByRegion returns clinics whose region token equals region, ignoring case.
// A blank region matches nothing.
func (e *Engine) ByRegion(region string) []clinic.Clinic {
	r := strings.TrimSpace(region)
	if r == "" {
		return []clinic.Clinic{}
	}
	return e.collect(func(c clinic.Clinic) bool {
		return strings.EqualFold(RegionToken(c.Address), r)
	})
}
