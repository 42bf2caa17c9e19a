package search

import (
	"net/url"
	"strings"
)

// Filters is the multi-criteria clinic query. The zero value of every field
// means "no constraint".
type Filters struct {
	// Service is matched against the clinic name and clinic specialities.
	Service string `json:"service,omitempty"`
	// Location is matched against the clinic address.
	Location string `json:"location,omitempty"`
	// Specialty is matched against clinic and dentist specialities.
	Specialty string `json:"specialty,omitempty"`

	// The remaining fields are comma-separated lists; any one value may match.
	// A clinic passes when one of its dentists satisfies every set field.
	Language      string `json:"language,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Insurance     string `json:"insurance,omitempty"`
	AvailableDays string `json:"availableDays,omitempty"`
}

// FiltersFromQuery reads filters from URL query parameters of the same names.
func FiltersFromQuery(q url.Values) Filters {
	return Filters{
		Service:       q.Get("service"),
		Location:      q.Get("location"),
		Specialty:     q.Get("specialty"),
		Language:      q.Get("language"),
		Gender:        q.Get("gender"),
		Insurance:     q.Get("insurance"),
		AvailableDays: q.Get("availableDays"),
	}
}

// IsEmpty reports whether no field constrains the query.
func (f Filters) IsEmpty() bool {
	return norm(f.Service) == "" && norm(f.Location) == "" && norm(f.Specialty) == "" && !f.hasPersonCriteria()
}

func (f Filters) hasPersonCriteria() bool {
	return len(splitValues(f.Language)) > 0 ||
		len(splitValues(f.Gender)) > 0 ||
		len(splitValues(f.Insurance)) > 0 ||
		len(splitValues(f.AvailableDays)) > 0
}

// norm trims and lower-cases a free-text value.
func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// splitValues splits a comma-separated list into trimmed, lower-cased,
// non-empty values.
func splitValues(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := norm(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
