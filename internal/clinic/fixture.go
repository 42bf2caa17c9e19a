package clinic

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed fixtures/clinics.json
var fixtureJSON []byte

// FixtureSource serves the built-in clinic fixture, or a JSON file with the
// same shape when Path is set.
type FixtureSource struct {
	Path string
}

// NewFixtureSource returns a source for the given override path ("" for the built-in fixture).
func NewFixtureSource(path string) *FixtureSource {
	return &FixtureSource{Path: path}
}

// Load decodes the fixture.
func (s *FixtureSource) Load(ctx context.Context) ([]Clinic, error) {
	data := fixtureJSON
	if s != nil && s.Path != "" {
		raw, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("clinic: read fixture: %w", err)
		}
		data = raw
	}
	return decodeClinics(data)
}

func decodeClinics(data []byte) ([]Clinic, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var clinics []Clinic
	if err := dec.Decode(&clinics); err != nil {
		return nil, fmt.Errorf("clinic: decode fixture: %w", err)
	}
	return clinics, nil
}

// DefaultCatalog builds the catalog from the built-in fixture. It panics if the
// embedded fixture is invalid, which only a broken build can cause.
func DefaultCatalog() *Catalog {
	cat, err := LoadCatalog(context.Background(), NewFixtureSource(""))
	if err != nil {
		panic(fmt.Sprintf("clinic: embedded fixture invalid: %v", err))
	}
	return cat
}
