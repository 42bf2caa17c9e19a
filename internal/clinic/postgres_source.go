package clinic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the catalog needs; pgxmock satisfies it in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSource loads the catalog from the clinics, dentists and
// dentist_slots tables. Declaration order follows the position columns.
type PostgresSource struct {
	db Querier
}

// NewPostgresSource creates a source backed by a pgx pool.
func NewPostgresSource(db Querier) *PostgresSource {
	if db == nil {
		panic("clinic: pgx pool required")
	}
	return &PostgresSource{db: db}
}

const (
	selectClinicsSQL = `
		SELECT id, name, address, specialities, insurance, facilities, rating
		FROM clinics
		ORDER BY position, id
	`
	selectDentistsSQL = `
		SELECT id, clinic_id, name, qualification, specialities, gender, languages, available_days
		FROM dentists
		ORDER BY clinic_id, position, id
	`
	selectSlotsSQL = `
		SELECT dentist_id, slot_time, available
		FROM dentist_slots
		ORDER BY dentist_id, position
	`
)

// Load reads all three tables and assembles clinics in declaration order.
func (s *PostgresSource) Load(ctx context.Context) ([]Clinic, error) {
	clinics, index, err := s.loadClinics(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := s.loadSlots(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, selectDentistsSQL)
	if err != nil {
		return nil, fmt.Errorf("clinic: query dentists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d        Dentist
			clinicID string
			gender   string
		)
		if err := rows.Scan(&d.ID, &clinicID, &d.Name, &d.Qualification, &d.Specialities, &gender, &d.Languages, &d.AvailableDays); err != nil {
			return nil, fmt.Errorf("clinic: scan dentist: %w", err)
		}
		i, ok := index[clinicID]
		if !ok {
			return nil, fmt.Errorf("clinic: dentist %s references unknown clinic %s", d.ID, clinicID)
		}
		d.Gender = Gender(gender)
		d.Slots = slots[d.ID]
		clinics[i].Dentists = append(clinics[i].Dentists, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clinic: iterate dentists: %w", err)
	}
	return clinics, nil
}

func (s *PostgresSource) loadClinics(ctx context.Context) ([]Clinic, map[string]int, error) {
	rows, err := s.db.Query(ctx, selectClinicsSQL)
	if err != nil {
		return nil, nil, fmt.Errorf("clinic: query clinics: %w", err)
	}
	defer rows.Close()

	var clinics []Clinic
	index := make(map[string]int)
	for rows.Next() {
		var c Clinic
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Specialities, &c.Insurance, &c.Facilities, &c.Rating); err != nil {
			return nil, nil, fmt.Errorf("clinic: scan clinic: %w", err)
		}
		c.Dentists = []Dentist{}
		index[c.ID] = len(clinics)
		clinics = append(clinics, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("clinic: iterate clinics: %w", err)
	}
	return clinics, index, nil
}

func (s *PostgresSource) loadSlots(ctx context.Context) (map[string][]TimeSlot, error) {
	rows, err := s.db.Query(ctx, selectSlotsSQL)
	if err != nil {
		return nil, fmt.Errorf("clinic: query slots: %w", err)
	}
	defer rows.Close()

	slots := make(map[string][]TimeSlot)
	for rows.Next() {
		var (
			dentistID string
			slot      TimeSlot
		)
		if err := rows.Scan(&dentistID, &slot.Time, &slot.Available); err != nil {
			return nil, fmt.Errorf("clinic: scan slot: %w", err)
		}
		slots[dentistID] = append(slots[dentistID], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clinic: iterate slots: %w", err)
	}
	return slots, nil
}

// Seed replaces the catalog tables with the given clinics, one INSERT per row.
// cmd/migrate uses it to load the fixture into a fresh database.
func (s *PostgresSource) Seed(ctx context.Context, clinics []Clinic) error {
	if _, err := s.db.Exec(ctx, `TRUNCATE dentist_slots, dentists, clinics`); err != nil {
		return fmt.Errorf("clinic: truncate catalog: %w", err)
	}
	for ci, c := range clinics {
		if _, err := s.db.Exec(ctx, `
			INSERT INTO clinics (id, position, name, address, specialities, insurance, facilities, rating)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			c.ID, ci, c.Name, c.Address, nonNil(c.Specialities), nonNil(c.Insurance), nonNil(c.Facilities), c.Rating,
		); err != nil {
			return fmt.Errorf("clinic: insert clinic %s: %w", c.ID, err)
		}
		for di, d := range c.Dentists {
			if _, err := s.db.Exec(ctx, `
				INSERT INTO dentists (id, clinic_id, position, name, qualification, specialities, gender, languages, available_days)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				d.ID, c.ID, di, d.Name, d.Qualification, nonNil(d.Specialities), string(d.Gender), nonNil(d.Languages), nonNil(d.AvailableDays),
			); err != nil {
				return fmt.Errorf("clinic: insert dentist %s: %w", d.ID, err)
			}
			for si, slot := range d.Slots {
				if _, err := s.db.Exec(ctx, `
					INSERT INTO dentist_slots (dentist_id, position, slot_time, available)
					VALUES ($1, $2, $3, $4)`,
					d.ID, si, slot.Time, slot.Available,
				); err != nil {
					return fmt.Errorf("clinic: insert slot %s/%s: %w", d.ID, slot.Time, err)
				}
			}
		}
	}
	return nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
