// internal/dataset/tables.go

// Package dataset loads, validates and indexes the precomputed salary tables.
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"fairpay/internal/common/errors"
	"fairpay/internal/models"
)

// Set holds the six relations as loaded from a source.
type Set struct {
	Occupations     []models.Occupation         `json:"occupations"`
	Countries       []models.Country            `json:"countries"`
	Cities          []models.City               `json:"cities"`
	BigMacPrices    []models.BigMacPrice        `json:"bigMacPrices"`
	CountrySalaries []models.CountrySalaryEntry `json:"countrySalaries"`
	CitySalaries    []models.CitySalaryEntry    `json:"citySalaries"`
}

// Tables is an indexed, read-only view of a validated Set. It is never mutated after
// Build and may be shared between goroutines.
type Tables struct {
	set Set

	occupationIdx map[string]int
	countryIdx    map[string]int
	cityIdx       map[string]int
	bigMacs       map[string]models.BigMacPrice

	countrySalaries map[string][]models.CountrySalaryEntry
	citySalaries    map[string][]models.CitySalaryEntry
	countrySalary   map[pairKey]models.CountrySalaryEntry
	citySalary      map[pairKey]models.CitySalaryEntry

	fingerprint string
}

type pairKey struct {
	occupation string
	other      string
}

// maxReportedProblems caps the problems listed in a DATASET_INVALID error.
const maxReportedProblems = 10

// Build checks the referential invariants of set and indexes it. Any violation fails
// the whole build.
func Build(set Set) (*Tables, error) {
	t := &Tables{
		set:             set,
		occupationIdx:   make(map[string]int, len(set.Occupations)),
		countryIdx:      make(map[string]int, len(set.Countries)),
		cityIdx:         make(map[string]int, len(set.Cities)),
		bigMacs:         make(map[string]models.BigMacPrice, len(set.BigMacPrices)),
		countrySalaries: make(map[string][]models.CountrySalaryEntry),
		citySalaries:    make(map[string][]models.CitySalaryEntry),
		countrySalary:   make(map[pairKey]models.CountrySalaryEntry, len(set.CountrySalaries)),
		citySalary:      make(map[pairKey]models.CitySalaryEntry, len(set.CitySalaries)),
	}

	var problems []string
	report := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for i, o := range set.Occupations {
		if o.Slug == "" {
			report("occupations[%d]: empty slug", i)
			continue
		}
		if o.Slug != strings.ToLower(o.Slug) {
			report("occupations[%d]: slug %q must be lower-case", i, o.Slug)
			continue
		}
		if _, dup := t.occupationIdx[o.Slug]; dup {
			report("occupations[%d]: duplicate slug %q", i, o.Slug)
			continue
		}
		t.occupationIdx[o.Slug] = i
	}

	for i, c := range set.Countries {
		if c.Code == "" || c.Code != strings.ToUpper(c.Code) {
			report("countries[%d]: country code %q must be upper-case", i, c.Code)
			continue
		}
		if _, dup := t.countryIdx[c.Code]; dup {
			report("countries[%d]: duplicate code %q", i, c.Code)
			continue
		}
		t.countryIdx[c.Code] = i
	}

	for i, c := range set.Cities {
		if c.Slug == "" {
			report("cities[%d]: empty slug", i)
			continue
		}
		if c.Slug != strings.ToLower(c.Slug) {
			report("cities[%d]: slug %q must be lower-case", i, c.Slug)
			continue
		}
		if _, dup := t.cityIdx[c.Slug]; dup {
			report("cities[%d]: duplicate slug %q", i, c.Slug)
			continue
		}
		if _, ok := t.countryIdx[c.CountryCode]; !ok {
			report("cities[%d]: %q references unknown country %q", i, c.Slug, c.CountryCode)
			continue
		}
		t.cityIdx[c.Slug] = i
	}

	for i, p := range set.BigMacPrices {
		if _, ok := t.countryIdx[p.CountryCode]; !ok {
			report("bigMacPrices[%d]: unknown country %q", i, p.CountryCode)
			continue
		}
		if _, dup := t.bigMacs[p.CountryCode]; dup {
			report("bigMacPrices[%d]: duplicate country %q", i, p.CountryCode)
			continue
		}
		t.bigMacs[p.CountryCode] = p
	}

	for i, e := range set.CountrySalaries {
		if _, ok := t.occupationIdx[e.OccupationSlug]; !ok {
			report("countrySalaries[%d]: unknown occupation %q", i, e.OccupationSlug)
			continue
		}
		if _, ok := t.countryIdx[e.CountryCode]; !ok {
			report("countrySalaries[%d]: unknown country %q", i, e.CountryCode)
			continue
		}
		key := pairKey{e.OccupationSlug, e.CountryCode}
		if _, dup := t.countrySalary[key]; dup {
			report("countrySalaries[%d]: duplicate entry %s/%s", i, e.OccupationSlug, e.CountryCode)
			continue
		}
		t.countrySalary[key] = e
		t.countrySalaries[e.OccupationSlug] = append(t.countrySalaries[e.OccupationSlug], e)
	}

	for i, e := range set.CitySalaries {
		if _, ok := t.occupationIdx[e.OccupationSlug]; !ok {
			report("citySalaries[%d]: unknown occupation %q", i, e.OccupationSlug)
			continue
		}
		ci, ok := t.cityIdx[e.CitySlug]
		if !ok {
			report("citySalaries[%d]: unknown city %q", i, e.CitySlug)
			continue
		}
		if set.Cities[ci].CountryCode != e.CountryCode {
			report("citySalaries[%d]: city %q belongs to %s, not %s", i, e.CitySlug, set.Cities[ci].CountryCode, e.CountryCode)
			continue
		}
		key := pairKey{e.OccupationSlug, e.CitySlug}
		if _, dup := t.citySalary[key]; dup {
			report("citySalaries[%d]: duplicate entry %s/%s", i, e.OccupationSlug, e.CitySlug)
			continue
		}
		t.citySalary[key] = e
		t.citySalaries[e.OccupationSlug] = append(t.citySalaries[e.OccupationSlug], e)
	}

	if len(problems) > 0 {
		details := problems
		if len(details) > maxReportedProblems {
			details = append(details[:maxReportedProblems:maxReportedProblems], fmt.Sprintf("and %d more", len(problems)-maxReportedProblems))
		}
		return nil, errors.NewDatasetInvalidError(strings.Join(details, "; ")).
			WithMetadata("problemCount", len(problems))
	}

	// Per-occupation rows follow country and city table order.
	for _, rows := range t.countrySalaries {
		sort.SliceStable(rows, func(a, b int) bool {
			return t.countryIdx[rows[a].CountryCode] < t.countryIdx[rows[b].CountryCode]
		})
	}
	for _, rows := range t.citySalaries {
		sort.SliceStable(rows, func(a, b int) bool {
			return t.cityIdx[rows[a].CitySlug] < t.cityIdx[rows[b].CitySlug]
		})
	}

	fp, err := fingerprint(set)
	if err != nil {
		return nil, err
	}
	t.fingerprint = fp
	return t, nil
}

func fingerprint(set Set) (string, error) {
	raw, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("fingerprint dataset: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8]), nil
}

// Fingerprint identifies the dataset contents. It changes whenever any table changes.
func (t *Tables) Fingerprint() string {
	return t.fingerprint
}

// Counts returns the number of rows per table, keyed by file stem.
func (t *Tables) Counts() map[string]int {
	return map[string]int{
		"occupations":      len(t.set.Occupations),
		"countries":        len(t.set.Countries),
		"cities":           len(t.set.Cities),
		"big-mac-prices":   len(t.set.BigMacPrices),
		"country-salaries": len(t.set.CountrySalaries),
		"city-salaries":    len(t.set.CitySalaries),
	}
}

func (t *Tables) Occupations() []models.Occupation {
	return append([]models.Occupation(nil), t.set.Occupations...)
}

func (t *Tables) Occupation(slug string) (models.Occupation, bool) {
	i, ok := t.occupationIdx[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return models.Occupation{}, false
	}
	return t.set.Occupations[i], true
}

func (t *Tables) Countries() []models.Country {
	return append([]models.Country(nil), t.set.Countries...)
}

// Country looks a country up by ISO code, case-insensitively.
func (t *Tables) Country(code string) (models.Country, bool) {
	i, ok := t.countryIdx[normalizeCode(code)]
	if !ok {
		return models.Country{}, false
	}
	return t.set.Countries[i], true
}

func (t *Tables) Cities() []models.City {
	return append([]models.City(nil), t.set.Cities...)
}

func (t *Tables) City(slug string) (models.City, bool) {
	i, ok := t.cityIdx[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return models.City{}, false
	}
	return t.set.Cities[i], true
}

// CitiesIn returns the cities of a country in table order.
func (t *Tables) CitiesIn(countryCode string) []models.City {
	code := normalizeCode(countryCode)
	var out []models.City
	for _, c := range t.set.Cities {
		if c.CountryCode == code {
			out = append(out, c)
		}
	}
	return out
}

func (t *Tables) BigMac(countryCode string) (models.BigMacPrice, bool) {
	p, ok := t.bigMacs[normalizeCode(countryCode)]
	return p, ok
}

// CountrySalaries returns the occupation's country rows in country table order.
func (t *Tables) CountrySalaries(occupationSlug string) []models.CountrySalaryEntry {
	return append([]models.CountrySalaryEntry(nil), t.countrySalaries[occupationSlug]...)
}

func (t *Tables) CountrySalary(occupationSlug, countryCode string) (models.CountrySalaryEntry, bool) {
	e, ok := t.countrySalary[pairKey{occupationSlug, normalizeCode(countryCode)}]
	return e, ok
}

// CitySalaries returns the occupation's city rows in city table order.
func (t *Tables) CitySalaries(occupationSlug string) []models.CitySalaryEntry {
	return append([]models.CitySalaryEntry(nil), t.citySalaries[occupationSlug]...)
}

func (t *Tables) CitySalary(occupationSlug, citySlug string) (models.CitySalaryEntry, bool) {
	e, ok := t.citySalary[pairKey{occupationSlug, strings.ToLower(strings.TrimSpace(citySlug))}]
	return e, ok
}

// Set returns a copy of the underlying relations.
func (t *Tables) Set() Set {
	return Set{
		Occupations:     t.Occupations(),
		Countries:       t.Countries(),
		Cities:          t.Cities(),
		BigMacPrices:    append([]models.BigMacPrice(nil), t.set.BigMacPrices...),
		CountrySalaries: append([]models.CountrySalaryEntry(nil), t.set.CountrySalaries...),
		CitySalaries:    append([]models.CitySalaryEntry(nil), t.set.CitySalaries...),
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
