// internal/dataset/schemas.go
package dataset

import (
	"embed"
	"fmt"
	"strings"

	"fairpay/internal/common/errors"
	"fairpay/internal/common/validation"
)

// File names of the six tables inside a dataset directory.
const (
	OccupationsFile     = "occupations.json"
	CountriesFile       = "countries.json"
	CitiesFile          = "cities.json"
	BigMacPricesFile    = "big-mac-prices.json"
	CountrySalariesFile = "country-salaries.json"
	CitySalariesFile    = "city-salaries.json"
)

// TableFiles lists the table files in load order.
var TableFiles = []string{
	OccupationsFile,
	CountriesFile,
	CitiesFile,
	BigMacPricesFile,
	CountrySalariesFile,
	CitySalariesFile,
}

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var schemas = loadSchemas()

func loadSchemas() map[string]*validation.Schema {
	out := make(map[string]*validation.Schema, len(TableFiles))
	for _, file := range TableFiles {
		stem := strings.TrimSuffix(file, ".json")
		raw, err := schemaFS.ReadFile("schemas/" + stem + ".schema.json")
		if err != nil {
			panic(fmt.Sprintf("dataset: missing embedded schema for %s: %v", file, err))
		}
		out[file] = validation.MustCompile(stem, raw)
	}
	return out
}

// ValidateDocument checks one raw table document against its schema.
func ValidateDocument(file string, raw []byte) error {
	s, ok := schemas[file]
	if !ok {
		return errors.NewInvalidInputError(fmt.Sprintf("no schema for %s", file))
	}
	res, err := s.ValidateBytes(raw)
	if err != nil {
		return errors.NewDatasetInvalidError(fmt.Sprintf("%s: %v", file, err))
	}
	return schemaResult(file, res)
}

// ValidateSet checks every relation of set against the table schemas. Sources that do
// not read JSON documents use this before Build.
func ValidateSet(set Set) error {
	docs := map[string]interface{}{
		OccupationsFile:     orEmpty(set.Occupations),
		CountriesFile:       orEmpty(set.Countries),
		CitiesFile:          orEmpty(set.Cities),
		BigMacPricesFile:    orEmpty(set.BigMacPrices),
		CountrySalariesFile: orEmpty(set.CountrySalaries),
		CitySalariesFile:    orEmpty(set.CitySalaries),
	}
	for _, file := range TableFiles {
		doc := docs[file]
		res, err := schemas[file].Validate(doc)
		if err != nil {
			return errors.NewDatasetInvalidError(fmt.Sprintf("%s: %v", file, err))
		}
		if err := schemaResult(file, res); err != nil {
			return err
		}
	}
	return nil
}

func schemaResult(file string, res *validation.ValidationResult) error {
	if res.Valid {
		return nil
	}
	return errors.NewDatasetInvalidError(fmt.Sprintf("%s: %s", file, validation.Summary(res, maxReportedProblems))).
		WithMetadata("file", file).
		WithMetadata("problemCount", len(res.Errors))
}

// orEmpty keeps nil relations from encoding as JSON null.
func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
