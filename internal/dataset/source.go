// internal/dataset/source.go
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
	"fairpay/internal/salary"
)

// Source yields a raw Set.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Set, error)
}

// FileSource reads the six JSON table files from a directory. The two salary tables
// may be absent; Load derives them.
type FileSource struct {
	Dir      string
	Validate bool
}

func NewFileSource(dir string, validate bool) *FileSource {
	return &FileSource{Dir: dir, Validate: validate}
}

func (s *FileSource) Name() string {
	return "file:" + s.Dir
}

func (s *FileSource) Load(ctx context.Context) (*Set, error) {
	var set Set
	targets := map[string]interface{}{
		OccupationsFile:     &set.Occupations,
		CountriesFile:       &set.Countries,
		CitiesFile:          &set.Cities,
		BigMacPricesFile:    &set.BigMacPrices,
		CountrySalariesFile: &set.CountrySalaries,
		CitySalariesFile:    &set.CitySalaries,
	}

	for _, file := range TableFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := os.ReadFile(filepath.Join(s.Dir, file))
		if err != nil {
			if os.IsNotExist(err) && derivable(file) {
				continue
			}
			return nil, errors.NewDatasetLoadFailedError(s.Name(), err)
		}

		if s.Validate {
			if err := ValidateDocument(file, raw); err != nil {
				return nil, err
			}
		}
		if err := json.Unmarshal(raw, targets[file]); err != nil {
			return nil, errors.NewDatasetInvalidError(fmt.Sprintf("%s: %v", file, err))
		}
	}
	return &set, nil
}

func derivable(file string) bool {
	return file == CountrySalariesFile || file == CitySalariesFile
}

// Options controls Load.
type Options struct {
	// Validate schema-checks the whole set before indexing.
	Validate         bool
	Normalizer       *salary.Normalizer
	ReferenceCountry string
	Logger           logger.Logger
}

// Load reads src, derives any absent salary table, validates and indexes the result.
func Load(ctx context.Context, src Source, opts Options) (*Tables, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"source": src.Name()})

	set, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	if set.CountrySalaries == nil || set.CitySalaries == nil {
		if opts.Normalizer == nil {
			return nil, errors.NewDatasetInvalidError("salary tables missing and no normalizer configured to derive them")
		}
	}
	if set.CountrySalaries == nil {
		rows, report, err := BuildCountrySalaries(*set, opts.Normalizer, opts.ReferenceCountry)
		if err != nil {
			return nil, errors.NewDatasetInvalidError(err.Error())
		}
		set.CountrySalaries = rows
		logDerived(log, CountrySalariesFile, report)
	}
	if set.CitySalaries == nil {
		rows, report, err := BuildCitySalaries(*set, opts.Normalizer, opts.ReferenceCountry)
		if err != nil {
			return nil, errors.NewDatasetInvalidError(err.Error())
		}
		set.CitySalaries = rows
		logDerived(log, CitySalariesFile, report)
	}

	if opts.Validate {
		if err := ValidateSet(*set); err != nil {
			return nil, err
		}
	}

	tables, err := Build(*set)
	if err != nil {
		log.Error("Dataset rejected", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	fields := map[string]interface{}{"fingerprint": tables.Fingerprint()}
	for table, n := range tables.Counts() {
		fields[table] = n
	}
	log.Info("Dataset loaded", fields)
	return tables, nil
}

func logDerived(log logger.Logger, file string, report *Report) {
	fields := map[string]interface{}{
		"table":   file,
		"rows":    report.Rows,
		"omitted": report.Omitted,
	}
	log.Warn("Salary table absent, derived in memory", fields)
	if len(report.MissingBigMac) > 0 || len(report.MissingCOL) > 0 {
		stdErr := errors.NewMissingAdjustmentDataError(fmt.Sprintf("%s left unadjusted for some rows", file))
		log.Warn(stdErr.Message, map[string]interface{}{
			"errorCode":     string(stdErr.Code),
			"missingBigMac": report.MissingBigMac,
			"missingCOL":    report.MissingCOL,
		})
	}
}
