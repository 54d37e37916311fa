// cmd/tools/dataset-builder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"fairpay/internal/common/config"
	"fairpay/internal/common/database"
	"fairpay/internal/common/logger"
	"fairpay/internal/dataset"
	"fairpay/internal/salary"
	"fairpay/internal/search"
)

var (
	configPath string
	dataDir    string
)

func main() {
	countryCmd := flag.NewFlagSet("country-salaries", flag.ExitOnError)
	cityCmd := flag.NewFlagSet("city-salaries", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	indexCmd := flag.NewFlagSet("index-occupations", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export-sql", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{countryCmd, cityCmd, validateCmd, indexCmd, exportCmd} {
		fs.StringVar(&configPath, "config", "", "Path to config file (defaults to configs/config.yaml lookup)")
		fs.StringVar(&dataDir, "dir", "", "Dataset directory (defaults to dataset.directory)")
	}

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "country-salaries":
		countryCmd.Parse(os.Args[2:])
		err = buildCountrySalaries()
	case "city-salaries":
		cityCmd.Parse(os.Args[2:])
		err = buildCitySalaries()
	case "validate":
		validateCmd.Parse(os.Args[2:])
		err = validate(ctx)
	case "index-occupations":
		indexCmd.Parse(os.Args[2:])
		err = indexOccupations(ctx)
	case "export-sql":
		exportCmd.Parse(os.Args[2:])
		err = exportSQL(ctx)
	case "help":
		help()
		return
	default:
		help()
		os.Exit(1)
	}

	if err != nil {
		pterm.Error.Printfln("%s failed: %v", os.Args[1], err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Dataset.Directory = dataDir
	}
	return cfg, nil
}

// loadRaw reads the dataset directory without deriving or indexing anything.
func loadRaw(cfg *config.Config) (*dataset.Set, error) {
	return dataset.NewFileSource(cfg.Dataset.Directory, true).Load(context.Background())
}

func buildCountrySalaries() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	set, err := loadRaw(cfg)
	if err != nil {
		return err
	}

	n := salary.NewNormalizer(cfg.Normalization.Salary())
	rows, report, err := dataset.BuildCountrySalaries(*set, n, cfg.Normalization.ReferenceCountry)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Dataset.Directory, dataset.CountrySalariesFile)
	if err := dataset.WriteJSON(path, rows); err != nil {
		return err
	}
	printReport(path, report)
	return nil
}

func buildCitySalaries() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	set, err := loadRaw(cfg)
	if err != nil {
		return err
	}

	n := salary.NewNormalizer(cfg.Normalization.Salary())
	if set.CountrySalaries == nil {
		pterm.Warning.Printfln("%s not found, deriving it in memory", dataset.CountrySalariesFile)
		set.CountrySalaries, _, err = dataset.BuildCountrySalaries(*set, n, cfg.Normalization.ReferenceCountry)
		if err != nil {
			return err
		}
	}

	rows, report, err := dataset.BuildCitySalaries(*set, n, cfg.Normalization.ReferenceCountry)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Dataset.Directory, dataset.CitySalariesFile)
	if err := dataset.WriteJSON(path, rows); err != nil {
		return err
	}
	printReport(path, report)
	return nil
}

func printReport(path string, report *dataset.Report) {
	pterm.Success.Printfln("Wrote %s rows to %s", humanize.Comma(int64(report.Rows)), path)
	if report.Omitted > 0 {
		pterm.Info.Printfln("Omitted %s pairs without a source row", humanize.Comma(int64(report.Omitted)))
	}
	if len(report.MissingBigMac) > 0 {
		pterm.Warning.Printfln("No Big Mac price, PPP left unadjusted: %v", report.MissingBigMac)
	}
	if len(report.MissingCOL) > 0 {
		pterm.Warning.Printfln("No cost-of-living multiplier, COL left unadjusted: %v", report.MissingCOL)
	}
}

func validate(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Dataset.Source = config.DatasetSourceFile
	cfg.Dataset.Validate = true

	spinner, _ := pterm.DefaultSpinner.Start("Validating " + cfg.Dataset.Directory)
	tables, err := dataset.LoadConfigured(ctx, cfg, logger.NewNoOpLogger())
	if err != nil {
		spinner.Fail("Dataset is invalid")
		return err
	}
	spinner.Success("Dataset is valid")

	counts := tables.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	data := pterm.TableData{{"Table", "Rows"}}
	for _, name := range names {
		data = append(data, []string{name, humanize.Comma(int64(counts[name]))})
	}
	data = append(data, []string{"fingerprint", tables.Fingerprint()})
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func indexOccupations(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	set, err := loadRaw(cfg)
	if err != nil {
		return err
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
	if err != nil {
		return err
	}
	if err := es.Ping(ctx); err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start("Indexing occupations into " + cfg.Search.Index)
	if err := search.IndexOccupations(ctx, es.Client, cfg.Search.Index, set.Occupations); err != nil {
		spinner.Fail("Indexing failed")
		return err
	}
	spinner.Success("Indexed " + strconv.Itoa(len(set.Occupations)) + " occupations")
	return nil
}

func exportSQL(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Export reads the files and writes the configured database.
	src := cfg.Dataset
	cfg.Dataset.Source = config.DatasetSourceFile
	tables, err := dataset.LoadConfigured(ctx, cfg, logger.NewNoOpLogger())
	if err != nil {
		return err
	}

	client, err := database.OpenSQL(ctx, src, cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := dataset.EnsureSchema(ctx, client.DB); err != nil {
		return err
	}
	if err := dataset.WriteSQL(ctx, client.DB, tables.Set()); err != nil {
		return err
	}
	pterm.Success.Printfln("Exported dataset %s to %s", tables.Fingerprint(), client.Driver)
	return nil
}

func help() {
	fmt.Println("Usage: dataset-builder <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  country-salaries   Derive country-salaries.json from the base tables")
	fmt.Println("  city-salaries      Derive city-salaries.json from the country table")
	fmt.Println("  validate           Schema-check and index the dataset")
	fmt.Println("  index-occupations  Load occupations into the Elasticsearch search index")
	fmt.Println("  export-sql         Write the dataset into the configured SQL database")
	fmt.Println("\nCommon options:")
	fmt.Println("  -config string     Path to config file")
	fmt.Println("  -dir string        Dataset directory")
}
