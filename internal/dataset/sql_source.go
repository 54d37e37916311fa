// internal/dataset/sql_source.go
package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"fairpay/internal/common/errors"
	"fairpay/internal/models"
)

// Table DDL shared by postgres and sqlite. sort_order preserves table order.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS occupations (
  slug TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  base_usa DOUBLE PRECISION NOT NULL,
  sector_multiplier DOUBLE PRECISION NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS countries (
  code TEXT PRIMARY KEY,
  slug TEXT NOT NULL,
  name TEXT NOT NULL,
  flag TEXT NOT NULL DEFAULT '',
  currency TEXT NOT NULL,
  currency_symbol TEXT NOT NULL DEFAULT '',
  usd_exchange_rate DOUBLE PRECISION NOT NULL,
  oecd_avg_wage DOUBLE PRECISION NOT NULL DEFAULT 0,
  gdp_per_capita DOUBLE PRECISION NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS cities (
  slug TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  country_code TEXT NOT NULL REFERENCES countries(code),
  population BIGINT NOT NULL DEFAULT 0,
  is_capital BOOLEAN NOT NULL DEFAULT FALSE,
  is_tech_hub BOOLEAN NOT NULL DEFAULT FALSE,
  col_multiplier DOUBLE PRECISION NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS big_mac_prices (
  country_code TEXT PRIMARY KEY REFERENCES countries(code),
  local_price DOUBLE PRECISION NOT NULL DEFAULT 0,
  usd_price DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS country_salaries (
  occupation_slug TEXT NOT NULL REFERENCES occupations(slug),
  country_code TEXT NOT NULL REFERENCES countries(code),
  estimate_usd BIGINT NOT NULL,
  ppp_adjusted_usd BIGINT NOT NULL,
  PRIMARY KEY (occupation_slug, country_code)
);

CREATE TABLE IF NOT EXISTS city_salaries (
  occupation_slug TEXT NOT NULL REFERENCES occupations(slug),
  country_code TEXT NOT NULL REFERENCES countries(code),
  city_slug TEXT NOT NULL REFERENCES cities(slug),
  estimate_usd BIGINT NOT NULL,
  ppp_adjusted_usd BIGINT NOT NULL,
  col_adjusted_usd BIGINT NOT NULL,
  PRIMARY KEY (occupation_slug, city_slug)
);
`

const (
	selectOccupations     = `SELECT slug, title, category, base_usa, sector_multiplier FROM occupations ORDER BY sort_order, slug`
	selectCountries       = `SELECT code, slug, name, flag, currency, currency_symbol, usd_exchange_rate, oecd_avg_wage, gdp_per_capita FROM countries ORDER BY sort_order, code`
	selectCities          = `SELECT slug, name, country_code, population, is_capital, is_tech_hub, col_multiplier FROM cities ORDER BY sort_order, slug`
	selectBigMacPrices    = `SELECT country_code, local_price, usd_price FROM big_mac_prices ORDER BY country_code`
	selectCountrySalaries = `SELECT occupation_slug, country_code, estimate_usd, ppp_adjusted_usd FROM country_salaries ORDER BY occupation_slug, country_code`
	selectCitySalaries    = `SELECT occupation_slug, country_code, city_slug, estimate_usd, ppp_adjusted_usd, col_adjusted_usd FROM city_salaries ORDER BY occupation_slug, city_slug`
)

// SQLSource reads the tables from a postgres or sqlite database.
type SQLSource struct {
	db     *sql.DB
	driver string
}

func NewSQLSource(db *sql.DB, driver string) *SQLSource {
	return &SQLSource{db: db, driver: driver}
}

func (s *SQLSource) Name() string {
	return "sql:" + s.driver
}

func (s *SQLSource) Load(ctx context.Context) (*Set, error) {
	// Salary slices stay nil for empty tables so Load derives them.
	set := &Set{
		Occupations:  []models.Occupation{},
		Countries:    []models.Country{},
		Cities:       []models.City{},
		BigMacPrices: []models.BigMacPrice{},
	}

	steps := []struct {
		table string
		query string
		scan  func(*sql.Rows) error
	}{
		{"occupations", selectOccupations, func(r *sql.Rows) error {
			var o models.Occupation
			if err := r.Scan(&o.Slug, &o.Title, &o.Category, &o.BaseUSA, &o.SectorMultiplier); err != nil {
				return err
			}
			set.Occupations = append(set.Occupations, o)
			return nil
		}},
		{"countries", selectCountries, func(r *sql.Rows) error {
			var c models.Country
			if err := r.Scan(&c.Code, &c.Slug, &c.Name, &c.Flag, &c.Currency, &c.CurrencySymbol, &c.USDExchangeRate, &c.OECDAvgWage, &c.GDPPerCapita); err != nil {
				return err
			}
			set.Countries = append(set.Countries, c)
			return nil
		}},
		{"cities", selectCities, func(r *sql.Rows) error {
			var c models.City
			if err := r.Scan(&c.Slug, &c.Name, &c.CountryCode, &c.Population, &c.IsCapital, &c.IsTechHub, &c.COLMultiplier); err != nil {
				return err
			}
			set.Cities = append(set.Cities, c)
			return nil
		}},
		{"big_mac_prices", selectBigMacPrices, func(r *sql.Rows) error {
			var p models.BigMacPrice
			if err := r.Scan(&p.CountryCode, &p.LocalPrice, &p.USDPrice); err != nil {
				return err
			}
			set.BigMacPrices = append(set.BigMacPrices, p)
			return nil
		}},
		{"country_salaries", selectCountrySalaries, func(r *sql.Rows) error {
			var e models.CountrySalaryEntry
			if err := r.Scan(&e.OccupationSlug, &e.CountryCode, &e.EstimateUSD, &e.PPPAdjustedUSD); err != nil {
				return err
			}
			set.CountrySalaries = append(set.CountrySalaries, e)
			return nil
		}},
		{"city_salaries", selectCitySalaries, func(r *sql.Rows) error {
			var e models.CitySalaryEntry
			if err := r.Scan(&e.OccupationSlug, &e.CountryCode, &e.CitySlug, &e.EstimateUSD, &e.PPPAdjustedUSD, &e.COLAdjustedUSD); err != nil {
				return err
			}
			set.CitySalaries = append(set.CitySalaries, e)
			return nil
		}},
	}

	for _, step := range steps {
		if err := s.queryAll(ctx, step.query, step.scan); err != nil {
			return nil, errors.NewDatabaseQueryError(step.table, err)
		}
	}
	return set, nil
}

func (s *SQLSource) queryAll(ctx context.Context, query string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// EnsureSchema creates the dataset tables when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create dataset schema: %w", err)
	}
	return nil
}

// WriteSQL replaces the contents of the dataset tables with set in one transaction.
func WriteSQL(ctx context.Context, db *sql.DB, set Set) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dataset export: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Children first so foreign keys hold while clearing.
	for _, table := range []string{"city_salaries", "country_salaries", "big_mac_prices", "cities", "countries", "occupations"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	insert := func(table, query string, n int, args func(i int) []interface{}) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare %s insert: %w", table, err)
		}
		defer stmt.Close()
		for i := 0; i < n; i++ {
			if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
				return fmt.Errorf("insert %s row %d: %w", table, i, err)
			}
		}
		return nil
	}

	if err = insert("occupations",
		`INSERT INTO occupations (slug, title, category, base_usa, sector_multiplier, sort_order) VALUES ($1, $2, $3, $4, $5, $6)`,
		len(set.Occupations), func(i int) []interface{} {
			o := set.Occupations[i]
			return []interface{}{o.Slug, o.Title, o.Category, o.BaseUSA, o.SectorMultiplier, i}
		}); err != nil {
		return err
	}
	if err = insert("countries",
		`INSERT INTO countries (code, slug, name, flag, currency, currency_symbol, usd_exchange_rate, oecd_avg_wage, gdp_per_capita, sort_order) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		len(set.Countries), func(i int) []interface{} {
			c := set.Countries[i]
			return []interface{}{c.Code, c.Slug, c.Name, c.Flag, c.Currency, c.CurrencySymbol, c.USDExchangeRate, c.OECDAvgWage, c.GDPPerCapita, i}
		}); err != nil {
		return err
	}
	if err = insert("cities",
		`INSERT INTO cities (slug, name, country_code, population, is_capital, is_tech_hub, col_multiplier, sort_order) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		len(set.Cities), func(i int) []interface{} {
			c := set.Cities[i]
			return []interface{}{c.Slug, c.Name, c.CountryCode, c.Population, c.IsCapital, c.IsTechHub, c.COLMultiplier, i}
		}); err != nil {
		return err
	}
	if err = insert("big_mac_prices",
		`INSERT INTO big_mac_prices (country_code, local_price, usd_price) VALUES ($1, $2, $3)`,
		len(set.BigMacPrices), func(i int) []interface{} {
			p := set.BigMacPrices[i]
			return []interface{}{p.CountryCode, p.LocalPrice, p.USDPrice}
		}); err != nil {
		return err
	}
	if err = insert("country_salaries",
		`INSERT INTO country_salaries (occupation_slug, country_code, estimate_usd, ppp_adjusted_usd) VALUES ($1, $2, $3, $4)`,
		len(set.CountrySalaries), func(i int) []interface{} {
			e := set.CountrySalaries[i]
			return []interface{}{e.OccupationSlug, e.CountryCode, e.EstimateUSD, e.PPPAdjustedUSD}
		}); err != nil {
		return err
	}
	if err = insert("city_salaries",
		`INSERT INTO city_salaries (occupation_slug, country_code, city_slug, estimate_usd, ppp_adjusted_usd, col_adjusted_usd) VALUES ($1, $2, $3, $4, $5, $6)`,
		len(set.CitySalaries), func(i int) []interface{} {
			e := set.CitySalaries[i]
			return []interface{}{e.OccupationSlug, e.CountryCode, e.CitySlug, e.EstimateUSD, e.PPPAdjustedUSD, e.COLAdjustedUSD}
		}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset export: %w", err)
	}
	return nil
}
