// internal/dataset/sql_source_test.go
package dataset_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairpay/internal/common/config"
	"fairpay/internal/common/database"
	"fairpay/internal/common/errors"
	"fairpay/internal/dataset"
	"fairpay/internal/dataset/datasettest"
)

// ==========================
// sqlmock
// ==========================

func expectTables(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("FROM occupations").WillReturnRows(
		sqlmock.NewRows([]string{"slug", "title", "category", "base_usa", "sector_multiplier"}).
			AddRow("software-engineer", "Software Engineer", "Tech", 120000.0, 1.0))
	mock.ExpectQuery("FROM countries").WillReturnRows(
		sqlmock.NewRows([]string{"code", "slug", "name", "flag", "currency", "currency_symbol", "usd_exchange_rate", "oecd_avg_wage", "gdp_per_capita"}).
			AddRow("US", "united-states", "United States", "", "USD", "$", 1.0, 80000.0, 76000.0))
	mock.ExpectQuery("FROM cities").WillReturnRows(
		sqlmock.NewRows([]string{"slug", "name", "country_code", "population", "is_capital", "is_tech_hub", "col_multiplier"}).
			AddRow("austin", "Austin", "US", int64(960000), false, true, 1.1))
	mock.ExpectQuery("FROM big_mac_prices").WillReturnRows(
		sqlmock.NewRows([]string{"country_code", "local_price", "usd_price"}).
			AddRow("US", 5.58, 5.58))
	mock.ExpectQuery("FROM country_salaries").WillReturnRows(
		sqlmock.NewRows([]string{"occupation_slug", "country_code", "estimate_usd", "ppp_adjusted_usd"}).
			AddRow("software-engineer", "US", int64(120000), int64(120000)))
}

func TestSQLSource_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectTables(mock)
	mock.ExpectQuery("FROM city_salaries").WillReturnRows(
		sqlmock.NewRows([]string{"occupation_slug", "country_code", "city_slug", "estimate_usd", "ppp_adjusted_usd", "col_adjusted_usd"}).
			AddRow("software-engineer", "US", "austin", int64(142560), int64(142560), int64(129600)))

	src := dataset.NewSQLSource(db, database.DriverPostgres)
	assert.Equal(t, "sql:postgres", src.Name())

	set, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Cities, 1)
	assert.True(t, set.Cities[0].IsTechHub)
	assert.Equal(t, int64(129600), set.CitySalaries[0].COLAdjustedUSD)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSource_EmptySalaryTablesAreNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectTables(mock)
	mock.ExpectQuery("FROM city_salaries").WillReturnRows(
		sqlmock.NewRows([]string{"occupation_slug", "country_code", "city_slug", "estimate_usd", "ppp_adjusted_usd", "col_adjusted_usd"}))

	set, err := dataset.NewSQLSource(db, database.DriverPostgres).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, set.CitySalaries)
	assert.Len(t, set.CountrySalaries, 1)
	assert.NotNil(t, set.BigMacPrices)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSource_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM occupations").WillReturnRows(
		sqlmock.NewRows([]string{"slug", "title", "category", "base_usa", "sector_multiplier"}))
	mock.ExpectQuery("FROM countries").WillReturnError(fmt.Errorf("connection reset"))

	_, err = dataset.NewSQLSource(db, database.DriverPostgres).Load(context.Background())
	require.Error(t, err)

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeDatabaseQueryError, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "table: countries")
}

func TestWriteSQL_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM city_salaries").WillReturnError(fmt.Errorf("permission denied"))
	mock.ExpectRollback()

	err = dataset.WriteSQL(context.Background(), db, datasettest.Set())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear city_salaries")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// sqlite round trip
// ==========================

func openSQLite(t *testing.T) *database.SQLClient {
	t.Helper()
	client, err := database.OpenSQL(context.Background(), config.DatasetConfig{
		Driver: database.DriverSQLite,
		SQLite: filepath.Join(t.TempDir(), "fairpay.db"),
	}, config.PostgresConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSQLSource_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := openSQLite(t)
	want := datasettest.Set()

	require.NoError(t, dataset.EnsureSchema(ctx, client.DB))
	require.NoError(t, dataset.WriteSQL(ctx, client.DB, want))
	// A second export replaces rather than duplicates.
	require.NoError(t, dataset.WriteSQL(ctx, client.DB, want))

	tables, err := dataset.Load(ctx, dataset.NewSQLSource(client.DB, client.Driver), loadOptions(t))
	require.NoError(t, err)

	got := tables.Set()
	assert.Equal(t, want.Occupations, got.Occupations)
	assert.Equal(t, want.Countries, got.Countries)
	assert.Equal(t, want.Cities, got.Cities)
	assert.ElementsMatch(t, want.BigMacPrices, got.BigMacPrices)
	assert.ElementsMatch(t, want.CountrySalaries, got.CountrySalaries)
	assert.ElementsMatch(t, want.CitySalaries, got.CitySalaries)

	var slugs []string
	for _, e := range tables.CitySalaries("registered-nurse") {
		slugs = append(slugs, e.CitySlug)
	}
	assert.Equal(t, []string{"new-york", "austin", "cleveland", "berlin", "munich", "london", "bangalore"}, slugs)
}

func TestSQLSource_SQLiteDerivesEmptySalaryTables(t *testing.T) {
	ctx := context.Background()
	client := openSQLite(t)
	set := datasettest.RawSet()
	set.CountrySalaries = nil

	require.NoError(t, dataset.EnsureSchema(ctx, client.DB))
	require.NoError(t, dataset.WriteSQL(ctx, client.DB, set))

	tables, err := dataset.Load(ctx, dataset.NewSQLSource(client.DB, client.Driver), loadOptions(t))
	require.NoError(t, err)

	entry, ok := tables.CountrySalary("school-teacher", "IN")
	require.True(t, ok)
	assert.Equal(t, int64(8775), entry.EstimateUSD)

	city, ok := tables.CitySalary("software-engineer", "london")
	require.True(t, ok)
	assert.Equal(t, int64(136080), city.EstimateUSD)
}
