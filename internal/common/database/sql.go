// internal/common/database/sql.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fairpay/internal/common/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLClient wraps a database/sql handle and remembers which driver opened it.
type SQLClient struct {
	DB     *sql.DB
	Driver string
}

// OpenSQL opens the dataset database. Postgres uses the database.postgres section,
// sqlite the dataset.sqlite_path file.
func OpenSQL(ctx context.Context, ds config.DatasetConfig, pg config.PostgresConfig) (*SQLClient, error) {
	var (
		driverName string
		dsn        string
	)
	switch ds.Driver {
	case DriverPostgres:
		driverName, dsn = "postgres", pg.GetDSN()
	case DriverSQLite:
		driverName, dsn = "sqlite", fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", ds.SQLite)
	default:
		return nil, fmt.Errorf("unsupported sql driver: %q", ds.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", ds.Driver, err)
	}

	if ds.Driver == DriverPostgres {
		db.SetMaxOpenConns(pg.MaxConnections)
		db.SetMaxIdleConns(pg.MaxIdle)
	} else {
		db.SetMaxOpenConns(1)
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	client := &SQLClient{DB: db, Driver: ds.Driver}
	if err := client.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return client, nil
}

func (c *SQLClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", c.Driver, err)
	}
	return nil
}

func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
