// internal/dataset/open.go
package dataset

import (
	"context"

	"fairpay/internal/common/config"
	"fairpay/internal/common/database"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
	"fairpay/internal/salary"
)

// Open returns the source selected by cfg.Dataset. The returned func releases the
// database handle of the sql source and is a no-op otherwise.
func Open(ctx context.Context, cfg *config.Config) (Source, func() error, error) {
	switch cfg.Dataset.Source {
	case config.DatasetSourceSQL:
		client, err := database.OpenSQL(ctx, cfg.Dataset, cfg.Database.Postgres)
		if err != nil {
			return nil, nil, errors.NewDatasetLoadFailedError("sql:"+cfg.Dataset.Driver, err)
		}
		return NewSQLSource(client.DB, client.Driver), client.Close, nil
	default:
		return NewFileSource(cfg.Dataset.Directory, cfg.Dataset.Validate), func() error { return nil }, nil
	}
}

// LoadConfigured opens the configured source and loads the tables from it.
func LoadConfigured(ctx context.Context, cfg *config.Config, log logger.Logger) (*Tables, error) {
	src, closeSrc, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeSrc() }()

	return Load(ctx, src, Options{
		Validate:         cfg.Dataset.Validate,
		Normalizer:       salary.NewNormalizer(cfg.Normalization.Salary()),
		ReferenceCountry: cfg.Normalization.ReferenceCountry,
		Logger:           log,
	})
}
