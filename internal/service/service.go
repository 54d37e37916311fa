// internal/service/service.go

// Package service answers the salary queries presentation code asks: percentile ranks,
// country comparisons and relocation verdicts over one loaded dataset.
package service

import (
	"context"
	stderrors "errors"
	"math"
	"strings"
	"time"

	"fairpay/internal/common/cache"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
	"fairpay/internal/common/metrics"
	"fairpay/internal/common/observability"
	"fairpay/internal/dataset"
	"fairpay/internal/salary"
	"fairpay/internal/search"

	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// Options carries the optional collaborators of a Service. Zero values select no-op
// implementations.
type Options struct {
	Config        salary.Config
	Cache         cache.Cache
	Searcher      search.Searcher
	Observability *observability.Observability
	Logger        logger.Logger
	SearchLimit   int
}

// Service is safe for concurrent use. The tables are never modified.
type Service struct {
	tables      *dataset.Tables
	cfg         salary.Config
	cache       cache.Cache
	searcher    search.Searcher
	obs         *observability.Observability
	logger      logger.Logger
	searchLimit int
}

func New(tables *dataset.Tables, opts Options) *Service {
	s := &Service{
		tables:      tables,
		cfg:         opts.Config,
		cache:       opts.Cache,
		searcher:    opts.Searcher,
		obs:         opts.Observability,
		logger:      opts.Logger,
		searchLimit: opts.SearchLimit,
	}
	if s.cfg.TechHubBonus == 0 && s.cfg.ReferenceBigMacUSD == 0 && s.cfg.SimilarTolerance == 0 && s.cfg.BonusCategories == nil {
		s.cfg = salary.DefaultConfig()
	}
	s.cfg = salary.NewNormalizer(s.cfg).Config()
	if s.cache == nil {
		s.cache = cache.NopCache{}
	}
	if s.searcher == nil {
		s.searcher = search.NewFuzzySearcher(tables.Occupations())
	}
	if s.logger == nil {
		s.logger = logger.NewNoOpLogger()
	}
	if s.searchLimit <= 0 {
		s.searchLimit = defaultSearchLimit
	}
	s.logger = s.logger.WithFields(map[string]interface{}{"dataset": tables.Fingerprint()})
	return s
}

// Tables exposes the dataset the service answers from.
func (s *Service) Tables() *dataset.Tables {
	return s.tables
}

// observe opens a span and returns the function that closes it and records metrics.
func (s *Service) observe(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.obs.StartSpan(ctx, operation, attrs...)
	return ctx, func(err error) {
		metrics.ObserveQuery(operation, start, err)
		s.obs.RecordOperation(ctx, operation, metrics.Outcome(err), time.Since(start))
		observability.EndSpan(span, err)
		if err != nil && errors.CodeOf(err) == errors.ErrCodeInternal {
			s.logger.Error("Query failed", map[string]interface{}{
				"operation": operation,
				"error":     err.Error(),
			})
		}
	}
}

// insufficient converts the numeric core's sentinel into the service error.
func insufficient(err error, details string) error {
	if stderrors.Is(err, salary.ErrInsufficientData) {
		return errors.NewInsufficientDataError(details)
	}
	return errors.NewInternalError(err)
}

func checkSalary(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return errors.NewInvalidInputError("salary must be a positive number")
	}
	return nil
}

func checkSlug(kind, v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.NewInvalidInputError(kind + " is required")
	}
	return nil
}

func roundPercentile(p float64) float64 {
	return salary.RoundTo(p, 2)
}

func normalizeSlug(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func normalizeCode(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
