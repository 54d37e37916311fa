// internal/search/search.go

// Package search finds occupations by free-text title.
package search

import (
	"context"
	"fmt"
	"strings"

	"fairpay/internal/common/config"
	"fairpay/internal/common/logger"
	"fairpay/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sahilm/fuzzy"
)

// Searcher returns occupations ranked by relevance to query.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.Occupation, error)
}

// New builds the searcher selected by cfg.Driver. The fuzzy searcher over occupations
// is also the fallback for elasticsearch.
func New(cfg config.SearchConfig, es *elasticsearch.Client, occupations []models.Occupation, log logger.Logger) (Searcher, error) {
	fz := NewFuzzySearcher(occupations)
	switch cfg.Driver {
	case config.SearchDriverFuzzy, "":
		return fz, nil
	case config.SearchDriverElasticsearch:
		if es == nil {
			return nil, fmt.Errorf("elasticsearch search selected without a client")
		}
		return NewElasticSearcher(es, cfg.Index, fz, log), nil
	default:
		return nil, fmt.Errorf("unsupported search driver: %q", cfg.Driver)
	}
}

type occupationItems []models.Occupation

func (o occupationItems) Len() int { return len(o) }

// String matches against the title and slug together so either spelling hits.
func (o occupationItems) String(i int) string {
	return strings.ToLower(o[i].Title) + " " + strings.ReplaceAll(o[i].Slug, "-", " ")
}

// FuzzySearcher ranks occupations in memory.
type FuzzySearcher struct {
	items occupationItems
}

func NewFuzzySearcher(occupations []models.Occupation) *FuzzySearcher {
	return &FuzzySearcher{items: append(occupationItems(nil), occupations...)}
}

func (s *FuzzySearcher) Name() string { return config.SearchDriverFuzzy }

// Search returns the best fuzzy matches. An empty query lists occupations in table
// order.
func (s *FuzzySearcher) Search(_ context.Context, query string, limit int) ([]models.Occupation, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clip(append([]models.Occupation(nil), s.items...), limit), nil
	}

	matches := fuzzy.FindFrom(q, s.items)
	out := make([]models.Occupation, 0, len(matches))
	for _, m := range matches {
		out = append(out, s.items[m.Index])
	}
	return clip(out, limit), nil
}

func clip(occs []models.Occupation, limit int) []models.Occupation {
	if limit > 0 && len(occs) > limit {
		return occs[:limit]
	}
	return occs
}
