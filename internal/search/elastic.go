// internal/search/elastic.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fairpay/internal/common/config"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
	"fairpay/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticSearcher queries an occupations index and falls back to another searcher
// when the cluster fails.
type ElasticSearcher struct {
	client   *elasticsearch.Client
	index    string
	fallback Searcher
	logger   logger.Logger
}

func NewElasticSearcher(client *elasticsearch.Client, index string, fallback Searcher, log logger.Logger) *ElasticSearcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &ElasticSearcher{
		client:   client,
		index:    index,
		fallback: fallback,
		logger:   log.WithFields(map[string]interface{}{"index": index}),
	}
}

func (s *ElasticSearcher) Name() string { return config.SearchDriverElasticsearch }

func (s *ElasticSearcher) Search(ctx context.Context, query string, limit int) ([]models.Occupation, error) {
	occs, err := s.query(ctx, query, limit)
	if err == nil {
		return occs, nil
	}

	stdErr := errors.NewSearchQueryFailedError(err)
	if s.fallback == nil {
		return nil, stdErr
	}
	s.logger.Warn("Search query failed, using fallback", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"error":     err.Error(),
		"fallback":  s.fallback.Name(),
	})
	return s.fallback.Search(ctx, query, limit)
}

func buildQuery(query string, limit int) map[string]interface{} {
	body := map[string]interface{}{
		"sort": []interface{}{"_score", map[string]interface{}{"slug.keyword": "asc"}},
	}
	if limit > 0 {
		body["size"] = limit
	}

	q := strings.TrimSpace(query)
	if q == "" {
		body["query"] = map[string]interface{}{"match_all": map[string]interface{}{}}
		return body
	}
	body["query"] = map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":     q,
			"fields":    []string{"title^3", "slug^2", "category"},
			"type":      "best_fields",
			"fuzziness": "AUTO",
		},
	}
	return body
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Occupation `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticSearcher) query(ctx context.Context, query string, limit int) ([]models.Occupation, error) {
	body, err := json.Marshal(buildQuery(query, limit))
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.Occupation, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// IndexOccupations bulk-indexes occupations by slug and refreshes the index.
func IndexOccupations(ctx context.Context, client *elasticsearch.Client, index string, occupations []models.Occupation) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, o := range occupations {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": index, "_id": o.Slug}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(o); err != nil {
			return err
		}
	}

	req := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}
	res, err := req.Do(ctx, client)
	if err != nil {
		return fmt.Errorf("bulk index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk index %s failed: %s", index, res.String())
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if r.Errors {
		return fmt.Errorf("bulk index %s reported item errors", index)
	}
	return nil
}
