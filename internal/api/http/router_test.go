// internal/api/http/router_test.go
package http

import (
	"context"
	"encoding/json"
	stderrors "errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"fairpay/internal/common/config"
	"fairpay/internal/common/logger"
	"fairpay/internal/dataset"
	"fairpay/internal/dataset/datasettest"
	"fairpay/internal/models"
	"fairpay/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, ready func(context.Context) error) nethttp.Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	svc := service.New(datasettest.Tables(t), service.Options{Logger: log})
	return NewRouter(Options{
		Service:        svc,
		Logger:         log,
		AllowedOrigins: []string{"https://fairpay.example"},
		Ready:          ready,
	})
}

func get(t *testing.T, h nethttp.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, rec)
	e, ok := body["error"].(map[string]interface{})
	require.True(t, ok, rec.Body.String())
	return e["code"].(string)
}

// ==========================
// Health and middleware
// ==========================

func TestHealthz(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/healthz")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestReadyz(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/readyz")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, datasettest.Tables(t).Fingerprint(), body["dataset"])

	rec = get(t, newTestRouter(t, func(context.Context) error { return stderrors.New("redis down") }), "/readyz")
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "redis down", decode(t, rec)["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/metrics")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestRouter(t, nil), "/api/salaries")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(nethttp.MethodOptions, "/api/countries", nil)
	req.Header.Set("Origin", "https://fairpay.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://fairpay.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(nethttp.MethodOptions, "/api/countries", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// ==========================
// Catalog
// ==========================

func TestOccupations(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(t, h, "/api/occupations")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var all []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 3)
	assert.Equal(t, "software-engineer", all[0]["slug"])

	rec = get(t, h, "/api/occupations?q=nurse")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.NotEmpty(t, found)
	assert.Equal(t, "registered-nurse", found[0]["slug"])

	rec = get(t, h, "/api/occupations?limit=many")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))
}

func TestOccupationDetail(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(t, h, "/api/occupations/software-engineer")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Software Engineer", body["title"])
	assert.Len(t, body["countries"], 4)

	rec = get(t, h, "/api/occupations/astronaut")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestCities(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(t, h, "/api/countries/de/cities")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var cities []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cities))
	require.Len(t, cities, 2)
	assert.Equal(t, "berlin", cities[0]["slug"])
	assert.Equal(t, "munich", cities[1]["slug"])

	rec = get(t, h, "/api/countries/FR/cities")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = get(t, h, "/api/countries")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var countries []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &countries))
	assert.Len(t, countries, 4)
}

// ==========================
// Queries
// ==========================

func TestQueries(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name   string
		target string
		field  string
		want   interface{}
	}{
		{"country percentile", "/api/percentile/country?occupation=software-engineer&country=DE&salary=100000", "percentile", 66.67},
		{"country percentile monthly", "/api/percentile/country?occupation=software-engineer&country=US&salary=5000&period=monthly", "percentile", 33.33},
		{"country percentile local", "/api/percentile/country?occupation=software-engineer&country=DE&salary=60000&currency=local", "percentile", 33.33},
		{"city percentile", "/api/percentile/city?occupation=software-engineer&country=US&city=new-york&salary=110000", "label", "Top 50%"},
		{"comparisons", "/api/comparisons?occupation=software-engineer&country=DE&salary=90000", "userPercentile", 66.67},
		{"comparisons without country", "/api/comparisons?occupation=software-engineer&salary=90000", "userPercentile", 50.0},
		{"relocation", "/api/relocation?occupation=software-engineer&from=cleveland&to=new-york", "verdict", "yes"},
		{"convert", "/api/convert?amount=50&period=hourly", "annualUSD", 104000.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decode(t, rec)[tt.field])
		})
	}
}

func TestQueryErrors(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"missing salary", "/api/percentile/country?occupation=software-engineer&country=DE", nethttp.StatusBadRequest, "INVALID_INPUT"},
		{"salary not a number", "/api/percentile/country?occupation=software-engineer&country=DE&salary=lots", nethttp.StatusBadRequest, "INVALID_INPUT"},
		{"negative salary", "/api/percentile/country?occupation=software-engineer&country=DE&salary=-1", nethttp.StatusBadRequest, "INVALID_INPUT"},
		{"missing country", "/api/percentile/country?occupation=software-engineer&salary=1", nethttp.StatusBadRequest, "INVALID_INPUT"},
		{"unknown occupation", "/api/percentile/country?occupation=astronaut&country=DE&salary=1", nethttp.StatusNotFound, "NOT_FOUND"},
		{"city in another country", "/api/percentile/city?occupation=software-engineer&country=DE&city=austin&salary=1", nethttp.StatusNotFound, "NOT_FOUND"},
		{"relocation missing city", "/api/relocation?occupation=software-engineer&from=austin", nethttp.StatusBadRequest, "INVALID_INPUT"},
		{"bad period", "/api/convert?amount=1&period=fortnightly", nethttp.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestInsufficientData(t *testing.T) {
	set := datasettest.Set()
	var rows []models.CountrySalaryEntry
	for _, e := range set.CountrySalaries {
		if e.OccupationSlug != "school-teacher" || e.CountryCode == "US" {
			rows = append(rows, e)
		}
	}
	set.CountrySalaries = rows
	tables, err := dataset.Build(set)
	require.NoError(t, err)

	h := NewRouter(Options{Service: service.New(tables, service.Options{}), Logger: logger.NewTestLogger(t)})
	rec := get(t, h, "/api/percentile/country?occupation=school-teacher&country=US&salary=60000")
	assert.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INSUFFICIENT_DATA", errorCode(t, rec))
}

func TestNewServer(t *testing.T) {
	srv := NewServer(config.ServerConfig{Address: ":9090", ReadTimeout: 1000, WriteTimeout: 2000}, nethttp.NotFoundHandler())
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, "1s", srv.ReadTimeout.String())
	assert.Equal(t, "2s", srv.WriteTimeout.String())
}
