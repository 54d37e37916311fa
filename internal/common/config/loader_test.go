// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fairpay/internal/salary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: fairpay-test
dataset:
  directory: testdata
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "fairpay-test", cfg.App.Name)
	assert.Equal(t, DatasetSourceFile, cfg.Dataset.Source)
	assert.True(t, cfg.Dataset.Validate)
	assert.Equal(t, ":8080", cfg.Server.Address)

	assert.Equal(t, "US", cfg.Normalization.ReferenceCountry)
	assert.Equal(t, 5.58, cfg.Normalization.ReferenceBigMacUSD)
	assert.Equal(t, 1.08, cfg.Normalization.TechHubBonus)
	assert.Equal(t, []string{"Tech"}, cfg.Normalization.BonusCategories)
	assert.Equal(t, 0.05, cfg.Normalization.SimilarTolerance)
	assert.Equal(t, salary.DefaultConfig(), cfg.Normalization.Salary())

	assert.Equal(t, CacheDriverMemory, cfg.Cache.Driver)
	assert.Equal(t, SearchDriverFuzzy, cfg.Search.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("FAIRPAY_TEST_BROKER", "zeebe:26500")
	path := writeConfig(t, `
camunda:
  enabled: true
  broker_address: "${FAIRPAY_TEST_BROKER}"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	path := writeConfig(t, `
server:
  address: ":8080"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Address)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown dataset source",
			body:    "dataset:\n  source: s3\n",
			wantErr: "dataset.source",
		},
		{
			name:    "sqlite without path",
			body:    "dataset:\n  source: sql\n  driver: sqlite\n",
			wantErr: "dataset.sqlite_path",
		},
		{
			name:    "postgres without host",
			body:    "dataset:\n  source: sql\n  driver: postgres\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "camunda without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "redis cache without address",
			body:    "cache:\n  driver: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "elasticsearch search without address",
			body:    "search:\n  driver: elasticsearch\n",
			wantErr: "database.elasticsearch",
		},
		{
			name:    "bonus below one",
			body:    "normalization:\n  tech_hub_bonus: 0.5\n",
			wantErr: "tech_hub_bonus",
		},
		{
			name:    "tolerance out of range",
			body:    "normalization:\n  similar_tolerance: 1.5\n",
			wantErr: "similar_tolerance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{
		Workers: map[string]WorkerConfig{
			"salary-relocation-verdict": {Enabled: false, MaxJobsActive: 2, Timeout: 1500},
		},
	}

	assert.False(t, IsWorkerEnabled(cfg, "salary-relocation-verdict"))
	assert.True(t, IsWorkerEnabled(cfg, "salary-country-percentile"))

	wc := GetWorkerConfig(cfg, "salary-relocation-verdict")
	assert.Equal(t, 2, wc.MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(wc.Timeout))

	def := GetWorkerConfig(cfg, "unknown")
	assert.True(t, def.Enabled)
	assert.Equal(t, 5, def.MaxJobsActive)
}

func TestElasticsearchAddresses(t *testing.T) {
	assert.Equal(t, []string{"http://es:9200"}, ElasticsearchConfig{URL: "http://es:9200"}.GetAddresses())
	assert.Equal(t, "http://a:9200", ElasticsearchConfig{Addresses: []string{"http://a:9200", "http://b:9200"}}.GetURL())
	assert.Empty(t, ElasticsearchConfig{}.GetURL())
}
