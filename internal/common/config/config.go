// internal/common/config/config.go
package config

import (
	"fmt"

	"fairpay/internal/salary"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Dataset       DatasetConfig           `mapstructure:"dataset"`
	Normalization NormalizationConfig     `mapstructure:"normalization"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Cache         CacheConfig             `mapstructure:"cache"`
	Search        SearchConfig            `mapstructure:"search"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the HTTP query API.
type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	ReadTimeout    int      `mapstructure:"read_timeout"`    // milliseconds
	WriteTimeout   int      `mapstructure:"write_timeout"`   // milliseconds
	RequestTimeout int      `mapstructure:"request_timeout"` // milliseconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const (
	DatasetSourceFile = "file"
	DatasetSourceSQL  = "sql"
)

// DatasetConfig selects where the precomputed tables are loaded from.
type DatasetConfig struct {
	Source    string `mapstructure:"source"`    // file | sql
	Directory string `mapstructure:"directory"` // used by the file source
	Driver    string `mapstructure:"driver"`    // postgres | sqlite
	SQLite    string `mapstructure:"sqlite_path"`
	Validate  bool   `mapstructure:"validate"`
}

// NormalizationConfig holds the tunables of the salary model.
type NormalizationConfig struct {
	ReferenceCountry   string   `mapstructure:"reference_country"`
	ReferenceBigMacUSD float64  `mapstructure:"reference_big_mac_usd"`
	TechHubBonus       float64  `mapstructure:"tech_hub_bonus"`
	BonusCategories    []string `mapstructure:"bonus_categories"`
	SimilarTolerance   float64  `mapstructure:"similar_tolerance"`
}

// Salary maps the section onto the model tunables.
func (n NormalizationConfig) Salary() salary.Config {
	return salary.Config{
		BonusCategories:    n.BonusCategories,
		TechHubBonus:       n.TechHubBonus,
		ReferenceBigMacUSD: n.ReferenceBigMacUSD,
		SimilarTolerance:   n.SimilarTolerance,
	}
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the URL field or the first address.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// GetAddresses returns every configured node address.
func (e ElasticsearchConfig) GetAddresses() []string {
	if len(e.Addresses) > 0 {
		return e.Addresses
	}
	if e.URL != "" {
		return []string{e.URL}
	}
	return nil
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

const (
	CacheDriverNone   = "none"
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// CacheConfig configures the comparison result cache.
type CacheConfig struct {
	Driver string `mapstructure:"driver"` // none | memory | redis
	Size   int    `mapstructure:"size"`   // entries, memory driver
	TTL    int    `mapstructure:"ttl"`    // milliseconds, 0 keeps entries until evicted
	Prefix string `mapstructure:"prefix"`
}

const (
	SearchDriverFuzzy         = "fuzzy"
	SearchDriverElasticsearch = "elasticsearch"
)

// SearchConfig configures occupation search.
type SearchConfig struct {
	Driver       string `mapstructure:"driver"` // fuzzy | elasticsearch
	Index        string `mapstructure:"index"`
	DefaultLimit int    `mapstructure:"default_limit"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

