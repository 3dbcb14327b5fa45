// Package config loads the per-environment YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/dbgate/internal/domain"
	"github.com/kailas-cloud/dbgate/internal/registry"
)

// Supported store drivers.
const (
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config holds the dbgate configuration.
type Config struct {
	HTTP      HTTPConfig               `yaml:"http"`
	Store     StoreConfig              `yaml:"store"`
	Embedding EmbeddingConfig          `yaml:"embedding"`
	Search    SearchConfig             `yaml:"search"`
	Lookup    LookupConfig             `yaml:"lookup"`
	Services  map[string]ServiceConfig `yaml:"services"`
	Logging   LoggingConfig            `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	Driver           string `yaml:"driver"` // redis, postgres (default: redis)
	URL              string `yaml:"url"`
	Index            string `yaml:"index"`
	KeyPrefix        string `yaml:"key_prefix"`   // redis only
	Table            string `yaml:"table"`        // postgres only
	VectorField      string `yaml:"vector_field"` // document attribute holding the embedding
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
	CreateIndex      bool   `yaml:"create_index"`
	HNSWM            int    `yaml:"hnsw_m"`
	HNSWEFConstruct  int    `yaml:"hnsw_ef_construction"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// SearchConfig holds similarity search defaults.
type SearchConfig struct {
	K             int `yaml:"k"`
	CandidatePool int `yaml:"candidate_pool"`
}

// LookupConfig holds the fixed predicates served by the lookup endpoints.
type LookupConfig struct {
	FixedName string `yaml:"fixed_name"`
	FixedID   int64  `yaml:"fixed_id"`
}

// ServiceConfig holds one proxied upstream service.
type ServiceConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	vc := domain.DefaultVectorConfig()

	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverRedis
	}
	if c.Store.Index == "" {
		c.Store.Index = vc.IndexName
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "listing:"
	}
	if c.Store.Table == "" {
		c.Store.Table = "listings"
	}
	if c.Store.VectorField == "" {
		c.Store.VectorField = vc.VectorPath
	}
	if c.Store.ReadinessTimeout <= 0 {
		c.Store.ReadinessTimeout = 10
	}
	if c.Store.HNSWM <= 0 {
		c.Store.HNSWM = 16
	}
	if c.Store.HNSWEFConstruct <= 0 {
		c.Store.HNSWEFConstruct = 200
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = vc.Model
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = vc.Dimensions
	}
	if c.Embedding.TimeoutMs <= 0 {
		c.Embedding.TimeoutMs = 10000
	}
	if c.Search.K <= 0 {
		c.Search.K = vc.TopK
	}
	if c.Search.CandidatePool <= 0 {
		c.Search.CandidatePool = vc.CandidatePool
	}
	if c.Lookup.FixedName == "" {
		c.Lookup.FixedName = "Private Room in Bushwick"
	}
	if c.Lookup.FixedID == 0 {
		c.Lookup.FixedID = 10084023
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Store.Driver {
	case DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverRedis, DriverPostgres, c.Store.Driver)
	}
	if c.Store.URL == "" {
		return fmt.Errorf("store.url is required")
	}
	if c.Search.CandidatePool < c.Search.K {
		return fmt.Errorf("search.candidate_pool (%d) must be >= search.k (%d)", c.Search.CandidatePool, c.Search.K)
	}
	if _, ok := c.Services[registry.DefaultService]; !ok {
		return fmt.Errorf("services.%s is required", registry.DefaultService)
	}
	for name, svc := range c.Services {
		if svc.BaseURL == "" {
			return fmt.Errorf("services.%s.base_url is required", name)
		}
		if svc.TimeoutMs <= 0 {
			return fmt.Errorf("services.%s.timeout_ms must be positive, got %d", name, svc.TimeoutMs)
		}
	}
	return nil
}

// VectorConfig returns the vectorization settings derived from the store,
// embedding and search sections.
func (c *Config) VectorConfig() domain.VectorConfig {
	return domain.VectorConfig{
		Model:         c.Embedding.Model,
		Dimensions:    c.Embedding.Dimensions,
		TopK:          c.Search.K,
		CandidatePool: c.Search.CandidatePool,
		IndexName:     c.Store.Index,
		VectorPath:    c.Store.VectorField,
	}
}

// ServiceConfigs returns the proxied services in name order.
func (c *Config) ServiceConfigs() []registry.ServiceConfig {
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]registry.ServiceConfig, 0, len(names))
	for _, name := range names {
		svc := c.Services[name]
		out = append(out, registry.ServiceConfig{
			Name:    name,
			BaseURL: svc.BaseURL,
			Timeout: time.Duration(svc.TimeoutMs) * time.Millisecond,
		})
	}
	return out
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
