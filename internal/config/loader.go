package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the YAML path used when LIBRARY_CONFIG is unset.
const DefaultConfigFile = "libraryapi.yaml"

// LoadEnvFiles loads .env and .env.local. Variables already present in the
// process environment are not overridden.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
func Load() (*Config, error) {
	path := os.Getenv("LIBRARY_CONFIG")
	if path == "" {
		path = DefaultConfigFile
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit YAML path. A missing file is not an error.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	if err := loadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays non-empty environment variables onto cfg. Values that do
// not parse are collected and returned together.
func loadEnv(cfg *Config) error {
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	setString(&cfg.Server.Addr, "APP_ADDR")
	check(setInt64(&cfg.Server.MaxBodyBytes, "MAX_BODY_BYTES"))
	setList(&cfg.Server.CORSOrigins, "CORS_ORIGINS")
	check(setDuration(&cfg.Server.ShutdownTimeout, "SHUTDOWN_TIMEOUT"))
	check(setBool(&cfg.Server.HSTS, "ENABLE_HSTS"))

	setString(&cfg.Postgres.DSN, "DB_DSN")
	check(setInt32(&cfg.Postgres.MaxConns, "DB_MAX_CONNS"))
	check(setInt32(&cfg.Postgres.MinConns, "DB_MIN_CONNS"))
	check(setDuration(&cfg.Postgres.QueryTimeout, "DB_QUERY_TIMEOUT"))
	check(setBool(&cfg.Postgres.AutoMigrate, "DB_AUTO_MIGRATE"))

	setString(&cfg.Cache.Driver, "CACHE_DRIVER")
	check(setDuration(&cfg.Cache.TTL, "CACHE_TTL"))
	check(setInt64(&cfg.Cache.MemoryMaxBytes, "CACHE_MEMORY_MAX_BYTES"))
	setString(&cfg.Cache.RedisURL, "REDIS_URL")

	check(setFloat64(&cfg.Rate.RequestsPerSecond, "RATE_RPS"))
	check(setInt(&cfg.Rate.Burst, "RATE_BURST"))
	check(setBool(&cfg.Rate.TrustProxy, "RATE_TRUST_PROXY"))

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	return errors.Join(errs...)
}

func validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be > 0")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Postgres.QueryTimeout <= 0 {
		return errors.New("postgres.query_timeout must be > 0")
	}
	switch cfg.Cache.Driver {
	case CacheNone:
	case CacheMemory:
		if cfg.Cache.MemoryMaxBytes < MinCacheMemoryBytes {
			return fmt.Errorf("cache.memory_max_bytes must be >= %d", MinCacheMemoryBytes)
		}
	case CacheRedis:
		if cfg.Cache.RedisURL == "" {
			return errors.New("cache.redis_url is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver %q is not one of none, memory, redis", cfg.Cache.Driver)
	}
	if cfg.Cache.Driver != CacheNone && cfg.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0")
	}
	if cfg.Rate.RequestsPerSecond < 0 {
		return errors.New("rate.requests_per_second must be >= 0")
	}
	if cfg.Rate.RequestsPerSecond > 0 && cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", key, v)
	}
	*dst = n
	return nil
}

func setInt32(dst *int32, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", key, v)
	}
	*dst = int32(n)
	return nil
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", key, v)
	}
	*dst = n
	return nil
}

func setFloat64(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: invalid number %q", key, v)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", key, v)
	}
	*dst = d
	return nil
}
