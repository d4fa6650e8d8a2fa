package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Server.MaxBodyBytes != 1<<20 {
		t.Errorf("expected 1 MiB body limit, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Postgres.QueryTimeout != 3*time.Second {
		t.Errorf("expected query timeout 3s, got %v", cfg.Postgres.QueryTimeout)
	}
	if cfg.Cache.Driver != CacheNone {
		t.Errorf("expected cache driver none, got %s", cfg.Cache.Driver)
	}
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  addr: ":9090"
  cors_origins: ["http://example.com"]
postgres:
  max_conns: 20
  query_timeout: 750ms
cache:
  driver: memory
log:
  level: debug
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %s", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://example.com" {
		t.Errorf("expected cors [http://example.com], got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Postgres.MaxConns != 20 {
		t.Errorf("expected max_conns 20, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Postgres.QueryTimeout != 750*time.Millisecond {
		t.Errorf("expected query timeout 750ms, got %v", cfg.Postgres.QueryTimeout)
	}
	if cfg.Cache.Driver != CacheMemory {
		t.Errorf("expected cache driver memory, got %s", cfg.Cache.Driver)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	// Unchanged fields keep defaults
	if cfg.Log.Format != "json" {
		t.Errorf("expected default log format, got %s", cfg.Log.Format)
	}
}

func TestLoadYAMLMissingFile(t *testing.T) {
	cfg := Defaults()
	if err := loadYAML(&cfg, filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(yamlPath, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(yamlPath, []byte("server:\n  addr: \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("APP_ADDR", ":7070")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("DB_QUERY_TIMEOUT", "5s")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("RATE_RPS", "2.5")

	cfg, err := LoadFrom(yamlPath)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Errorf("expected env addr :7070, got %s", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.test" {
		t.Errorf("expected two trimmed origins, got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Postgres.QueryTimeout != 5*time.Second {
		t.Errorf("expected query timeout 5s, got %v", cfg.Postgres.QueryTimeout)
	}
	if cfg.Cache.Driver != CacheRedis {
		t.Errorf("expected redis cache, got %s", cfg.Cache.Driver)
	}
	if cfg.Rate.RequestsPerSecond != 2.5 {
		t.Errorf("expected 2.5 rps, got %v", cfg.Rate.RequestsPerSecond)
	}
}

func TestInvalidEnvValueRejected(t *testing.T) {
	t.Setenv("RATE_RPS", "ten")
	t.Setenv("DB_QUERY_TIMEOUT", "soon")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for unparsable env values, got config %+v", cfg)
	}
	for _, want := range []string{"config validate", `RATE_RPS: invalid number "ten"`, `DB_QUERY_TIMEOUT: invalid duration "soon"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to contain %q, got %v", want, err)
		}
	}
}

func TestLoadEnv_TrustProxy(t *testing.T) {
	t.Setenv("RATE_TRUST_PROXY", "true")

	cfg := Defaults()
	if err := loadEnv(&cfg); err != nil {
		t.Fatal(err)
	}
	if !cfg.Rate.TrustProxy {
		t.Error("expected RATE_TRUST_PROXY to enable proxy trust")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"empty dsn", func(c *Config) { c.Postgres.DSN = "" }, "postgres.dsn"},
		{"zero query timeout", func(c *Config) { c.Postgres.QueryTimeout = 0 }, "postgres.query_timeout"},
		{"unknown cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "cache.driver"},
		{"redis without url", func(c *Config) { c.Cache.Driver = CacheRedis; c.Cache.RedisURL = "" }, "cache.redis_url"},
		{"tiny memory cache", func(c *Config) { c.Cache.Driver = CacheMemory; c.Cache.MemoryMaxBytes = 50 }, "cache.memory_max_bytes"},
		{"zero ttl with cache", func(c *Config) { c.Cache.Driver = CacheMemory; c.Cache.TTL = 0 }, "cache.ttl"},
		{"burst with rate", func(c *Config) { c.Rate.Burst = 0 }, "rate.burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := Defaults()
	cfg.Rate.RequestsPerSecond = 0
	cfg.Rate.Burst = 0

	if err := validate(&cfg); err != nil {
		t.Errorf("zero rate should disable limiting, got %v", err)
	}
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("DB_DSN", "from_env")

	cwd, _ := os.Getwd()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	LoadEnvFiles()

	if got := os.Getenv("DB_DSN"); got != "from_env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}
