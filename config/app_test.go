package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookrank.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Recommend.DefaultLimit != 40 || cfg.Recommend.MaxResultsPerGenre != 20 {
		t.Errorf("recommend defaults = %+v", cfg.Recommend)
	}
	if cfg.Model.Kind != "xgboost" {
		t.Errorf("model kind = %q", cfg.Model.Kind)
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	t.Setenv("TEST_REDIS_HOST", "cache.local:6379")
	t.Setenv("BOOKRANK_ADDR", ":9090")
	t.Setenv("GOOGLE_BOOKS_API_KEY", "k-123")

	path := writeFile(t, `
server:
  addr: ":7000"
  request_timeout: 3s
cache:
  backend: redis
  redis:
    addr: ${TEST_REDIS_HOST}
sentiment:
  provider: http
  endpoint: http://sentiment.local/classify
recommend:
  default_limit: 10
  rule_expr: 'book.page_count > 1500'
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("env should override yaml addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.RequestTimeout != 3*time.Second {
		t.Errorf("request_timeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Cache.Redis.Addr != "cache.local:6379" {
		t.Errorf("redis addr = %q, want expanded env", cfg.Cache.Redis.Addr)
	}
	if cfg.Catalog.APIKey != "k-123" {
		t.Errorf("api key = %q", cfg.Catalog.APIKey)
	}
	if cfg.Recommend.DefaultLimit != 10 || cfg.Recommend.RuleExpr == "" {
		t.Errorf("recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.MaxResultsPerGenre != 20 {
		t.Errorf("unset fields should keep defaults, got %d", cfg.Recommend.MaxResultsPerGenre)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad cache backend", "cache:\n  backend: memcached\n"},
		{"http sentiment without endpoint", "sentiment:\n  provider: http\n"},
		{"rpc model without endpoint", "model:\n  kind: rpc\n"},
		{"too many per genre", "recommend:\n  max_results_per_genre: 100\n"},
		{"tracing without endpoint", "tracing:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.yaml))
			if err == nil || !strings.Contains(err.Error(), "invalid config") {
				t.Errorf("err = %v, want invalid config", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("want error for missing file")
	}
}
