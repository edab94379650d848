package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Service.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Service.Port)
	}
	if cfg.JWT.AccessTTL != 30*time.Minute {
		t.Errorf("Expected default access ttl 30m, got %v", cfg.JWT.AccessTTL)
	}
	if !cfg.Auth.ProtectCategories {
		t.Errorf("Expected categories to be protected by default")
	}
	if cfg.Limits.CheckoutQPS != 50 {
		t.Errorf("Expected checkout limit 50 qps, got %v", cfg.Limits.CheckoutQPS)
	}
	if cfg.Media.MaxImageSize != 2*1024*1024 {
		t.Errorf("Expected 2MiB image limit, got %d", cfg.Media.MaxImageSize)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
service:
  port: 9090
  env: production
database:
  driver: sqlite
  path: /tmp/shop.db
jwt:
  access_ttl: 5m
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Service.Port != 9090 || cfg.IsDevelopment() {
		t.Errorf("Expected file values, got port=%d env=%s", cfg.Service.Port, cfg.Service.Env)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "/tmp/shop.db" {
		t.Errorf("Expected sqlite database from file, got %+v", cfg.Database)
	}
	if cfg.JWT.AccessTTL != 5*time.Minute {
		t.Errorf("Expected access ttl 5m, got %v", cfg.JWT.AccessTTL)
	}
	if cfg.Mysql.Host != "db.internal" {
		t.Errorf("Expected MYSQL_HOST override, got %q", cfg.Mysql.Host)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("Expected JWT_SECRET override, got %q", cfg.JWT.Secret)
	}
}
