package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port == "" || cfg.Database.Driver == "" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Auth.ResetTTL != time.Hour {
		t.Fatalf("expected 1h reset ttl, got %v", cfg.Auth.ResetTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "offers.db")
	t.Setenv("MIGRATIONS", "true")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.DSN() != "offers.db" {
		t.Fatalf("sqlite dsn = %q", cfg.Database.DSN())
	}
	if !cfg.App.Migrations || cfg.Auth.TokenTTL != 2*time.Hour || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: \"7000\"\nstorage:\n  bucket: logos\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7000" || cfg.Storage.Bucket != "logos" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestDatabaseURLs(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "om", SSLMode: "disable"}
	if got := d.DSN(); got != "host=db port=5432 user=u password=p@ss dbname=om sslmode=disable" {
		t.Fatalf("dsn = %q", got)
	}
	if got := d.MigrateURL(); got != "postgres://u:p%40ss@db:5432/om?sslmode=disable" {
		t.Fatalf("url = %q", got)
	}
	d.URL = "postgres://x"
	if d.DSN() != "postgres://x" || d.MigrateURL() != "postgres://x" {
		t.Fatalf("explicit url should win")
	}
}
