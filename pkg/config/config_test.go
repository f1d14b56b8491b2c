package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env to default to dev, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if cfg.DB.Path != "drcalc.db" {
		t.Fatalf("unexpected default db path %q", cfg.DB.Path)
	}
	if !cfg.FeatureFlags.SeedImport {
		t.Fatal("expected seed import to default on")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DRCALC_APP_ENV", "prod")
	t.Setenv("DRCALC_DB_PATH", "/var/lib/drcalc/catalog.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env, got %q", cfg.App.Env)
	}
	if cfg.DB.Path != "/var/lib/drcalc/catalog.db" {
		t.Fatalf("unexpected db path %q", cfg.DB.Path)
	}
}

func TestDBConfigDSN(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	dsn := cfg.DB.DSN()
	if !strings.HasPrefix(dsn, "file:drcalc.db?") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	if !strings.Contains(dsn, "_busy_timeout=5000") {
		t.Fatalf("expected busy timeout pragma in %q", dsn)
	}
	if !strings.Contains(dsn, "_journal_mode=WAL") {
		t.Fatalf("expected WAL pragma in %q", dsn)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
