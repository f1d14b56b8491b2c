package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Dispatch     DispatchConfig
	Seed         SeedConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DRCALC_APP_ENV" default:"dev"`
	Port         string `envconfig:"DRCALC_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DRCALC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DRCALC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Path        string        `envconfig:"DRCALC_DB_PATH" default:"drcalc.db"`
	BusyTimeout time.Duration `envconfig:"DRCALC_DB_BUSY_TIMEOUT" default:"5s"`
}

// DSN renders the sqlite connection string with the standing pragmas applied.
func (db DBConfig) DSN() string {
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprintf("%d", db.BusyTimeout.Milliseconds()))
	q.Set("_journal_mode", "WAL")
	return fmt.Sprintf("file:%s?%s", db.Path, q.Encode())
}

type DispatchConfig struct {
	RequestTimeout time.Duration `envconfig:"DRCALC_DISPATCH_REQUEST_TIMEOUT" default:"10s"`
}

type SeedConfig struct {
	Dir string `envconfig:"DRCALC_SEED_DIR" default:"data"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DRCALC_AUTO_MIGRATE" default:"false"`
	SeedImport  bool `envconfig:"DRCALC_SEED_IMPORT" default:"true"`
}
