package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	EnvStage       = "STAGE"
	EnvPort        = "PORT"
	EnvDatabaseUrl = "DATABASE_URL"
	EnvConfigPath  = "BATTLESHIP_CONFIG"
	defaultPort    = 8000
	defaultCleanup = time.Minute * 20
	defaultMigrDir = "file://db/migration"
)

type Config struct {
	Stage                  string
	Port                   int
	DatabaseUrl            string
	MigrationDir           string
	SessionCleanupInterval time.Duration
}

type fileConfig struct {
	Stage                  string `toml:"stage"`
	Port                   int    `toml:"port"`
	DatabaseUrl            string `toml:"database_url"`
	MigrationDir           string `toml:"migration_dir"`
	SessionCleanupInterval string `toml:"session_cleanup_interval"`
}

// Overrides come from command line flags and win over the file and
// the environment. Zero values leave the loaded setting untouched.
type Overrides struct {
	Stage string
	Port  int
}

func Default() Config {
	return Config{
		Stage:                  StageDev,
		Port:                   defaultPort,
		MigrationDir:           defaultMigrDir,
		SessionCleanupInterval: defaultCleanup,
	}
}

// Load builds the configuration from defaults, then the optional
// TOML file at path, then the environment, then overrides. Outside
// the prod stage a .env file in the working directory is loaded
// first if present.
func Load(path string, overrides Overrides) (Config, error) {
	stage := overrides.Stage
	if stage == "" {
		stage = os.Getenv(EnvStage)
	}
	if stage != StageProd {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if overrides.Stage != "" {
		cfg.Stage = overrides.Stage
	}
	if overrides.Port != 0 {
		cfg.Port = overrides.Port
	}

	if cfg.Stage != StageProd && cfg.Stage != StageDev {
		return Config{}, fmt.Errorf("stage must be either %s or %s, got: %s", StageDev, StageProd, cfg.Stage)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	return cfg, nil
}

func (cfg *Config) applyFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("stage") {
		cfg.Stage = strings.TrimSpace(raw.Stage)
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("database_url") {
		cfg.DatabaseUrl = strings.TrimSpace(raw.DatabaseUrl)
	}
	if meta.IsDefined("migration_dir") {
		cfg.MigrationDir = strings.TrimSpace(raw.MigrationDir)
	}
	if meta.IsDefined("session_cleanup_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.SessionCleanupInterval))
		if err != nil {
			return fmt.Errorf("parse session_cleanup_interval: %w", err)
		}
		cfg.SessionCleanupInterval = d
	}
	return nil
}

func (cfg *Config) applyEnv() error {
	if stage := os.Getenv(EnvStage); stage != "" {
		cfg.Stage = stage
	}
	if portEnv := os.Getenv(EnvPort); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvPort, err)
		}
		cfg.Port = port
	}
	if url := os.Getenv(EnvDatabaseUrl); url != "" {
		cfg.DatabaseUrl = url
	}
	return nil
}
