package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

const (
	BusModeNSQ    = "nsq"
	BusModeMemory = "memory"
)

type Config struct {
	DBHost string `envconfig:"DB_HOST" default:"postgres"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"titledoctor"`
	DBPass string `envconfig:"DB_PASS" default:"password"`
	DBName string `envconfig:"DB_NAME" default:"titledoctor"`

	// BusMode selects the event transport: "nsq" (default) or "memory"
	// for single-process runs without an nsqd.
	BusMode    string `envconfig:"BUS_MODE" default:"nsq"`
	NSQLookupd string `envconfig:"NSQ_LOOKUPD" default:"nsqlookupd:4161"`
	NSQDHost   string `envconfig:"NSQD_HOST" default:"nsqd:4150"`
	NSQDHTTP   string `envconfig:"NSQD_HTTP" default:"nsqd:4151"`

	YouTubeAPIKey   string `envconfig:"YOUTUBE_API_KEY"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	ResendAPIKey    string `envconfig:"RESEND_API_KEY"`
	ResendFromEmail string `envconfig:"RESEND_FROM_EMAIL"`

	// Every collaborator call runs under this deadline; expiry is treated
	// like any other collaborator fault.
	StageTimeoutSeconds int `envconfig:"STAGE_TIMEOUT_SECONDS" default:"60"`

	MigrationPath string `envconfig:"MIGRATION_PATH" default:"file://migrations"`
	ServerPort    int    `envconfig:"SERVER_PORT" default:"8081"`

	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Env vars may also come from the shell, so a missing .env is fine.
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	_ = godotenv.Load(filepath.Join(cwd, "../.env"))

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" {
		return fmt.Errorf("%w: DB_HOST", ErrMissingRequired)
	}
	if c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER", ErrMissingRequired)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingRequired)
	}
	if c.BusMode != BusModeNSQ && c.BusMode != BusModeMemory {
		return fmt.Errorf("%w: BUS_MODE must be nsq or memory", ErrMissingRequired)
	}
	return nil
}
