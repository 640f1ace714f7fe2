// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for ascend.
type Config struct {
	// DBPath is the SQLite file; empty means ~/.ascend.db.
	DBPath    string `env:"ASCEND_DB_PATH"`
	LogLevel  string `env:"ASCEND_LOG_LEVEL" envDefault:"warn" validate:"oneof=debug info warn error"`
	LogFormat string `env:"ASCEND_LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	// RelaxedWeekends stops weekends from counting as missed days for decay.
	RelaxedWeekends bool `env:"ASCEND_RELAXED_WEEKENDS" envDefault:"false"`
	// Timezone decides where calendar days start for decay; empty means local time.
	Timezone string `env:"ASCEND_TZ"`
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads an optional .env file from envFile (default ".env"), then the
// process environment, and validates the result. Variables already set in the
// environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
