package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile es el nombre del archivo de configuración opcional.
// Si no existe, todo puede venir por env vars.
const DefaultFile = "shelter_config.yaml"

// Config del servicio. Los campos vacíos caen a defaults razonables
// (puerto 8080, storage in-memory si no hay DSN, auth en modo dev si
// no hay AuthBaseURL).
type Config struct {
	Port        string `yaml:"port" validate:"omitempty,numeric"`
	DBDSN       string `yaml:"db_dsn"`
	AuthBaseURL string `yaml:"auth_base_url" validate:"omitempty,url"`
	LogLevel    string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat   string `yaml:"log_format" validate:"omitempty,oneof=text json"`
	AppName     string `yaml:"app_name"`
}

var validate = validator.New()

// Load lee DefaultFile si existe y luego aplica overrides por env:
// PORT, DB_DSN, AUTH_BASE_URL, LOG_LEVEL, LOG_FORMAT, APP_NAME.
func Load() (Config, error) {
	cfg := Config{}

	if b, err := os.ReadFile(DefaultFile); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", DefaultFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", DefaultFile, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFromPath es Load pero con un path explícito (para tests).
func LoadFromPath(path string) (Config, error) {
	cfg := Config{}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overlay(&cfg.Port, "PORT")
	overlay(&cfg.DBDSN, "DB_DSN")
	overlay(&cfg.AuthBaseURL, "AUTH_BASE_URL")
	overlay(&cfg.LogLevel, "LOG_LEVEL")
	overlay(&cfg.LogFormat, "LOG_FORMAT")
	overlay(&cfg.AppName, "APP_NAME")
}

func overlay(dst *string, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8080"
	}
	if strings.TrimSpace(cfg.AppName) == "" {
		cfg.AppName = "animal-shelter"
	}
}

func (c Config) Addr() string {
	return ":" + c.Port
}
