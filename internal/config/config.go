package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Storage string

const (
	StorageMemory   Storage = "memory"
	StorageMongo    Storage = "mongo"
	StoragePostgres Storage = "postgres"
)

type Config struct {
	Port    string  `mapstructure:"PORT"`
	Env     string  `mapstructure:"ENV"`
	Storage Storage `mapstructure:"STORAGE"`

	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`

	// Postgres sólo respalda clients/pets/awards; el resto sigue en Mongo o memoria.
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	RedisURL      string `mapstructure:"REDIS_URL"`
	EventsChannel string `mapstructure:"EVENTS_CHANNEL"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWTIssuer string `mapstructure:"JWT_ISSUER"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	LogFile   string `mapstructure:"LOG_FILE"`
	AppName   string `mapstructure:"APP_NAME"`

	ReadTimeout     time.Duration `mapstructure:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"HTTP_SHUTDOWN_TIMEOUT"`
}

var keys = []string{
	"PORT", "ENV", "STORAGE",
	"MONGO_URI", "MONGO_DB", "POSTGRES_DSN",
	"REDIS_URL", "EVENTS_CHANNEL",
	"JWT_SECRET", "JWT_ISSUER",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "APP_NAME",
	"HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_SHUTDOWN_TIMEOUT",
}

// Load lee .env (si existe) y variables de entorno. Las variables de entorno ganan.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE", "")
	v.SetDefault("MONGO_DB", "vet_clinic")
	v.SetDefault("EVENTS_CHANNEL", "vet-clinic.events")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "vet-clinic")
	v.SetDefault("HTTP_READ_TIMEOUT", "5s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "10s")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "15s")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env es opcional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Storage = Storage(strings.ToLower(strings.TrimSpace(string(cfg.Storage))))
	if cfg.Storage == "" {
		cfg.Storage = inferStorage(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// inferStorage mantiene el comportamiento dev: sin DSN configurado se usa memoria.
func inferStorage(c *Config) Storage {
	switch {
	case strings.TrimSpace(c.MongoURI) != "":
		return StorageMongo
	case strings.TrimSpace(c.PostgresDSN) != "":
		return StoragePostgres
	default:
		return StorageMemory
	}
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("MONGO_URI is required when STORAGE=mongo")
		}
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORAGE=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE %q (memory|mongo|postgres)", c.Storage)
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT is required")
	}
	if !c.IsDev() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	return nil
}

func (c *Config) IsDev() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "" || env == "development" || env == "dev" || env == "test"
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
