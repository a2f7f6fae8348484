package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "tollway/libs/config"
)

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"TOLLWAY_HTTP_PORT"`
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn" env:"TOLLWAY_POSTGRES_DSN"`
	MaxOpenConns int    `yaml:"maxOpenConns" env:"TOLLWAY_POSTGRES_MAX_OPEN_CONNS"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret           string `yaml:"secret" env:"TOLLWAY_JWT_SECRET"`
	ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"TOLLWAY_JWT_EXPIRES_MINUTES"`
}

// RedisConfig holds the optional rankings cache backend. An empty address
// disables caching entirely.
type RedisConfig struct {
	Addr        string        `yaml:"addr" env:"TOLLWAY_REDIS_ADDR"`
	Password    string        `yaml:"password" env:"TOLLWAY_REDIS_PASSWORD"`
	RankingsTTL time.Duration `yaml:"rankingsTTL" env:"TOLLWAY_REDIS_RANKINGS_TTL"`
}

// DataConfig points at the CSV fixtures used for resets and startup seeding.
type DataConfig struct {
	Dir          string `yaml:"dir" env:"TOLLWAY_DATA_DIR"`
	Stations     string `yaml:"stations" env:"TOLLWAY_DATA_STATIONS"`
	Passes       string `yaml:"passes" env:"TOLLWAY_DATA_PASSES"`
	Transceivers string `yaml:"transceivers" env:"TOLLWAY_DATA_TRANSCEIVERS"`
	Users        string `yaml:"users" env:"TOLLWAY_DATA_USERS"`
	Vehicles     string `yaml:"vehicles" env:"TOLLWAY_DATA_VEHICLES"`
}

// AuthConfig holds password hashing settings.
type AuthConfig struct {
	BcryptCost int `yaml:"bcryptCost" env:"TOLLWAY_BCRYPT_COST"`
}

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	Data     DataConfig     `yaml:"data"`
	Auth     AuthConfig     `yaml:"auth"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: "9115"},
		JWT:  JWTConfig{ExpiresInMinutes: 120},
		Redis: RedisConfig{
			RankingsTTL: time.Minute,
		},
		Data: DataConfig{
			Dir:          "data",
			Stations:     "tollstations.csv",
			Passes:       "passes.csv",
			Transceivers: "transceivers.csv",
			Users:        "users.csv",
			Vehicles:     "vehicles.csv",
		},
	}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 120
	}
	if cfg.Auth.BcryptCost < 0 {
		return nil, errors.New("config: bcrypt cost must not be negative")
	}
	if cfg.Database.MaxOpenConns < 0 {
		return nil, errors.New("config: database maxOpenConns must not be negative")
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "9115"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// DataPath joins the data directory with a fixture file name.
func (c *Config) DataPath(name string) string {
	dir := strings.TrimRight(c.Data.Dir, "/")
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
