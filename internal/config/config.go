// Package config loads the application configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBSource      string `mapstructure:"DB_SOURCE"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	RedisURL      string `mapstructure:"REDIS_URL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	NominatimEnabled bool          `mapstructure:"NOMINATIM_ENABLED"`
	NominatimURL     string        `mapstructure:"NOMINATIM_URL"`
	NominatimTimeout time.Duration `mapstructure:"NOMINATIM_TIMEOUT"`

	OpenCageEnabled    bool          `mapstructure:"OPENCAGE_ENABLED"`
	OpenCageAPIKey     string        `mapstructure:"OPENCAGE_API_KEY"`
	OpenCageTimeout    time.Duration `mapstructure:"OPENCAGE_TIMEOUT"`
	OpenCageSoftTarget time.Duration `mapstructure:"OPENCAGE_SOFT_TARGET"`

	DefaultLimit       int           `mapstructure:"DEFAULT_LIMIT"`
	MaxLimit           int           `mapstructure:"MAX_LIMIT"`
	RecentSearchWindow time.Duration `mapstructure:"RECENT_SEARCH_WINDOW"`
	DefaultParseMode   string        `mapstructure:"DEFAULT_PARSE_MODE"`

	RateLimit float64 `mapstructure:"RATE_LIMIT"`
	RateBurst int     `mapstructure:"RATE_BURST"`
}

var defaults = map[string]any{
	"DB_SOURCE":            "",
	"SERVER_ADDRESS":       "0.0.0.0:8080",
	"REDIS_URL":            "",
	"LOG_LEVEL":            "info",
	"LOG_PRETTY":           false,
	"NOMINATIM_ENABLED":    true,
	"NOMINATIM_URL":        "",
	"NOMINATIM_TIMEOUT":    "20s",
	"OPENCAGE_ENABLED":     false,
	"OPENCAGE_API_KEY":     "",
	"OPENCAGE_TIMEOUT":     "110s",
	"OPENCAGE_SOFT_TARGET": "40s",
	"DEFAULT_LIMIT":        75,
	"MAX_LIMIT":            500,
	"RECENT_SEARCH_WINDOW": "720h",
	"DEFAULT_PARSE_MODE":   "loose",
	"RATE_LIMIT":           5.0,
	"RATE_BURST":           20,
}

// LoadConfig reads configuration from app.env in path, a .env file in the
// working directory, and the environment, in increasing precedence.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if config.DBSource == "" {
		return config, errors.New("config: DB_SOURCE is required")
	}
	if config.OpenCageEnabled && config.OpenCageAPIKey == "" {
		return config, errors.New("config: OPENCAGE_API_KEY is required when OPENCAGE_ENABLED is set")
	}
	return config, nil
}
