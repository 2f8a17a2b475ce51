package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gofeat/domain/stats"
	"gofeat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Engine   EngineConfig
	Server   ServerConfig
	Database DatabaseConfig
	Report   ReportConfig
	Log      LogConfig
}

// EngineConfig holds scoring engine settings
type EngineConfig struct {
	Bins              int
	DiscreteThreshold int
	Workers           int
	PairMode          stats.PairMode
	MaxPredictors     int
	MaxPairs          int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRequestBytes int64
}

// DatabaseConfig holds database connection settings. URL is optional; SQL
// sources and report persistence are disabled without it.
type DatabaseConfig struct {
	URL      string
	Query    string
	MaxConns int
}

// ReportConfig holds report output settings
type ReportConfig struct {
	Dir  string
	HTML bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// DefaultEngineConfig returns the engine settings used when nothing is set
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Bins:              10,
		DiscreteThreshold: 8,
		Workers:           runtime.NumCPU(),
		PairMode:          stats.PairModeUnordered,
		MaxPredictors:     2000,
		MaxPairs:          500000,
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	engineConfig, err := loadEngineConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load engine configuration")
	}
	config.Engine = *engineConfig

	config.Server = *loadServerConfig()
	config.Database = *loadDatabaseConfig()
	config.Report = *loadReportConfig()
	config.Log = LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadEngineConfig() (*EngineConfig, error) {
	defaults := DefaultEngineConfig()

	pairMode, err := stats.ParsePairMode(getEnvOrDefault("RANK_PAIR_MODE", string(defaults.PairMode)))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	return &EngineConfig{
		Bins:              getEnvIntOrDefault("RANK_BINS", defaults.Bins),
		DiscreteThreshold: getEnvIntOrDefault("RANK_DISCRETE_THRESHOLD", defaults.DiscreteThreshold),
		Workers:           getEnvIntOrDefault("RANK_WORKERS", defaults.Workers),
		PairMode:          pairMode,
		MaxPredictors:     getEnvIntOrDefault("RANK_MAX_PREDICTORS", defaults.MaxPredictors),
		MaxPairs:          getEnvIntOrDefault("RANK_MAX_PAIRS", defaults.MaxPairs),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		ReadTimeout:     getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 5*time.Minute),
		MaxRequestBytes: int64(getEnvIntOrDefault("SERVER_MAX_REQUEST_BYTES", 64<<20)),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:      getEnvOrDefault("DATABASE_URL", ""),
		Query:    getEnvOrDefault("RANK_SQL_QUERY", ""),
		MaxConns: getEnvIntOrDefault("DB_MAX_CONNS", 4),
	}
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		Dir:  getEnvOrDefault("REPORT_DIR", "./reports"),
		HTML: getEnvBoolOrDefault("REPORT_HTML", true),
	}
}

// Validate checks the loaded settings for values the engine cannot run with
func (c *Config) Validate() error {
	return c.Engine.Validate()
}

// Validate checks engine settings
func (e EngineConfig) Validate() error {
	if e.Bins < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("RANK_BINS must be positive, got %d", e.Bins))
	}
	if e.DiscreteThreshold < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("RANK_DISCRETE_THRESHOLD must be positive, got %d", e.DiscreteThreshold))
	}
	if e.Workers < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("RANK_WORKERS must be positive, got %d", e.Workers))
	}
	if e.MaxPredictors < 1 || e.MaxPairs < 1 {
		return errors.ConfigInvalid("RANK_MAX_PREDICTORS and RANK_MAX_PAIRS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
