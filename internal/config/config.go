package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	API      APIConfig      `yaml:"api"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
}

// APIConfig describes the REST backend the data layer talks to
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig holds the staleness windows used by the query layer.
// Lists, statistics and free-text search use different windows.
type CacheConfig struct {
	ListStaleTime   time.Duration `yaml:"list_stale_time"`
	StatsStaleTime  time.Duration `yaml:"stats_stale_time"`
	SearchStaleTime time.Duration `yaml:"search_stale_time"`
	SearchMinLength int           `yaml:"search_min_length"`
	SearchDebounce  time.Duration `yaml:"search_debounce"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DatabaseConfig configures the offline archive database
type DatabaseConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			ListStaleTime:   5 * time.Minute,
			StatsStaleTime:  10 * time.Minute,
			SearchStaleTime: 2 * time.Minute,
			SearchMinLength: 2,
			SearchDebounce:  300 * time.Millisecond,
		},
		Log: LogConfig{
			Level:      "info",
			Console:    true,
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "./church_archive.db",
		},
	}
}

// Load reads configuration from an optional YAML file, an optional .env file
// and environment variables, in that order of increasing precedence
func Load(configFile string) *Config {
	cfg := Default()

	paths := []string{"church.yaml", "/etc/churchportal/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Printf("Warning: ignoring malformed config file %s: %v", path, err)
		}
		break
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: failed to load .env: %v", err)
		}
	}

	cfg.API.BaseURL = getEnv("CHURCH_API_URL", cfg.API.BaseURL)
	cfg.API.Token = getEnv("CHURCH_API_TOKEN", cfg.API.Token)
	cfg.API.Timeout = getEnvDuration("CHURCH_API_TIMEOUT", cfg.API.Timeout)

	cfg.Cache.ListStaleTime = getEnvDuration("LIST_STALE_TIME", cfg.Cache.ListStaleTime)
	cfg.Cache.StatsStaleTime = getEnvDuration("STATS_STALE_TIME", cfg.Cache.StatsStaleTime)
	cfg.Cache.SearchStaleTime = getEnvDuration("SEARCH_STALE_TIME", cfg.Cache.SearchStaleTime)
	cfg.Cache.SearchMinLength = getEnvInt("SEARCH_MIN_LENGTH", cfg.Cache.SearchMinLength)
	cfg.Cache.SearchDebounce = getEnvDuration("SEARCH_DEBOUNCE", cfg.Cache.SearchDebounce)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)

	cfg.Database.Type = getEnv("DATABASE_TYPE", cfg.Database.Type)
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)

	return cfg
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid integer for %s: %q", key, value)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration for %s: %q", key, value)
	}
	return defaultValue
}
