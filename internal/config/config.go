// README: Config loader: defaults, optional YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned by Load when no Gemini key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or API_KEY) is required")

type AIConfig struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"apiKey"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

type Config struct {
	HTTP struct {
		Addr           string        `yaml:"addr"`
		AnalyzeTimeout time.Duration `yaml:"analyzeTimeout"`
	} `yaml:"http"`
	DB struct {
		DSN string `yaml:"dsn"`
	} `yaml:"db"`
	Redis struct {
		Addr      string        `yaml:"addr"`
		LatestTTL time.Duration `yaml:"latestTtl"`
	} `yaml:"redis"`
	AI   AIConfig `yaml:"ai"`
	Maps struct {
		APIKey   string `yaml:"apiKey"`
		Region   string `yaml:"region"`
		Language string `yaml:"language"`
	} `yaml:"maps"`
	Quota struct {
		MonthlyAnalyses int `yaml:"monthlyAnalyses"`
	} `yaml:"quota"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() Config {
	var cfg Config
	cfg.HTTP.Addr = ":8080"
	cfg.HTTP.AnalyzeTimeout = 90 * time.Second
	cfg.Redis.LatestTTL = 24 * time.Hour
	cfg.AI.Provider = "gemini"
	cfg.AI.Model = "gemini-3-flash-preview"
	cfg.AI.Temperature = 0.4
	cfg.Maps.Region = "br"
	cfg.Maps.Language = "pt-BR"
	cfg.Quota.MonthlyAnalyses = 100
	cfg.Log.Level = "info"
	return cfg
}

// Load reads ECOROUTE_CONFIG (if set) over the defaults, then applies environment overrides.
// The Gemini key is required.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("ECOROUTE_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if strings.TrimSpace(cfg.AI.APIKey) == "" {
		return Config{}, ErrMissingAPIKey
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.HTTP.Addr = envOrDefault("ECOROUTE_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.AnalyzeTimeout = envOrDefaultDuration("ECOROUTE_ANALYZE_TIMEOUT", cfg.HTTP.AnalyzeTimeout)
	cfg.DB.DSN = envOrDefault("ECOROUTE_DB_DSN", cfg.DB.DSN)
	cfg.Redis.Addr = envOrDefault("ECOROUTE_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.LatestTTL = envOrDefaultDuration("ECOROUTE_LATEST_TTL", cfg.Redis.LatestTTL)
	cfg.AI.Provider = envOrDefault("ECOROUTE_AI_PROVIDER", cfg.AI.Provider)
	cfg.AI.APIKey = envOrDefault("GEMINI_API_KEY", envOrDefault("API_KEY", cfg.AI.APIKey))
	cfg.AI.Model = envOrDefault("ECOROUTE_AI_MODEL", cfg.AI.Model)
	cfg.AI.Temperature = float32(envOrDefaultFloat("ECOROUTE_AI_TEMPERATURE", float64(cfg.AI.Temperature)))
	cfg.Maps.APIKey = envOrDefault("GOOGLE_MAPS_API_KEY", cfg.Maps.APIKey)
	cfg.Maps.Region = envOrDefault("ECOROUTE_MAPS_REGION", cfg.Maps.Region)
	cfg.Maps.Language = envOrDefault("ECOROUTE_MAPS_LANGUAGE", cfg.Maps.Language)
	cfg.Quota.MonthlyAnalyses = envOrDefaultInt("ECOROUTE_QUOTA_MONTHLY", cfg.Quota.MonthlyAnalyses)
	cfg.Log.Level = envOrDefault("ECOROUTE_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Development = envOrDefaultBool("ECOROUTE_LOG_DEV", cfg.Log.Development)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
