// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "content-workers/internal/common/errors"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	// Enable ENV override like OPENAI_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Blocking template validation is the default; opting out is explicit.
	v.SetDefault("pipeline.strict_templates", true)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent.
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError(err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from several locations so the binary and the tests
// can run from different working directories.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "content-workers"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.Timeout <= 0 {
		cfg.OpenAI.Timeout = 60000
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.InitialBackoff <= 0 {
		cfg.Retry.InitialBackoff = 1000
	}
	if cfg.Retry.MaxBackoff <= 0 {
		cfg.Retry.MaxBackoff = 10000
	}
	if cfg.Retry.Multiplier <= 0 {
		cfg.Retry.Multiplier = 2.0
	}
	if cfg.Questions.MinPerCategory <= 0 {
		cfg.Questions.MinPerCategory = 3
	}
	if cfg.Questions.MinTotal <= 0 {
		cfg.Questions.MinTotal = 15
	}
	if cfg.Questions.MaxAttempts <= 0 {
		cfg.Questions.MaxAttempts = 3
	}
	if cfg.Pipeline.OutputDir == "" {
		cfg.Pipeline.OutputDir = "output"
	}
	if cfg.Pipeline.NodeTimeout <= 0 {
		cfg.Pipeline.NodeTimeout = 120000
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 3600
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Retry.MaxBackoff < cfg.Retry.InitialBackoff {
		return fmt.Errorf("retry.max_backoff (%d) must be >= retry.initial_backoff (%d)",
			cfg.Retry.MaxBackoff, cfg.Retry.InitialBackoff)
	}
	if cfg.Retry.Multiplier < 1.0 {
		return fmt.Errorf("retry.multiplier must be >= 1.0, got %v", cfg.Retry.Multiplier)
	}
	if cfg.Questions.MinTotal < cfg.Questions.MinPerCategory {
		return fmt.Errorf("questions.min_total (%d) must be >= questions.min_per_category (%d)",
			cfg.Questions.MinTotal, cfg.Questions.MinPerCategory)
	}
	if cfg.Cache.Enabled && cfg.Cache.Address == "" {
		return fmt.Errorf("cache.enabled requires cache.address")
	}
	return nil
}
