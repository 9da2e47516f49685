// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Questions QuestionsConfig `mapstructure:"questions"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// OpenAIConfig holds settings for the text-generation capability.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"` // empty means the public API
	Timeout int    `mapstructure:"timeout"`  // milliseconds, per request
}

// RetryConfig holds the bounded-backoff policy applied to every external call.
type RetryConfig struct {
	MaxAttempts    int     `mapstructure:"max_attempts"`
	InitialBackoff int     `mapstructure:"initial_backoff"` // milliseconds
	MaxBackoff     int     `mapstructure:"max_backoff"`     // milliseconds
	Multiplier     float64 `mapstructure:"multiplier"`
}

// InitialBackoffDuration returns the floor wait between attempts.
func (r RetryConfig) InitialBackoffDuration() time.Duration {
	return time.Duration(r.InitialBackoff) * time.Millisecond
}

// MaxBackoffDuration returns the ceiling wait between attempts.
func (r RetryConfig) MaxBackoffDuration() time.Duration {
	return time.Duration(r.MaxBackoff) * time.Millisecond
}

// QuestionsConfig controls the question-generation stage minimums.
type QuestionsConfig struct {
	MinPerCategory int `mapstructure:"min_per_category"`
	MinTotal       int `mapstructure:"min_total"`
	MaxAttempts    int `mapstructure:"max_attempts"` // full re-generation ceiling on undershoot
}

// PipelineConfig controls orchestration and artifact output.
type PipelineConfig struct {
	OutputDir       string `mapstructure:"output_dir"`
	StrictTemplates bool   `mapstructure:"strict_templates"` // false degrades template failures to warnings
	NodeTimeout     int    `mapstructure:"node_timeout"`     // milliseconds, per external-calling node
}

// NodeTimeoutDuration returns the per-node deadline.
func (p PipelineConfig) NodeTimeoutDuration() time.Duration {
	return time.Duration(p.NodeTimeout) * time.Millisecond
}

// CacheConfig holds the optional redis-backed LLM response cache settings.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	DB      int    `mapstructure:"db"`
	TTL     int    `mapstructure:"ttl"` // seconds
}

// TTLDuration returns the cache entry lifetime.
func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
