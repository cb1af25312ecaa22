package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Extractor ExtractorConfig `mapstructure:"extractor" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Export    ExportConfig    `mapstructure:"export" validate:"required"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains settings for the local sqlite database that backs
// the book registry, the content store, and the exercise store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ExtractorConfig contains settings for the external extraction service
// boundary and for the container it runs in.
type ExtractorConfig struct {
	// BaseURL is the root URL of the extraction service API.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Version tags every stored extraction result. Bumping it after an
	// extractor upgrade forces re-extraction without deleting old rows.
	Version string `mapstructure:"version" validate:"required"`

	// Model and Strategy are passed through to the extraction service.
	Model    string `mapstructure:"model"    validate:"required"`
	Strategy string `mapstructure:"strategy" validate:"required"`

	// RequestTimeoutSeconds bounds a single extraction call end to end,
	// submission and polling included. Extraction is slow; the default is
	// generous on purpose.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gt=0"`

	// PollIntervalSeconds is the delay between result polls for an accepted
	// extraction task.
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" validate:"gt=0"`

	// Image, ContainerName and Port configure the `extractor up` command,
	// which runs the extraction service as a local container.
	Image         string `mapstructure:"image" validate:"required"`
	ContainerName string `mapstructure:"container_name" validate:"required"`
	Port          int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

// RequestTimeout returns the configured per-call timeout as a duration.
func (c ExtractorConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// PollInterval returns the configured poll interval as a duration.
func (c ExtractorConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// LLMConfig contains all LLM integration related settings.
//
// GeminiAPIKey is deliberately not validated here: commands that never reach
// the model (book management, extraction) must work without a key. The
// generator constructor rejects an empty key instead.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name" validate:"required"`

	// MaxRetries is the number of retries after the first attempt for
	// transient provider errors. RetryDelaySeconds is the base delay of the
	// capped exponential backoff.
	MaxRetries        int `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gt=0"`

	// PromptTemplatePath optionally overrides the embedded card-generation
	// prompt template.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
}

// ExportConfig contains deck export settings.
type ExportConfig struct {
	// OutDir is the default directory deck CSV files are written to when a
	// command does not override it.
	OutDir string `mapstructure:"out_dir" validate:"required"`
}
