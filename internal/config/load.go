package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// BOOKDECK_LLM_GEMINI_API_KEY overrides llm.gemini_api_key.
const envPrefix = "BOOKDECK"

// Load configuration from defaults, an optional config file, and environment
// variables. Environment variables take precedence over values from config
// files, which take precedence over defaults.
//
// configFile may be empty, in which case bookdeck.yaml is looked up in the
// current directory and in the user config directory; a missing file is not
// an error since defaults plus environment variables form a complete
// configuration.
//
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("bookdeck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "bookdeck"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine unless one was named explicitly.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the built-in defaults for every setting that has a
// sane one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")

	v.SetDefault("database.path", defaultDatabasePath())

	v.SetDefault("extractor.base_url", "http://localhost:8000")
	v.SetDefault("extractor.version", "v1")
	v.SetDefault("extractor.model", "llama3.1")
	v.SetDefault("extractor.strategy", "llama_vision")
	v.SetDefault("extractor.request_timeout_seconds", 600)
	v.SetDefault("extractor.poll_interval_seconds", 1)
	v.SetDefault("extractor.image", "catchthetornado/pdf-extract-api:latest")
	v.SetDefault("extractor.container_name", "bookdeck-extractor")
	v.SetDefault("extractor.port", 8000)

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	// Registered empty so AutomaticEnv binds them during Unmarshal; viper
	// only considers keys it has seen.
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.prompt_template_path", "")

	v.SetDefault("export.out_dir", ".")
}

// defaultDatabasePath places the sqlite file in the user data directory,
// falling back to the working directory when the home cannot be resolved.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookdeck.db"
	}
	return filepath.Join(home, ".bookdeck", "bookdeck.db")
}
