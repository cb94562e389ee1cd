package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional dialogen.yaml file and from
// environment variables with the DIALOGEN_ prefix; environment variables
// take precedence. A .env file in the working directory is loaded first if
// present. Returns a populated Config or an error if loading or validation
// fails; an empty credential pool is a fatal configuration error.
func Load() (*Config, error) {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("dialogen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("DIALOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.LLM.APIKeys) == 0 {
		cfg.LLM.APIKeys = collectEnvKeys()
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every key so that viper's
// AutomaticEnv lookup sees them all during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_output_tokens", 1024)

	v.SetDefault("generation.max_parse_retries", 3)
	v.SetDefault("generation.rotate_delay_seconds", 1)
	v.SetDefault("generation.parse_retry_delay_seconds", 2)
	v.SetDefault("generation.exhaustion_policy", "skip")
	v.SetDefault("generation.cooldown_seconds", 1800)

	v.SetDefault("batch.personas_file", "")
	v.SetDefault("batch.task_count", 0)
	v.SetDefault("batch.output_file", "gemini_dialogues.json")
	v.SetDefault("batch.image_text_file", "")
}

// collectEnvKeys gathers credentials from the numbered GEMINI_API_KEY_1,
// GEMINI_API_KEY_2, ... environment variables, stopping at the first gap.
// When no numbered keys exist, a plain GEMINI_API_KEY is accepted as a
// single-credential pool.
func collectEnvKeys() []string {
	var keys []string
	for i := 1; ; i++ {
		key := os.Getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i))
		if key == "" {
			break
		}
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			keys = append(keys, key)
		}
	}

	return keys
}
