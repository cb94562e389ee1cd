package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log        LogConfig        `mapstructure:"log"        validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Batch      BatchConfig      `mapstructure:"batch"      validate:"required"`
}

// LogConfig contains the logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// LLMConfig contains all model integration related settings.
type LLMConfig struct {
	// APIKeys is the ordered credential pool. Populated from the config
	// source or, when absent there, collected from the numbered
	// GEMINI_API_KEY_n environment variables (GEMINI_API_KEY as a
	// single-key fallback).
	APIKeys []string `mapstructure:"api_keys" validate:"required,min=1,dive,required"`

	ModelName       string  `mapstructure:"model_name"        validate:"required"`
	Temperature     float64 `mapstructure:"temperature"       validate:"gte=0,lte=2"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" validate:"required,gt=0"`
}

// GenerationConfig contains the retry and backoff policy for the
// generation loop. The exhaustion policy must be chosen explicitly:
// "cooldown" backs off and resumes rotation, "skip" abandons the task
// after one full pool rotation.
type GenerationConfig struct {
	MaxParseRetries        int    `mapstructure:"max_parse_retries"         validate:"required,gt=0"`
	RotateDelaySeconds     int    `mapstructure:"rotate_delay_seconds"      validate:"gte=0"`
	ParseRetryDelaySeconds int    `mapstructure:"parse_retry_delay_seconds" validate:"gte=0"`
	ExhaustionPolicy       string `mapstructure:"exhaustion_policy"         validate:"required,oneof=cooldown skip"`
	CooldownSeconds        int    `mapstructure:"cooldown_seconds"          validate:"gte=0"`
}

// BatchConfig contains the batch driver settings.
type BatchConfig struct {
	// PersonasFile is a newline-delimited persona/scenario list; one
	// generation task per non-blank line.
	PersonasFile string `mapstructure:"personas_file"`

	// TaskCount is used by scenario batches that sample a random scenario
	// per task instead of iterating a persona file.
	TaskCount int `mapstructure:"task_count" validate:"gte=0"`

	// OutputFile receives the final JSON document; "-" means stdout.
	OutputFile string `mapstructure:"output_file" validate:"required"`

	// ImageTextFile optionally names a snippet file whose contents are
	// attached to every persona record as its image_text field.
	ImageTextFile string `mapstructure:"image_text_file"`
}
