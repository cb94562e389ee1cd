// Package config defines the application configuration structure
// and provides functionality for loading and validating it.
package config
