package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// RequireString reports a configuration-missing error when value is blank.
// name should be the environment variable or flag the operator must set.
func RequireString(name string, value string) error {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return apperrors.WithMetadata(
		apperrors.CodeConfigurationMissing,
		fmt.Sprintf("%s is required", name),
		map[string]string{apperrors.MetadataArgument: name},
	)
}

// DurationOr returns value when positive and fallback otherwise.
func DurationOr(value time.Duration, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

// IntOr returns value when positive and fallback otherwise.
func IntOr(value int, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
