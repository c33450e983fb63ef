package config

import (
	"fmt"
	"os"

	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// ExitMessage renders err for an operator. Configuration errors name the
// missing setting instead of a wrapped error chain.
func ExitMessage(err error) string {
	if apperrors.HasCode(err, apperrors.CodeConfigurationMissing) {
		name := apperrors.MetadataOf(err)[apperrors.MetadataArgument]
		if name == "" {
			return "configuration missing: " + err.Error()
		}
		return "configuration missing: set " + name
	}
	return err.Error()
}
