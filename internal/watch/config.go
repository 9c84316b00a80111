// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// ErrInvalidConfig is the sentinel wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid watch config")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns are doublestar globs (e.g. "**/package.json") relative to
		// BaseDir that select which changes trigger callbacks. An empty slice
		// watches all non-ignored files.
		Patterns []string

		// Ignore are additional doublestar globs merged with the built-in
		// default ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before each
		// callback. No terminal detection is performed.
		ClearScreen bool

		// BaseDir is the root directory to watch. Empty means the working directory.
		BaseDir string

		// OnChange receives the sorted, deduplicated absolute paths that
		// changed during the debounce window. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout receives the clear-screen sequence. nil means os.Stdout.
		Stdout io.Writer

		// Logger receives diagnostics. nil discards them.
		Logger *log.Logger
	}

	// InvalidConfigError collects every invalid glob in a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Validate checks that every pattern is a non-empty, well-formed glob.
func (c Config) Validate() error {
	var errs []error
	errs = append(errs, validatePatterns(c.Patterns, "watch")...)
	errs = append(errs, validatePatterns(c.Ignore, "ignore")...)
	if c.BaseDir != "" && strings.TrimSpace(c.BaseDir) == "" {
		errs = append(errs, fmt.Errorf("base dir %q: must not be whitespace-only", c.BaseDir))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "watch: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// validatePatterns reports each empty or malformed glob. The label (e.g.
// "watch" or "ignore") is used in error messages.
func validatePatterns(patterns []string, label string) []error {
	var errs []error
	for _, pat := range patterns {
		if pat == "" {
			errs = append(errs, fmt.Errorf("empty %s pattern", label))
			continue
		}
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("invalid %s pattern %q", label, pat))
		}
	}
	return errs
}
