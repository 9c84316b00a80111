// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// EnforceAuto enables enforcement when the extension list contains "".
	EnforceAuto EnforceMode = "auto"
	// EnforceEnabled rejects paths without one of the configured extensions.
	EnforceEnabled EnforceMode = "enabled"
	// EnforceDisabled tries the literal path before probing extensions.
	EnforceDisabled EnforceMode = "disabled"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	defaultDebounce = "300ms"
)

var (
	// ErrInvalidEnforceMode is returned when an EnforceMode value is not recognized.
	ErrInvalidEnforceMode = errors.New("invalid enforce-extension mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidAliasEntry is the sentinel error wrapped by InvalidAliasEntryError.
	ErrInvalidAliasEntry = errors.New("invalid alias entry")
	// ErrInvalidDebounce is returned when the watch debounce is not a positive duration.
	ErrInvalidDebounce = errors.New("invalid debounce")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// EnforceMode selects how paths without a configured extension are treated.
	EnforceMode string

	// InvalidEnforceModeError is returned when an EnforceMode value is not recognized.
	// It wraps ErrInvalidEnforceMode for errors.Is() compatibility.
	InvalidEnforceModeError struct {
		Value EnforceMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidAliasEntryError reports an alias with an empty name or a name
	// declared twice.
	InvalidAliasEntryError struct {
		Name   string
		Reason string
	}

	// InvalidDebounceError is returned when WatchConfig.Debounce does not parse.
	InvalidDebounceError struct {
		Value string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// AliasEntry redirects a request prefix to replacement targets.
	AliasEntry struct {
		// Name is the aliased request; a trailing "$" matches it exactly.
		Name string `json:"name" mapstructure:"name" toml:"name" yaml:"name"`
		// Targets are tried in order. Empty means the module is ignored.
		Targets []string `json:"targets" mapstructure:"targets" toml:"targets" yaml:"targets"`
	}

	// ResolveConfig mirrors resolver.Options in file form.
	ResolveConfig struct {
		Extensions       []string    `json:"extensions" mapstructure:"extensions" toml:"extensions" yaml:"extensions"`
		EnforceExtension EnforceMode `json:"enforce_extension" mapstructure:"enforce_extension" toml:"enforce_extension" yaml:"enforce_extension"`
		// Modules are module-storage directory names; $VAR references are expanded.
		Modules          []string     `json:"modules" mapstructure:"modules" toml:"modules" yaml:"modules"`
		ConditionNames   []string     `json:"condition_names" mapstructure:"condition_names" toml:"condition_names" yaml:"condition_names"`
		MainFields       []string     `json:"main_fields" mapstructure:"main_fields" toml:"main_fields" yaml:"main_fields"`
		MainFiles        []string     `json:"main_files" mapstructure:"main_files" toml:"main_files" yaml:"main_files"`
		DescriptionFile  string       `json:"description_file" mapstructure:"description_file" toml:"description_file" yaml:"description_file"`
		BrowserField     bool         `json:"browser_field" mapstructure:"browser_field" toml:"browser_field" yaml:"browser_field"`
		ResolveToContext bool         `json:"resolve_to_context" mapstructure:"resolve_to_context" toml:"resolve_to_context" yaml:"resolve_to_context"`
		PreserveSymlinks bool         `json:"preserve_symlinks" mapstructure:"preserve_symlinks" toml:"preserve_symlinks" yaml:"preserve_symlinks"`
		Alias            []AliasEntry `json:"alias" mapstructure:"alias" toml:"alias" yaml:"alias"`
		MaxDepth         int          `json:"max_depth" mapstructure:"max_depth" toml:"max_depth" yaml:"max_depth"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme" yaml:"color_scheme"`
		// Verbose enables debug tracing of resolution steps
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose" yaml:"verbose"`
	}

	// WatchConfig configures `noderesolve watch`.
	WatchConfig struct {
		// Debounce is a Go duration string such as "300ms".
		Debounce string `json:"debounce" mapstructure:"debounce" toml:"debounce" yaml:"debounce"`
		// Ignore holds doublestar patterns matched against changed paths.
		Ignore []string `json:"ignore" mapstructure:"ignore" toml:"ignore" yaml:"ignore"`
	}

	// Config holds the application configuration.
	Config struct {
		Resolve ResolveConfig `json:"resolve" mapstructure:"resolve" toml:"resolve" yaml:"resolve"`
		UI      UIConfig      `json:"ui" mapstructure:"ui" toml:"ui" yaml:"ui"`
		Watch   WatchConfig   `json:"watch" mapstructure:"watch" toml:"watch" yaml:"watch"`
	}
)

// String returns the string representation of the EnforceMode.
func (m EnforceMode) String() string { return string(m) }

// IsValid returns whether the EnforceMode is one of the defined modes,
// and a list of validation errors if it is not.
func (m EnforceMode) IsValid() (bool, []error) {
	switch m {
	case EnforceAuto, EnforceEnabled, EnforceDisabled:
		return true, nil
	default:
		return false, []error{&InvalidEnforceModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidEnforceModeError.
func (e *InvalidEnforceModeError) Error() string {
	return fmt.Sprintf("invalid enforce-extension mode %q (valid: auto, enabled, disabled)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidEnforceModeError) Unwrap() error { return ErrInvalidEnforceMode }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid reports whether the alias has a non-blank name.
func (a AliasEntry) IsValid() (bool, []error) {
	if strings.TrimSpace(a.Name) == "" {
		return false, []error{&InvalidAliasEntryError{Name: a.Name, Reason: "name must be non-empty"}}
	}
	return true, nil
}

// Error implements the error interface for InvalidAliasEntryError.
func (e *InvalidAliasEntryError) Error() string {
	return fmt.Sprintf("invalid alias %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidAliasEntry for errors.Is() compatibility.
func (e *InvalidAliasEntryError) Unwrap() error { return ErrInvalidAliasEntry }

// DebounceDuration parses Debounce, falling back to the default when empty.
func (c WatchConfig) DebounceDuration() (time.Duration, error) {
	value := c.Debounce
	if value == "" {
		value = defaultDebounce
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, &InvalidDebounceError{Value: c.Debounce}
	}
	return d, nil
}

// Error implements the error interface for InvalidDebounceError.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid debounce %q: must be a positive duration such as 300ms", e.Value)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

// IsValid returns whether the Config has valid fields. Alias names must be
// unique, since only the first of two equal names could ever match.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Resolve.EnforceExtension.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	seen := make(map[string]bool, len(c.Resolve.Alias))
	for _, entry := range c.Resolve.Alias {
		if valid, fieldErrs := entry.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
			continue
		}
		if seen[entry.Name] {
			errs = append(errs, &InvalidAliasEntryError{Name: entry.Name, Reason: "declared more than once"})
		}
		seen[entry.Name] = true
	}
	if c.Resolve.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth %d: must not be negative", c.Resolve.MaxDepth))
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Resolve: ResolveConfig{
			Extensions:       []string{".js", ".json", ".node"},
			EnforceExtension: EnforceAuto,
			Modules:          []string{"node_modules"},
			ConditionNames:   []string{"node", "require"},
			MainFields:       []string{"main"},
			MainFiles:        []string{"index"},
			DescriptionFile:  "package.json",
			Alias:            []AliasEntry{},
			MaxDepth:         256,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Watch: WatchConfig{
			Debounce: defaultDebounce,
			Ignore:   []string{"**/.git/**"},
		},
	}
}
