package config

import (
	"fmt"
	"strings"

	"envrepo/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// validateOneOf checks if a value is in a list of allowed values
func validateOneOf(errs *ValidationErrors, field, value string, allowed []string) {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return
		}
	}
	errs.Add(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")), value)
}

// Validate checks the whole configuration and returns every problem found,
// or nil.
func (c EnvrepoConfig) Validate() error {
	var errs ValidationErrors

	if c.RefreshInterval <= 0 {
		errs.Add("refreshInterval", "must be positive", c.RefreshInterval)
	}
	// A negative fetchTimeout disables the bound; zero is filled in by defaults.

	validateOneOf(&errs, "source.type", string(c.Source.Type),
		[]string{string(SourceTypeStatic), string(SourceTypeFile)})
	if c.Source.Type == SourceTypeFile && strings.TrimSpace(c.Source.Path) == "" {
		errs.Add("source.path", "is required for file sources")
	}
	if c.Source.Watch && c.Source.Type != SourceTypeFile {
		errs.Add("source.watch", "is only supported for file sources")
	}
	if c.Source.Debounce < 0 {
		errs.Add("source.debounce", "must not be negative", c.Source.Debounce)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs.Add("logging.level", err.Error(), c.Logging.Level)
	}
	validateOneOf(&errs, "logging.format", c.Logging.Format,
		[]string{string(logging.FormatText), string(logging.FormatJSON)})

	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Address) == "" {
		errs.Add("metrics.address", "is required when metrics are enabled")
	}

	validateOneOf(&errs, "view.type", string(c.View.Type),
		[]string{string(ViewTypeManual), string(ViewTypeSSH)})

	if errs.HasErrors() {
		return errs
	}
	return nil
}
