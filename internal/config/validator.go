package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/brewdesk/internal/logging"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d invalid settings:", len(e))
	for _, err := range e {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

const (
	maxCacheSize = 10000
	maxDebounce  = time.Minute
)

// Validate checks c and returns every problem found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(c.Brew.Path) == "" {
		errs = append(errs, ValidationError{Field: "brew.path", Value: c.Brew.Path, Message: "must not be empty"})
	}
	if c.Brew.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "brew.timeout", Value: c.Brew.Timeout, Message: "must not be negative"})
	}
	if c.Cache.Size < 1 || c.Cache.Size > maxCacheSize {
		errs = append(errs, ValidationError{
			Field:   "cache.size",
			Value:   c.Cache.Size,
			Message: fmt.Sprintf("must be between 1 and %d", maxCacheSize),
		})
	}
	if c.Watch.Debounce < 0 || c.Watch.Debounce > maxDebounce {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Value:   c.Watch.Debounce,
			Message: fmt.Sprintf("must be between 0 and %s", maxDebounce),
		})
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of " + strings.ToLower(strings.Join(logging.ValidLevels(), ", ")),
		})
	}
	return errs
}
