package validation

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ConfigValidator validates configuration values fluently and collects
// every failure instead of stopping at the first.
type ConfigValidator struct {
	name   string
	errors []error
}

// NewConfigValidator creates a validator whose messages are prefixed with
// section.
func NewConfigValidator(section string) *ConfigValidator {
	return &ConfigValidator{name: section}
}

func (cv *ConfigValidator) fail(field, format string, args ...any) *ConfigValidator {
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %s", cv.name, field, fmt.Sprintf(format, args...)))
	return cv
}

// Required fails when value is empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		return cv.fail(field, "required field is empty")
	}
	return cv
}

// MinLength fails when value is shorter than min bytes.
func (cv *ConfigValidator) MinLength(field, value string, min int) *ConfigValidator {
	if len(value) < min {
		return cv.fail(field, "must be at least %d characters", min)
	}
	return cv
}

// Positive fails when value is not greater than zero.
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		return cv.fail(field, "value %d must be positive", value)
	}
	return cv
}

// RangeInt fails when value is outside [min, max].
func (cv *ConfigValidator) RangeInt(field string, value, min, max int) *ConfigValidator {
	if value < min || value > max {
		return cv.fail(field, "value %d is outside range [%d, %d]", value, min, max)
	}
	return cv
}

// MinDuration fails when value is shorter than min.
func (cv *ConfigValidator) MinDuration(field string, value, min time.Duration) *ConfigValidator {
	if value < min {
		return cv.fail(field, "duration %v is below minimum %v", value, min)
	}
	return cv
}

// OneOf fails when value is not one of allowed.
func (cv *ConfigValidator) OneOf(field, value string, allowed ...string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	return cv.fail(field, "value %q must be one of %v", value, allowed)
}

// URL fails when value is not an absolute URL.
func (cv *ConfigValidator) URL(field, value string) *ConfigValidator {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return cv.fail(field, "value %q is not an absolute URL", value)
	}
	return cv
}

// Custom records the error returned by fn, if any.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// When applies validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// Errors returns every recorded failure.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate joins every recorded failure, or returns nil.
func (cv *ConfigValidator) Validate() error {
	return errors.Join(cv.errors...)
}

// DefaultOr returns value unless it is the zero value.
func DefaultOr[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}
