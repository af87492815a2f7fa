// Package validation checks incoming graph payloads against size and
// shape limits, and provides the fluent validator used for configuration.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
)

// ErrInvalidGraph is wrapped by every graph validation failure.
var ErrInvalidGraph = errors.New("invalid graph")

// validate is the shared validator; it caches struct metadata and is safe
// for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateGraph checks g against the limits declared on the model: node and
// link counts, required ids and field lengths.
func ValidateGraph(g *guideline.Graph) error {
	if g == nil {
		return fmt.Errorf("%w: graph cannot be nil", ErrInvalidGraph)
	}
	if err := validate.Struct(g); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGraph, formatValidationError(err))
	}
	return nil
}

// formatValidationError reports the first failed constraint with the
// field path, e.g. "Graph.Nodes[2].ID: field is required".
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	e := validationErrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "max":
		if e.Kind().String() == "slice" {
			return fmt.Errorf("%s: must not contain more than %s items", field, e.Param())
		}
		return fmt.Errorf("%s: must not exceed %s characters", field, e.Param())
	case "min":
		return fmt.Errorf("%s: must be at least %s", field, e.Param())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
