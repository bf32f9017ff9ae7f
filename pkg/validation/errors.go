package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTarget is returned when Validate gets something other than a struct or a
// non-nil pointer to one.
var ErrInvalidTarget = errors.New("validation.invalid_target")

// Violation is one failed constraint.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ConstraintViolationError carries every violation found in one Validate call.
type ConstraintViolationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ConstraintViolationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field has at least one violation.
func (e *ConstraintViolationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the messages for field.
func (e *ConstraintViolationError) Messages(field string) []string {
	var messages []string
	for _, v := range e.Violations {
		if v.Field == field {
			messages = append(messages, v.Message)
		}
	}
	return messages
}

// Fields returns the violated fields in order of first appearance.
func (e *ConstraintViolationError) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, v := range e.Violations {
		if !seen[v.Field] {
			fields = append(fields, v.Field)
			seen[v.Field] = true
		}
	}
	return fields
}

// ExtractViolations returns the violations wrapped in err, or nil.
func ExtractViolations(err error) []Violation {
	var cve *ConstraintViolationError
	if errors.As(err, &cve) {
		return cve.Violations
	}
	return nil
}

func IsConstraintViolation(err error) bool {
	var cve *ConstraintViolationError
	return errors.As(err, &cve)
}
