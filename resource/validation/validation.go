// Package validation implements the validation gate that runs before a
// resource is created or updated.
//
// Required fields are declared with the required attribute on the func
// struct tag. Additional rules use the validate tag:
//
//   type Resource struct {
//       Name string `rampart:"input,required"`
//       TTL  *int   `rampart:"input" validate:"omitempty,gte=0"`
//   }
//
// All input fields are checked in a single pass and every failure is
// reported, so the user sees all problems at once rather than one per
// attempt.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rampart/rampart/resource"
	validator "gopkg.in/go-playground/validator.v9"
)

// A FieldFailure describes a single input field that failed validation.
type FieldFailure struct {
	Field  string // External field name.
	Reason string // Human readable reason.
}

func (f FieldFailure) String() string { return f.Reason }

// An Error contains all field failures for a single resource. No remote
// calls are made for a resource that has validation failures.
type Error struct {
	Failures []FieldFailure
}

// Error implements error, listing every failure.
func (e *Error) Error() string {
	reasons := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		reasons[i] = f.Reason
	}
	return strings.Join(reasons, "; ")
}

var check = validator.New()

// Check validates the input fields on the definition against their declared
// attributes and rules. Returns an *Error listing every failing field, or
// nil when the definition is valid.
func Check(def resource.Definition) error {
	v := reflect.Indirect(reflect.ValueOf(def))
	t := v.Type()

	var failures []FieldFailure
	for _, f := range resource.Fields(t, resource.Input) {
		val := v.Field(f.Index).Interface()

		if f.Required {
			if err := check.Var(val, "required"); err != nil {
				failures = append(failures, FieldFailure{
					Field:  f.Name,
					Reason: fmt.Sprintf("%s is required", f.Name),
				})
				// Remaining rules would only repeat that the value is
				// missing.
				continue
			}
		}

		if f.Rules == "" {
			continue
		}
		err := check.Var(val, f.Rules)
		if err == nil {
			continue
		}
		for _, fe := range err.(validator.ValidationErrors) {
			failures = append(failures, FieldFailure{
				Field:  f.Name,
				Reason: reason(f.Name, fe),
			})
		}
	}

	if len(failures) > 0 {
		return &Error{Failures: failures}
	}
	return nil
}

func reason(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must have at least %s elements", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be more than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
