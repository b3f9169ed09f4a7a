package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form name, then json name, so messages line up
	// with the inputs a visitor sees.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Validate validates a struct using go-playground/validator tags.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ValidationError{Errors: verrs}
		}
		return err
	}
	return nil
}

// ValidationError collects per-field failures: those reported by the
// validator plus any recorded by the caller while binding input.
type ValidationError struct {
	Errors validator.ValidationErrors
	extra  map[string]string
}

// NewFieldError returns a ValidationError holding a single field message.
func NewFieldError(field, message string) *ValidationError {
	return (&ValidationError{}).WithField(field, message)
}

// WithField records a message for field unless one is already present.
func (e *ValidationError) WithField(field, message string) *ValidationError {
	if e.extra == nil {
		e.extra = make(map[string]string)
	}
	if _, ok := e.extra[field]; !ok {
		e.extra[field] = message
	}
	return e
}

// Merge folds err into e when err is a ValidationError; other errors are ignored.
func (e *ValidationError) Merge(err error) *ValidationError {
	var other *ValidationError
	if !errors.As(err, &other) {
		return e
	}
	for field, msg := range other.Fields() {
		e.WithField(field, msg)
	}
	return e
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return len(e.Errors) == 0 && len(e.extra) == 0
}

func (e *ValidationError) Error() string {
	fields := e.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", name, fields[name]))
	}
	return strings.Join(msgs, "; ")
}

// Fields returns a map of field names to error messages. Messages recorded
// while binding win over validator messages for the same field.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors)+len(e.extra))
	for _, fe := range e.Errors {
		fields[fe.Field()] = msgForTag(fe)
	}
	for field, msg := range e.extra {
		fields[field] = msg
	}
	return fields
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
