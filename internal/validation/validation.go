// Package validation checks request DTOs with go-playground/validator and
// reports every rejected field as a domain validation error.
package validation

import (
	"reflect"
	"strings"
	"sync"

	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// messageTag names the struct tag holding the client-facing message for a field.
const messageTag = "message"

// Validator validates structs tagged with `validate` rules.
type Validator struct {
	validate *validator.Validate
}

var (
	defaultValidator *Validator
	once             sync.Once
)

// New returns a Validator reporting fields by their json names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}

		return name
	})
	// Rejects whitespace-only strings, which "required" lets through.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return &Validator{validate: v}
}

// Default returns the process-wide Validator.
func Default() *Validator {
	once.Do(func() {
		defaultValidator = New()
	})

	return defaultValidator
}

// Struct validates s and returns a validation error listing every violation, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	structType := reflect.TypeOf(s)
	for structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	violations := make([]domainerrors.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, domainerrors.FieldViolation{
			Field:   fe.Field(),
			Message: messageFor(structType, fe),
		})
	}

	return domainerrors.NewValidationError(violations)
}

// Validate lets Validator serve as an echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.Struct(i)
}

func messageFor(structType reflect.Type, fe validator.FieldError) string {
	if structType.Kind() == reflect.Struct {
		if field, ok := structType.FieldByName(fe.StructField()); ok {
			if msg := field.Tag.Get(messageTag); msg != "" {
				return msg
			}
		}
	}

	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}
