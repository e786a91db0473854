// Package validation wraps a shared go-playground validator with the
// marketplace's custom rules and translates failures into apperr values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"servicefinder/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	priceRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// ValidationError is one failed field rule.
type ValidationError struct {
	field   string
	tag     string
	param   string
	message string
}

func (e *ValidationError) Field() string { return e.field }
func (e *ValidationError) Tag() string   { return e.tag }
func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every failed rule of a request body.
type RequestValidationError struct {
	errors []ValidationError
}

func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, err.message)
	}
	return strings.Join(messages, "; ")
}

// ToAppError converts to the 400 error rendered by the HTTP layer.
func (ve *RequestValidationError) ToAppError() *apperr.Error {
	fields := make([]apperr.FieldError, len(ve.errors))
	for i, e := range ve.errors {
		fields[i] = apperr.FieldError{Field: e.field, Message: e.message}
	}
	return apperr.Validation("Validation failed", fields)
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report json names so messages match the request body
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("price", validatePrice)
		_ = validate.RegisterValidation("password", validatePassword)
	})

	return validate
}

// ValidateStruct returns nil when s passes, or the collected field failures.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []ValidationError{{field: "unknown", tag: "unknown", message: err.Error()}},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			message: translateError(fieldErr),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

// Struct is ValidateStruct returning a plain error, nil on success.
func Struct(s any) error {
	if verr := ValidateStruct(s); verr != nil {
		return verr.ToAppError()
	}
	return nil
}

func validatePrice(fl validator.FieldLevel) bool {
	return priceRe.MatchString(fl.Field().String())
}

// validatePassword requires at least 6 characters including an uppercase
// letter, a digit and a non-alphanumeric character.
func validatePassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 6 {
		return false
	}
	var upper, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	return upper && digit && special
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"price":    "%s must be a decimal number with at most 2 fraction digits",
	"password": "%s must be at least 6 characters and contain an uppercase letter, a digit and a special character",
}

var errorMessageWithParam = map[string]string{
	"oneof":    "%s must be one of: %s",
	"gt":       "%s must be greater than %s",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"datetime": "%s must match the format %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
