package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground validator
type Validator struct {
	validate  *validator.Validate
	sensitive map[string]bool
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// regionPattern matches provider region ids such as cn-bj2 or hk
var regionPattern = regexp.MustCompile(`^[a-z]{2,}(-[a-z0-9]+)*$`)

// sensitiveFields never have their value echoed back in a ValidationError
var sensitiveFields = []string{"password", "public_key", "private_key"}

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank rejects strings that are empty after trimming whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return true
		}
		return regionPattern.MatchString(fl.Field().String())
	})

	// credential rejects key material containing whitespace, which the
	// provider never issues and usually means a bad copy-paste
	_ = v.RegisterValidation("credential", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return true
		}
		return !strings.ContainsAny(fl.Field().String(), " \t\r\n")
	})

	s := make(map[string]bool, len(sensitiveFields))
	for _, f := range sensitiveFields {
		s[f] = true
	}

	return &Validator{
		validate:  v,
		sensitive: s,
	}
}

// Validate validates a struct
func (v *Validator) Validate(i interface{}) []ValidationError {
	var validationErrors []ValidationError

	err := v.validate.Struct(i)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			ve := ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Message: msgForTag(err),
			}
			if !v.sensitive[err.Field()] {
				ve.Value = fmt.Sprintf("%v", err.Value())
			}
			validationErrors = append(validationErrors, ve)
		}
	}

	return validationErrors
}

// msgForTag returns a human-readable message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "region":
		return fmt.Sprintf("%s must be a region id such as cn-bj2", field)
	case "credential":
		return fmt.Sprintf("%s must not contain whitespace", field)
	default:
		return fmt.Sprintf("%s failed validation for tag: %s", field, fe.Tag())
	}
}
