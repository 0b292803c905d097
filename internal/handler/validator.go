package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// Custom validation tags
const (
	TagCurrency  = "currency"
	TagBankable  = "bankable"
	TagSnowflake = "snowflake"
)

const maxSnowflakeLength = 20

// Validator wraps the shared validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validatorOnce sync.Once
	shared        *Validator
)

// GetValidator returns the process-wide validator with the custom tags
// registered.
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation(TagCurrency, func(fl validator.FieldLevel) bool {
			return domain.Currency(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation(TagBankable, func(fl validator.FieldLevel) bool {
			return domain.Currency(fl.Field().String()).Bankable()
		})
		_ = v.RegisterValidation(TagSnowflake, validateSnowflake)
		v.RegisterTagNameFunc(jsonFieldName)
		shared = &Validator{validate: v}
	})
	return shared
}

// ValidateStruct validates a struct using its tags
func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// ValidateVar validates a single value against a tag expression
func (v *Validator) ValidateVar(value any, tag string) error {
	return v.validate.Var(value, tag)
}

// validateSnowflake accepts Discord IDs: decimal digits only.
func validateSnowflake(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > maxSnowflakeLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// FormatValidationError turns validator errors into a field → message map
// keyed by JSON field name.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		if field == "" {
			field = strings.ToLower(e.StructField())
		}
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case TagCurrency:
			errs[field] = "Unknown currency"
		case TagBankable:
			errs[field] = "Only coins and gems can be banked"
		case TagSnowflake:
			errs[field] = "Must be a Discord ID"
		case "min", "gte", "gt":
			errs[field] = fmt.Sprintf("Must be at least %s", minParam(e))
		case "max", "lte":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "dive", "unique":
			errs[field] = "Invalid list"
		default:
			errs[field] = "Invalid value"
		}
	}
	return errs
}

func minParam(e validator.FieldError) string {
	if e.Tag() == "gt" {
		return e.Param() + " (exclusive)"
	}
	return e.Param()
}
