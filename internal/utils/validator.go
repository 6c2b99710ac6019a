// internal/utils/validator.go
package utils

import (
	"reflect"
	"strings"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	validate.RegisterValidation("solana_address", validateSolanaAddress)
	validate.RegisterValidation("tx_signature", validateTxSignature)
	validate.RegisterValidation("future", validateFuture)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateSolanaAddress(fl validator.FieldLevel) bool {
	address := fl.Field().String()
	if len(address) < 32 || len(address) > 44 {
		return false
	}
	_, err := sol.PublicKeyFromBase58(address)
	return err == nil
}

func validateTxSignature(fl validator.FieldLevel) bool {
	_, err := sol.SignatureFromBase58(fl.Field().String())
	return err == nil
}

func validateFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

// NewValidationError builds a single field error for checks that cannot
// be expressed as tags.
func NewValidationError(field, tag, message string) []ValidationError {
	return []ValidationError{{Field: field, Tag: tag, Message: message}}
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		if e.Kind() == reflect.String {
			return e.Field() + " must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return e.Field() + " must contain at least " + e.Param() + " items"
		}
		return e.Field() + " must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return e.Field() + " must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return e.Field() + " must contain at most " + e.Param() + " items"
		}
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "uuid":
		return e.Field() + " must be a valid UUID"
	case "url":
		return e.Field() + " must be a valid URL"
	case "solana_address":
		return e.Field() + " must be a valid Solana address"
	case "tx_signature":
		return e.Field() + " must be a base58 encoded 64 byte transaction signature"
	case "future":
		return e.Field() + " must be in the future"
	default:
		return e.Field() + " is invalid"
	}
}
