package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Role validation
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"client", "staff", "owner"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	// Phone validation: E.164-ish, digits with optional leading +
	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		phone := fl.Field().String()
		if len(phone) < 7 || len(phone) > 16 {
			return false
		}
		for i, c := range phone {
			if c == '+' && i == 0 {
				continue
			}
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})

	// Booking status action validation
	validate.RegisterValidation("booking_action", func(fl validator.FieldLevel) bool {
		action := fl.Field().String()
		validActions := []string{"confirm", "complete", "cancel"}
		for _, a := range validActions {
			if action == a {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "role":
			errors[field] = "Invalid role. Must be: client, staff, or owner"
		case "phone":
			errors[field] = "Invalid phone number"
		case "booking_action":
			errors[field] = "Invalid action. Must be: confirm, complete, or cancel"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
