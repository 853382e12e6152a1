package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"health-concierge/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report fields by their JSON names so errors match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("healthcare_role", func(fl validator.FieldLevel) bool {
		return entity.IsHealthcareRole(fl.Field().String())
	})
	v.RegisterValidation("healthcare_service", func(fl validator.FieldLevel) bool {
		return entity.IsHealthcareService(fl.Field().String())
	})

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errs[field] = field + " is required"
			case "required_if", "required_unless":
				errs[field] = field + " is required for this request"
			case "email":
				errs[field] = field + " must be a valid email address"
			case "min":
				errs[field] = field + " must be at least " + e.Param()
			case "max":
				errs[field] = field + " must be at most " + e.Param()
			case "gt":
				errs[field] = field + " must be greater than " + e.Param()
			case "gte":
				errs[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errs[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errs[field] = field + " must be one of: " + e.Param()
			case "healthcare_role":
				errs[field] = field + " must be a recognised healthcare role"
			case "healthcare_service":
				errs[field] = field + " must be a recognised healthcare service"
			default:
				errs[field] = field + " is invalid"
			}
		}
	}

	return errs
}

// FieldError is a single failed rule from request level checks that struct
// tags cannot express.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors collects FieldErrors in order.
type Errors []*FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Map renders the errors keyed by field, in the FormatValidationErrors shape.
func (e Errors) Map() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}

// Require appends a required-field error when ok is false.
func (e *Errors) Require(ok bool, field string) {
	if !ok {
		*e = append(*e, &FieldError{Field: field, Message: field + " is required"})
	}
}

// Check appends message for field when ok is false.
func (e *Errors) Check(ok bool, field, message string) {
	if !ok {
		*e = append(*e, &FieldError{Field: field, Message: message})
	}
}

// Err returns nil when no errors were collected.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Conditional is implemented by forms whose rules depend on other fields.
type Conditional interface {
	ValidateConditions(errs *Errors)
}

// ValidateRequest runs the struct tag rules and then, when i implements
// Conditional, the cross-field rules. Failures come back as Errors.
func (cv *CustomValidator) ValidateRequest(i interface{}) error {
	var errs Errors
	if err := cv.Validate(i); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		formatted := cv.FormatValidationErrors(err)
		fields := make([]string, 0, len(formatted))
		for field := range formatted {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			errs = append(errs, &FieldError{Field: field, Message: formatted[field]})
		}
	}
	if c, ok := i.(Conditional); ok {
		c.ValidateConditions(&errs)
	}
	return errs.Err()
}
