// Package validation defines the declarative schema for complaint
// submissions. Validation is pure: it either yields a normalized
// submission or an aggregate error listing every violated field.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintSubmission is the raw citizen-facing intake payload.
type ComplaintSubmission struct {
	ComplaintType string `json:"complaintType" validate:"required,complaint_type"`
	OtherType     string `json:"otherType" validate:"-"`
	Subject       string `json:"subject" validate:"required"`
	Description   string `json:"description" validate:"required"`
	DateOfIssue   string `json:"dateOfIssue" validate:"-"`
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,phone_digits"`
	ZipCode       string `json:"zipCode" validate:"required,zip_digits"`
}

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
)

var fieldMessages = map[string]string{
	"complaintType": "Complaint type must be one of Billing, Insurance, Provider, Prescriptions, Other",
	"subject":       "Subject is required",
	"description":   "Description is required",
	"firstName":     "First name is required",
	"lastName":      "Last name is required",
	"email":         "Please enter a valid email address",
	"phone":         "Phone number must be 10 digits without spaces or special characters",
	"zipCode":       "Zip code must be 5 digits",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("complaint_type", func(fl validator.FieldLevel) bool {
		return domain.ValidType(domain.ComplaintType(fl.Field().String()))
	})
	_ = v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("zip_digits", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateSubmission checks every schema rule and returns either the
// submission unchanged or a single aggregate validation error.
func ValidateSubmission(sub ComplaintSubmission) error {
	err := validate.Struct(sub)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return util.NewInternalError(err)
	}

	fields := make([]util.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, util.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe.Field()),
		})
	}
	return util.NewValidationError("Validation error", fields)
}

func messageFor(field string) string {
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	return field + " is invalid"
}
