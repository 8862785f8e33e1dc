package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/limbachsamaj/communitysite/pkg/models"
)

/*
Validator wraps go-playground/validator and turns field errors into the
messages shown next to form fields. The same rules back the contact form
and the contact endpoint.
*/
type Validator struct {
	v *validator.Validate
}

var labels = map[string]string{
	"name":        "Name",
	"email":       "Email",
	"phoneNumber": "Phone number",
	"address":     "Address",
	"subject":     "Subject",
	"message":     "Message",
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")

		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return &Validator{v: v}
}

/*
Validate returns a *models.ValidationError with one message per failing
field, in struct field order.
*/
func (v *Validator) Validate(s any) error {
	var (
		validationErrs validator.ValidationErrors
	)

	err := v.v.Struct(s)

	if err == nil {
		return nil
	}

	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("error validating input: %w", err)
	}

	details := make([]string, 0, len(validationErrs))

	for _, fieldErr := range validationErrs {
		details = append(details, friendlyMessage(fieldErr))
	}

	return &models.ValidationError{Details: details}
}

func (v *Validator) ValidateContactMessage(message models.ContactMessage) (models.ContactMessage, error) {
	trimmed := message.Trimmed()
	return trimmed, v.Validate(trimmed)
}

func friendlyMessage(e validator.FieldError) string {
	label, ok := labels[e.Field()]

	if !ok {
		label = e.Field()
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
