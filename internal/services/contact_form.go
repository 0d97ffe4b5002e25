// Package services contains business logic layers.
// Services are called by handlers and talk to the outside world.
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/omkarinteriors/contact-api/internal/models"
)

// ErrBadRequest is returned when the body is not a JSON object
var ErrBadRequest = errors.New("invalid request body")

// ValidationError lists the fields that failed validation
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// contactForm is the wire shape of a submission. Pointers tell a missing
// field apart from an empty one.
type contactForm struct {
	Name    *string `json:"name" validate:"required,min=2,max=200"`
	Email   *string `json:"email" validate:"required,email"`
	Message *string `json:"message" validate:"required,min=5,max=5000"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
}

// formField binds a JSON key to its slot in contactForm
type formField struct {
	key      string
	dst      **string
	optional bool
}

// fields lists the form's keys in the order errors are reported
func (f *contactForm) fields() []formField {
	return []formField{
		{key: "name", dst: &f.Name},
		{key: "email", dst: &f.Email},
		{key: "message", dst: &f.Message},
		{key: "phone", dst: &f.Phone, optional: true},
	}
}

func (f *contactForm) trim() {
	for _, p := range []*string{f.Name, f.Message, f.Phone} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

var (
	validate = validator.New()
	jsonNull = []byte("null")
)

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ParseSubmission decodes, trims and validates a raw request body.
// It returns ErrBadRequest (wrapped) for anything that is not a JSON object
// and *ValidationError when one or more fields are invalid.
func ParseSubmission(body []byte) (*models.Submission, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, ErrBadRequest
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	var form contactForm
	byField := map[string]models.FieldError{}

	// Each key is decoded on its own so every non-string value is reported,
	// not just the first one encoding/json trips over.
	for _, f := range form.fields() {
		val, ok := raw[f.key]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(val), jsonNull) {
			if !f.optional {
				byField[f.key] = stringTypeError(f.key)
			}
			continue
		}
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			byField[f.key] = stringTypeError(f.key)
			continue
		}
		*f.dst = &s
	}

	form.trim()

	if err := validate.Struct(&form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validate submission: %w", err)
		}
		for _, fe := range verrs {
			if _, seen := byField[fe.Field()]; seen {
				continue
			}
			msg, typ := describeRule(fe)
			byField[fe.Field()] = models.FieldError{
				Loc:  []string{fe.Field()},
				Msg:  msg,
				Type: typ,
			}
		}
	}

	if len(byField) > 0 {
		fieldErrs := make([]models.FieldError, 0, len(byField))
		for _, f := range form.fields() {
			if fe, ok := byField[f.key]; ok {
				fieldErrs = append(fieldErrs, fe)
			}
		}
		return nil, &ValidationError{Fields: fieldErrs}
	}

	return &models.Submission{
		Name:    *form.Name,
		Email:   *form.Email,
		Message: *form.Message,
		Phone:   form.Phone,
	}, nil
}

func stringTypeError(field string) models.FieldError {
	return models.FieldError{
		Loc:  []string{field},
		Msg:  "Input should be a valid string",
		Type: "string_type",
	}
}

func describeRule(fe validator.FieldError) (msg, typ string) {
	switch fe.Tag() {
	case "required":
		return "Field required", "missing"
	case "min":
		return fmt.Sprintf("String should have at least %s characters", fe.Param()), "string_too_short"
	case "max":
		return fmt.Sprintf("String should have at most %s characters", fe.Param()), "string_too_long"
	case "email":
		return "value is not a valid email address", "value_error"
	default:
		return fe.Error(), fe.Tag()
	}
}
