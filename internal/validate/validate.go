package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MobilePattern matches an Egyptian mobile number: 01 + operator digit + 8 digits.
var MobilePattern = regexp.MustCompile(`^01[0125][0-9]{8}$`)

var ErrMalformedBody = errors.New("malformed request body")

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)
	if err := validate.RegisterValidation("egmobile", func(fl validator.FieldLevel) bool {
		return MobilePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// FieldError is one failed rule, keyed by the JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every field that failed validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages maps field name to message.
func (e *Error) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// Struct validates s against its `validate` tags. Rule failures come back as *Error.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &Error{Fields: FormatValidationErrors(verrs)}
	}
	return err
}

// Decode reads a JSON body into dst and validates it.
func Decode(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return Struct(dst)
}

// Fields returns the field errors carried by err, or nil.
func Fields(err error) []FieldError {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

func FormatValidationErrors(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Message: errorMessage(e)})
	}
	return out
}

func errorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Minimum " + e.Param() + " characters"
	case "max":
		return "Maximum " + e.Param() + " characters"
	case "egmobile":
		return "Invalid Egyptian phone number (01XXXXXXXXX)"
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
