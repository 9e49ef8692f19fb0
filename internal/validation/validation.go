package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const minPasswordLength = 8

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return v
}

// IsStrongPassword requires a minimum length and at least one lowercase,
// uppercase, digit and symbol character.
func IsStrongPassword(p string) bool {
	if len(p) < minPasswordLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// Error lists every field that failed validation.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return strings.Join(e.Fields, "; ")
}

// Struct checks s against its validate tags and converts failures into an
// *Error with one readable message per field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{}
	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out.Fields = append(out.Fields, fmt.Sprintf("%s is required", field))
		case "email":
			out.Fields = append(out.Fields, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			out.Fields = append(out.Fields, fmt.Sprintf("%s must have minimum length %s", field, e.Param()))
		case "max":
			out.Fields = append(out.Fields, fmt.Sprintf("%s must have maximum length %s", field, e.Param()))
		case "gt":
			out.Fields = append(out.Fields, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		case "strongpassword":
			out.Fields = append(out.Fields, fmt.Sprintf("%s is not strong enough", field))
		default:
			out.Fields = append(out.Fields, fmt.Sprintf("%s is invalid (%s)", field, e.Tag()))
		}
	}
	return out
}
