package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("rid", func(fl validator.FieldLevel) bool {
			return reID.MatchString(fl.Field().String())
		})
	})
	return v
}

// Error is a client input problem; Message is safe to show.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Struct runs the `validate` tags on s and returns the first problem as *Error.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &Error{Message: describe(verrs[0])}
	}
	return &Error{Message: "invalid input"}
}

func describe(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", f)
	case "email":
		return fmt.Sprintf("%s must be a valid email", f)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, fe.Param())
	case "rid":
		return fmt.Sprintf("%s is not a valid id", f)
	default:
		return fmt.Sprintf("%s is invalid", f)
	}
}

// Invalid builds an *Error from a message.
func Invalid(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// ID validates a resource identifier taken from a path parameter.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Email trims and lower-cases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
