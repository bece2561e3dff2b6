package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"paysecure/internal/pkg/response"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern      = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	accountNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)
	currencyPattern      = regexp.MustCompile(`^[A-Z]{3}$`)
	fullNamePattern      = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "username", usernamePattern)
	mustRegister(v, "accountnumber", accountNumberPattern)
	mustRegister(v, "currency", currencyPattern)
	mustRegister(v, "fullname", fullNamePattern)

	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// Struct validates s and returns field errors, or nil when s is valid.
func Struct(s interface{}) []response.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []response.FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]response.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, response.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "username":
		return fmt.Sprintf("%s may contain only letters, numbers and underscores", fe.Field())
	case "accountnumber":
		return fmt.Sprintf("%s must be exactly 10 digits", fe.Field())
	case "currency":
		return fmt.Sprintf("%s must be a 3-letter currency code", fe.Field())
	case "fullname":
		return fmt.Sprintf("%s contains invalid characters", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
