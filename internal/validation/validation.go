// Package validation holds the form schemas shared by the portal
// handlers. Each schema trims and sanitizes its value first, then checks
// the field constraints; the result is either the canonical value or an
// ordered list of human-readable field messages, never something in
// between. This is a usability layer only — the remote service remains
// the authority and revalidates everything.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator"

	"github.com/tolonipescarias/portal/internal/domain"
)

// personNameRe accepts letters (including diacritics) and spaces only.
var personNameRe = regexp.MustCompile(`^[\p{L}\p{M} ]+$`)

// Validator validates schema inputs.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the portal's custom constraints registered.
func New() *Validator {
	v := validator.New()

	// Report field names by their json tag so messages match the wire form.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})
	v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return hasComposition(fl.Field().String())
	})
	v.RegisterValidation("date_ymd", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("time_hm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// hasComposition reports whether s contains at least one lowercase letter,
// one uppercase letter, and one digit.
func hasComposition(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// Check normalizes the input in place and returns the list of field
// violations, in struct field order. An empty result means the input is
// valid and already in canonical form.
func (v *Validator) Check(in Input) []string {
	in.normalize()

	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

// ValidateAndSanitize runs Check and folds the violations into a single
// error wrapping domain.ErrInvalidInput, with the field messages joined.
func (v *Validator) ValidateAndSanitize(in Input) error {
	msgs := v.Check(in)
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", fe.Field())
	case "email":
		return fmt.Sprintf("field %s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("field %s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("field %s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("field %s must be greater than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("field %s must be at most %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("field %s must contain valid URLs", fe.Field())
	case "eqfield":
		return fmt.Sprintf("field %s must match the new password", fe.Field())
	case "person_name":
		return fmt.Sprintf("field %s may contain only letters and spaces", fe.Field())
	case "password_strength":
		return fmt.Sprintf("field %s must contain a lowercase letter, an uppercase letter, and a digit", fe.Field())
	case "date_ymd":
		return fmt.Sprintf("field %s must be a date in YYYY-MM-DD format", fe.Field())
	case "time_hm":
		return fmt.Sprintf("field %s must be a time in HH:MM format", fe.Field())
	default:
		return fmt.Sprintf("field %s is not valid", fe.Field())
	}
}
