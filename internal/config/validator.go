// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Resolve` calls `validateSettings` right after decoding.  Rules live in
// the `validate` tags on `Settings`; this file only turns the library's
// errors into `*Error` values that carry the schema field name (taken
// from the `koanf` tag) and the offending value.
//
// The cross-field entraid rule (client id implies an "entraid" provider) is
// deliberately absent.  The auth layer owns it.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

//
// public API
//

// validateSettings returns every rule violation joined, or nil.
func validateSettings(s *Settings) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &Error{
			Field: fieldName(fe),
			Value: fmt.Sprint(fe.Value()),
			Err:   fmt.Errorf("%w: %s", ErrValidation, describe(fe)),
		})
	}
	return errors.Join(out...)
}

// fieldName drops the struct prefix and keeps any list index, so a bad
// origin reports as cors_allow_origins[1].
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "eq=*|url":
		return `must be "*" or a valid URL`
	case "required":
		return "is required"
	}
	return "failed " + fe.Tag() + " rule"
}
