// Package validation provides request validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	yearPattern   = regexp.MustCompile(`^\d{4}$`)
	imdbIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// Validator wraps go-playground/validator with the CineVault tags.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
//
// Custom tags:
//   - year4: exactly four ASCII digits
//   - imdbid: non-empty ASCII alphanumerics, so it never contains the key separator or a path element
//   - nopath: no '/', '\' or NUL byte
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "year4", func(fl validator.FieldLevel) bool {
		return yearPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "imdbid", func(fl validator.FieldLevel) bool {
		return imdbIDPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "nopath", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "/\\\x00")
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Check validates a struct and returns the failing fields mapped to the tag
// that rejected them, or nil when the struct is valid. Callers use it when the
// response message depends on which field failed.
func (v *Validator) Check(s any) map[string]string {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return map[string]string{"": err.Error()}
	}
	failed := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		failed[e.Field()] = e.Tag()
	}
	return failed
}
