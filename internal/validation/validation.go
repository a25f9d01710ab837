// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validation wraps a shared go-playground validator instance and
// converts its field errors into apperr validation errors keyed by the
// JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"bizdir/internal/apperr"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// contactEmail requires a local part, an @ and a dotted domain.
	contactEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]+$`)
)

// Validator returns the shared validator, initializing it on first use.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names so clients can map errors to their form fields.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
			return contactEmail.MatchString(strings.TrimSpace(fl.Field().String()))
		})
	})
	return validate
}

// IsEmail reports whether s looks like a deliverable address.
func IsEmail(s string) bool {
	return contactEmail.MatchString(strings.TrimSpace(s))
}

// Struct validates s and returns nil or an *apperr.Error of kind
// validation whose details map each failing field to a message.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(fmt.Errorf("validate: %w", err))
	}

	fields := make(map[string]any, len(fieldErrs))
	var first string
	for _, fe := range fieldErrs {
		msg := translate(fe)
		if first == "" {
			first = msg
		}
		fields[fe.Field()] = msg
	}

	appErr := apperr.Invalid("%s", first)
	appErr.WithDetail("fields", fields)
	return appErr
}

// messages maps tags without a parameter to a template taking the field name.
var messages = map[string]string{
	"required":      "%s is required",
	"notblank":      "%s must not be blank",
	"contact_email": "%s must be a valid email address",
	"email":         "%s must be a valid email address",
	"http_url":      "%s must be an http(s) URL",
}

// paramMessages maps tags with a parameter to a template taking the field
// name and the parameter.
var paramMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gt":    "%s must be greater than %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}

	// Length bounds read differently for numbers and lists.
	if fe.Tag() == "max" || fe.Tag() == "min" {
		bound := "most"
		if fe.Tag() == "min" {
			bound = "least"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be at %s %s characters", fe.Field(), bound, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("%s must have at %s %s items", fe.Field(), bound, fe.Param())
		default:
			return fmt.Sprintf("%s must be at %s %s", fe.Field(), bound, fe.Param())
		}
	}

	if tmpl, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
