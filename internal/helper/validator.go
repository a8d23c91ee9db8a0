// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2025 UnderNET

// Package helper provides helper functions
package helper

import (
	"fmt"
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en_US"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"

	"github.com/undernetirc/totp-api/internal/auth/oath"
)

// base32SecretRegex is the secret policy: the RFC 4648 alphabet with optional trailing
// padding.
var base32SecretRegex = regexp.MustCompile(`^[A-Za-z2-7]+=*$`)

// Validator is a wrapper around the validator package
type Validator struct {
	validator *validator.Validate
	transEN   ut.Translator
}

// NewValidator returns a new Validator
func NewValidator() *Validator {
	english := en_US.New()
	uni := ut.New(english, english)
	transEN, found := uni.GetTranslator("en_US")
	if !found {
		log.Fatal("translator not found")
	}
	validate := validator.New()

	// Override the default tag name by using the json tag
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register default translations
	if err := enTranslation.RegisterDefaultTranslations(validate, transEN); err != nil {
		log.Fatal(err)
	}

	// Register custom validators
	registerCustomValidators(validate, transEN)

	return &Validator{
		validator: validate,
		transEN:   transEN,
	}
}

// Validate validates a struct based on the tags
func (v *Validator) Validate(i interface{}) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Handle non-ValidationErrors (like InvalidValidationError)
		return fmt.Errorf("validation error: %s", err.Error())
	}
	var errs []string
	for _, e := range validationErrors {
		errs = append(errs, e.Translate(v.transEN))
	}
	return fmt.Errorf("%s", strings.Join(errs, ", "))
}

// IsBase32Secret reports whether s satisfies the canonical secret policy.
func IsBase32Secret(s string) bool {
	return base32SecretRegex.MatchString(s)
}

// registerCustomValidators registers custom validation rules
func registerCustomValidators(validate *validator.Validate, trans ut.Translator) {
	register := func(tag, message string, fn validator.Func) {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			log.Fatal(err)
		}
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}); err != nil {
			log.Fatal(err)
		}
	}

	register("base32secret",
		"{0} must be a valid Base32 secret (letters A-Z and digits 2-7)",
		validateBase32Secret)
	register("otpalgorithm",
		"{0} must be one of SHA1, SHA256, SHA512",
		validateOTPAlgorithm)
}

// validateBase32Secret validates the RFC 4648 charset
func validateBase32Secret(fl validator.FieldLevel) bool {
	secret := fl.Field().String()

	// Let required validator handle empty strings
	if secret == "" {
		return true
	}

	return IsBase32Secret(secret)
}

// validateOTPAlgorithm accepts the algorithm names oath.ParseAlgorithm understands
func validateOTPAlgorithm(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}

	_, err := oath.ParseAlgorithm(name)
	return err == nil
}
