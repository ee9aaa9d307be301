package handler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the enumeration tags used in request bindings.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	tags := map[string]validator.Func{
		"gender": func(fl validator.FieldLevel) bool {
			return domain.Gender(fl.Field().String()).Valid()
		},
		"looking_for": func(fl validator.FieldLevel) bool {
			return domain.LookingFor(fl.Field().String()).Valid()
		},
		"hobby": func(fl validator.FieldLevel) bool {
			return domain.IsKnownHobby(fl.Field().String())
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// SanitizeDigits drops every non-digit character.
func SanitizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ParseAgeText reads an age typed as free text. Ages outside the adult range
// are rejected.
func ParseAgeText(s string) (int, error) {
	digits := SanitizeDigits(strings.TrimFunc(s, unicode.IsSpace))
	if digits == "" {
		return 0, fmt.Errorf("age %q has no digits: %w", s, domain.ErrInvalidInput)
	}
	age, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("age %q: %w", s, domain.ErrInvalidInput)
	}
	if age < domain.MinAge || age > domain.MaxAge {
		return 0, fmt.Errorf("age %d outside %d-%d: %w", age, domain.MinAge, domain.MaxAge, domain.ErrInvalidInput)
	}
	return age, nil
}
