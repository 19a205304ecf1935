package common

import (
	"fmt"
	"regexp"
	"sort"
	"unicode/utf8"
)

type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %+v", e.Errors)
}

// FieldError is a single field-level message of a ValidationError.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// List returns the field errors ordered by field name.
func (e ValidationError) List() []FieldError {
	list := make([]FieldError, 0, len(e.Errors))
	for field, message := range e.Errors {
		list = append(list, FieldError{Field: field, Message: message})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Field < list[j].Field
	})

	return list
}

type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	if _, ok := v.Errors[field]; !ok {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// CheckStringLength counts characters, not bytes.
func (v *Validator) CheckStringLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func (v *Validator) Matches(s string, rx *regexp.Regexp) bool {
	return rx.MatchString(s)
}

func PermittedValue[T comparable](value T, permitted ...T) bool {
	for _, p := range permitted {
		if value == p {
			return true
		}
	}

	return false
}

func (v *Validator) ValidationError() error {
	return ValidationError{Errors: v.Errors}
}
