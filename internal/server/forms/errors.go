// Package forms holds the typed inputs accepted by the HTML forms and the
// rule sets they are checked against. Field names match the form keys.
package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NonField keys errors that belong to the form as a whole.
const NonField = "__all__"

// FieldErrors maps a form field to its messages. It implements error so a
// service can hand it back through the usual error return.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Any() bool { return len(e) > 0 }

func (e FieldErrors) Get(field string) []string { return e[field] }

// Form returns the form-wide messages.
func (e FieldErrors) Form() []string { return e[NonField] }

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// NewFormError builds FieldErrors holding a single form-wide message.
func NewFormError(msg string) FieldErrors {
	fe := FieldErrors{}
	fe.Add(NonField, msg)
	return fe
}

// AsFieldErrors extracts FieldErrors from err, if any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
