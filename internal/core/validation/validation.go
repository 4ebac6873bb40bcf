// Package validation checks user payloads against explicit rule tables.
//
// Each table is an ordered list of (field, constraint, predicate) rows. A
// failing row contributes the key "{field}-{constraint}", so callers get a
// stable, ordered list they can hand straight to clients.
package validation

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

var fieldValidator = validator.New()

// Rule is one row of a validation table.
type Rule[T any] struct {
	Field      string
	Constraint string
	// When gates the rule. A nil When always applies.
	When  func(T) bool
	Check func(T) bool
}

// Key returns the violation key reported when the rule fails.
func (r Rule[T]) Key() string {
	return r.Field + "-" + r.Constraint
}

// Verdict is the outcome of checking one payload.
type Verdict struct {
	Violations []string
	Warnings   []string
}

// Valid reports whether no rule failed. Warnings do not make a payload invalid.
func (v Verdict) Valid() bool {
	return len(v.Violations) == 0
}

// Validate runs rules in order and returns the keys of those that failed.
func Validate[T any](in T, rules []Rule[T]) []string {
	var keys []string
	for _, r := range rules {
		if r.When != nil && !r.When(in) {
			continue
		}
		if !r.Check(in) {
			keys = append(keys, r.Key())
		}
	}
	return keys
}

func present[T any](get func(T) string) func(T) bool {
	return func(in T) bool { return get(in) != "" }
}

func notEmpty[T any](field string, get func(T) string) Rule[T] {
	return Rule[T]{Field: field, Constraint: "is-not-empty", Check: present(get)}
}

// Length rows only run on non-empty values so a missing required field
// reports is-not-empty alone.
func minLength[T any](field string, n int, get func(T) string) Rule[T] {
	tag := "min=" + strconv.Itoa(n)
	return Rule[T]{
		Field:      field,
		Constraint: "min-length",
		When:       present(get),
		Check:      func(in T) bool { return fieldValidator.Var(get(in), tag) == nil },
	}
}

func maxLength[T any](field string, n int, get func(T) string) Rule[T] {
	tag := "max=" + strconv.Itoa(n)
	return Rule[T]{
		Field:      field,
		Constraint: "max-length",
		When:       present(get),
		Check:      func(in T) bool { return fieldValidator.Var(get(in), tag) == nil },
	}
}

// maxBytes bounds the encoded size, which max-length does not: it counts runes.
func maxBytes[T any](field string, n int, get func(T) string) Rule[T] {
	return Rule[T]{
		Field:      field,
		Constraint: "max-bytes",
		When:       present(get),
		Check:      func(in T) bool { return len(get(in)) <= n },
	}
}

func email[T any](field string, get func(T) string) Rule[T] {
	return Rule[T]{
		Field:      field,
		Constraint: "is-email",
		When:       present(get),
		Check:      func(in T) bool { return fieldValidator.Var(get(in), "email") == nil },
	}
}

func strongPassword[T any](field string, get func(T) string) Rule[T] {
	return Rule[T]{
		Field:      field,
		Constraint: "validate-password",
		When:       present(get),
		Check:      func(in T) bool { return IsStrongPassword(get(in)) },
	}
}

func sameAs[T any](field string, when func(T) bool, a, b func(T) string) Rule[T] {
	return Rule[T]{
		Field:      field,
		Constraint: "not-match",
		When:       when,
		Check:      func(in T) bool { return a(in) == b(in) },
	}
}

// IsStrongPassword reports whether s has an upper-case letter, a lower-case
// letter and at least one digit or non-word symbol.
func IsStrongPassword(s string) bool {
	var upper, lower, digitOrSymbol bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digitOrSymbol = true
		case r != '_':
			digitOrSymbol = true
		}
	}
	return upper && lower && digitOrSymbol
}
